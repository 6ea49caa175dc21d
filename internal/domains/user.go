package domains

import "github.com/google/uuid"

type ReviewAction string

const (
	ReviewActionRespond ReviewAction = "respond"
	ReviewActionReact   ReviewAction = "react"
)

type User struct {
	ID                   uuid.UUID
	DisplayName          string
	GitHubHandle         string
	SlackID              string
	Requestable          bool
	NotificationsEnabled bool
	IsMerger             bool
	ReviewAction         ReviewAction
}

// UserFilter selects users by every non-nil field. An empty filter matches all users.
type UserFilter struct {
	ID           *uuid.UUID
	GitHubHandle *string
	SlackID      *string
	Requestable  *bool
}

// UserUpdate carries the fields to overwrite; nil fields are left untouched.
type UserUpdate struct {
	Requestable          *bool
	NotificationsEnabled *bool
}

func (u UserUpdate) Empty() bool {
	return u.Requestable == nil && u.NotificationsEnabled == nil
}

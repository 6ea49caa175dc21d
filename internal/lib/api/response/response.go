package response

import "github.com/Deymos01/git-slackin/internal/domains"

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: Error{Code: code, Message: message}}
}

type User struct {
	ID                   string `json:"user_id"`
	DisplayName          string `json:"display_name"`
	GitHubHandle         string `json:"github_handle"`
	SlackID              string `json:"slack_id"`
	Requestable          bool   `json:"requestable"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	IsMerger             bool   `json:"is_merger"`
	ReviewAction         string `json:"review_action"`
}

func NewUser(u *domains.User) User {
	return User{
		ID:                   u.ID.String(),
		DisplayName:          u.DisplayName,
		GitHubHandle:         u.GitHubHandle,
		SlackID:              u.SlackID,
		Requestable:          u.Requestable,
		NotificationsEnabled: u.NotificationsEnabled,
		IsMerger:             u.IsMerger,
		ReviewAction:         string(u.ReviewAction),
	}
}

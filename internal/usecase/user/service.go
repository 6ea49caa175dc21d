package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/repository"
	"github.com/Deymos01/git-slackin/internal/usecase"
)

var (
	profileURLRe = regexp.MustCompile(`(?i)^https?://(?:www\.)?github\.com/([a-z0-9-]+)/?`)
	handleRe     = regexp.MustCompile(`(?i)^[a-z0-9](?:[a-z0-9-]{0,38})$`)
	mentionRe    = regexp.MustCompile(`<@(\w+)(?:\|[^>]*)?>`)
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Repository
type Repository interface {
	CreateUser(ctx context.Context, user *domains.User) error
	UserByGitHubHandle(ctx context.Context, handle string) (*domains.User, error)
	UserBySlackID(ctx context.Context, slackID string) (*domains.User, error)
	UpdateUsers(ctx context.Context, filter domains.UserFilter, update domains.UserUpdate) (int64, error)
	ListUsers(ctx context.Context, filter domains.UserFilter) ([]*domains.User, error)
}

type Service struct {
	log  *slog.Logger
	repo Repository
}

func New(log *slog.Logger, repo Repository) *Service {
	return &Service{repo: repo, log: log}
}

// ExtractGitHubHandle accepts a bare handle, "@handle", a profile URL or a Slack
// formatted link such as "<https://github.com/x/|label>". It returns "" when no
// valid handle can be found.
func ExtractGitHubHandle(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}

	if m := profileURLRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.TrimPrefix(s, "@")

	if !handleRe.MatchString(s) {
		return ""
	}
	return s
}

// FindMention returns the upper-cased Slack ID of the first <@ID> mention in text.
func FindMention(text string) (string, bool) {
	m := mentionRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// Register binds the GitHub handle found in raw to slackID. When the sender is
// already registered their existing record is returned with created=false.
func (s *Service) Register(ctx context.Context, slackID, raw string) (user *domains.User, created bool, err error) {
	const op = "usecase.user.Register"

	log := s.log.With(slog.String("op", op), slog.String("slack_id", slackID))

	handle := ExtractGitHubHandle(raw)
	if handle == "" {
		log.Warn("registration without a usable github handle", slog.String("raw", raw))
		return nil, false, fmt.Errorf("%s: %w", op, usecase.ErrMissingHandle)
	}

	existing, err := s.repo.UserBySlackID(ctx, slackID)
	switch {
	case err == nil:
		log.Info("sender already registered", slog.String("github", existing.GitHubHandle))
		return existing, false, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		log.Error("failed to look up sender", slog.String("err", err.Error()))
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	owner, err := s.repo.UserByGitHubHandle(ctx, handle)
	switch {
	case err == nil:
		log.Error("github handle registered to someone else",
			slog.String("github", handle), slog.String("owner", owner.SlackID))
		return nil, false, fmt.Errorf("%s: %w", op, usecase.ErrAlreadyRegistered)
	case !errors.Is(err, repository.ErrUserNotFound):
		log.Error("failed to look up github handle", slog.String("err", err.Error()))
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	user = &domains.User{
		DisplayName:          handle,
		GitHubHandle:         handle,
		SlackID:              slackID,
		Requestable:          true,
		NotificationsEnabled: true,
		ReviewAction:         domains.ReviewActionRespond,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, false, fmt.Errorf("%s: %w", op, usecase.ErrAlreadyRegistered)
		}
		log.Error("failed to create user", slog.String("err", err.Error()))
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("github", handle))
	return user, true, nil
}

func (s *Service) BySlackID(ctx context.Context, slackID string) (*domains.User, error) {
	const op = "usecase.user.BySlackID"

	user, err := s.repo.UserBySlackID(ctx, slackID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w: %s", op, usecase.ErrUnknownUser, slackID)
		}
		s.log.Error("failed to get user", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SetAvailability turns review requests and review notifications on or off together.
func (s *Service) SetAvailability(ctx context.Context, slackID string, available bool) error {
	const op = "usecase.user.SetAvailability"

	return s.update(ctx, op, slackID, domains.UserUpdate{Requestable: &available, NotificationsEnabled: &available})
}

// SetRequestable benches (false) or unbenches (true) a user without touching
// their notification preference.
func (s *Service) SetRequestable(ctx context.Context, slackID string, requestable bool) error {
	const op = "usecase.user.SetRequestable"

	return s.update(ctx, op, slackID, domains.UserUpdate{Requestable: &requestable})
}

func (s *Service) update(ctx context.Context, op, slackID string, update domains.UserUpdate) error {
	n, err := s.repo.UpdateUsers(ctx, domains.UserFilter{SlackID: &slackID}, update)
	if err != nil {
		s.log.Error("failed to update user", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %s", op, usecase.ErrUnknownUser, slackID)
	}

	s.log.Info("user updated", slog.String("op", op), slog.String("slack_id", slackID))
	return nil
}

func (s *Service) List(ctx context.Context, filter domains.UserFilter) ([]*domains.User, error) {
	const op = "usecase.user.List"

	users, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// Availability splits every registered user into requestable and benched.
func (s *Service) Availability(ctx context.Context) (available, benched []*domains.User, err error) {
	users, err := s.List(ctx, domains.UserFilter{})
	if err != nil {
		return nil, nil, err
	}

	for _, u := range users {
		if u.Requestable {
			available = append(available, u)
			continue
		}
		benched = append(benched, u)
	}

	return available, benched, nil
}

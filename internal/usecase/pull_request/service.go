package pull_request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/repository"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/message"
	"github.com/hashicorp/go-multierror"
)

const DefaultReviewerCount = 2

type Outcome int

const (
	OutcomeHandled Outcome = iota
	// OutcomeIgnored means the action has no handler. It is not an error.
	OutcomeIgnored
)

func (o Outcome) String() string {
	if o == OutcomeIgnored {
		return "ignored"
	}
	return "handled"
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserProvider
type UserProvider interface {
	UserByGitHubHandle(ctx context.Context, handle string) (*domains.User, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ReviewerSelector
type ReviewerSelector interface {
	Select(ctx context.Context, exclude []string, count int) ([]*domains.User, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Messenger
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID, text string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ReviewRequester
type ReviewRequester interface {
	RequestReviewersAndAssignees(ctx context.Context, repoFullName string, number int, handles []string) error
}

type Service struct {
	log       *slog.Logger
	users     UserProvider
	selector  ReviewerSelector
	messenger Messenger
	requester ReviewRequester
	count     int
}

func New(
	log *slog.Logger,
	users UserProvider,
	selector ReviewerSelector,
	messenger Messenger,
	requester ReviewRequester,
	reviewerCount int,
) *Service {
	if reviewerCount < 1 {
		reviewerCount = DefaultReviewerCount
	}

	return &Service{
		log:       log,
		users:     users,
		selector:  selector,
		messenger: messenger,
		requester: requester,
		count:     reviewerCount,
	}
}

// Route dispatches ev by its action. Actions without a handler resolve to
// OutcomeIgnored with a nil error; an event without any action is an error.
func (s *Service) Route(ctx context.Context, ev domains.PullRequestEvent) (Outcome, error) {
	const op = "usecase.pull_request.Route"

	log := s.log.With(slog.String("op", op), slog.String("action", ev.Action), slog.String("repo", ev.RepoName))

	switch ev.Action {
	case "":
		log.Warn("event without action")
		return OutcomeIgnored, usecase.ErrMissingAction
	case domains.ActionOpened:
		return OutcomeHandled, s.Opened(ctx, ev)
	case domains.ActionSubmitted:
		return OutcomeHandled, s.ReviewSubmitted(ctx, ev)
	default:
		log.Info("no handler for action")
		return OutcomeIgnored, nil
	}
}

// Opened picks reviewers for a freshly opened pull request and then, concurrently,
// messages every reviewer, tells the opener who was picked and requests the
// reviews on GitHub. All side effects are attempted; their failures are returned
// together. Nothing already sent is rolled back.
func (s *Service) Opened(ctx context.Context, ev domains.PullRequestEvent) error {
	const op = "usecase.pull_request.Opened"

	opener, err := s.user(ctx, ev.OpenerHandle)
	if err != nil {
		s.log.Warn("failed to resolve opener", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	reviewers, err := s.selector.Select(ctx, []string{opener.GitHubHandle}, s.count)
	if err != nil {
		s.log.Error("failed to select reviewers", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	handles := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		handles = append(handles, r.GitHubHandle)
	}

	var g multierror.Group

	text := message.ReviewRequest(opener, ev)
	for _, r := range reviewers {
		g.Go(func() error {
			return s.deliver(ctx, r, text)
		})
	}

	g.Go(func() error {
		return s.deliver(ctx, opener, message.ReviewersChosen(reviewers))
	})

	g.Go(func() error {
		if err := s.requester.RequestReviewersAndAssignees(ctx, ev.RepoFullName, ev.Number, handles); err != nil {
			return fmt.Errorf("%w: %w", usecase.ErrReviewRequest, err)
		}
		return nil
	})

	if err := g.Wait().ErrorOrNil(); err != nil {
		s.log.Error("pull request opened with failures",
			slog.String("op", op),
			slog.Int("pr", ev.Number),
			slog.Any("reviewers", handles),
			slog.String("err", err.Error()))
		return err
	}

	s.log.Info("reviewers requested",
		slog.String("opener", opener.GitHubHandle),
		slog.Int("pr", ev.Number),
		slog.Any("reviewers", handles))
	return nil
}

// ReviewSubmitted tells the author that their pull request got a review.
// Reviews on one's own pull request are not reported.
func (s *Service) ReviewSubmitted(ctx context.Context, ev domains.PullRequestEvent) error {
	const op = "usecase.pull_request.ReviewSubmitted"

	reviewer, err := s.user(ctx, ev.ReviewerHandle)
	if err != nil {
		s.log.Warn("failed to resolve reviewer", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	author, err := s.user(ctx, ev.OpenerHandle)
	if err != nil {
		s.log.Warn("failed to resolve author", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if reviewer.ID == author.ID {
		s.log.Info("no need to notify for reviewing your own PR", slog.String("user", author.GitHubHandle))
		return nil
	}

	if !author.NotificationsEnabled {
		s.log.Info("author muted notifications", slog.String("user", author.GitHubHandle))
		return nil
	}

	if err := s.deliver(ctx, author, message.Reviewed(reviewer, ev)); err != nil {
		s.log.Error("failed to notify author", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.log.Info("author notified about review",
		slog.String("reviewer", reviewer.GitHubHandle),
		slog.String("author", author.GitHubHandle),
		slog.String("state", ev.ReviewState),
		slog.Int("pr", ev.Number))
	return nil
}

func (s *Service) user(ctx context.Context, handle string) (*domains.User, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: empty github handle", usecase.ErrUnknownUser)
	}

	u, err := s.users.UserByGitHubHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", usecase.ErrUnknownUser, handle)
		}
		return nil, err
	}

	return u, nil
}

func (s *Service) deliver(ctx context.Context, to *domains.User, text string) error {
	if err := s.messenger.SendDirectMessage(ctx, to.SlackID, text); err != nil {
		return fmt.Errorf("%w: to %s: %w", usecase.ErrDelivery, to.GitHubHandle, err)
	}
	return nil
}

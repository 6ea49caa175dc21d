package pull_request_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/repository"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/pull_request"
	"github.com/Deymos01/git-slackin/internal/usecase/pull_request/mocks"
	"github.com/Deymos01/git-slackin/internal/usecase/reviewer"
	reviewermocks "github.com/Deymos01/git-slackin/internal/usecase/reviewer/mocks"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUser(handle string) *domains.User {
	return &domains.User{
		ID:                   uuid.New(),
		DisplayName:          strings.ToUpper(handle[:1]) + handle[1:],
		GitHubHandle:         handle,
		SlackID:              "U" + strings.ToUpper(handle),
		Requestable:          true,
		NotificationsEnabled: true,
		ReviewAction:         domains.ReviewActionRespond,
	}
}

func openedEvent(opener string) domains.PullRequestEvent {
	return domains.PullRequestEvent{
		Action:       domains.ActionOpened,
		Number:       12,
		Title:        "Add retries",
		URL:          "https://github.com/acme/api/pull/12",
		RepoName:     "api",
		RepoFullName: "acme/api",
		OpenerHandle: opener,
	}
}

func reviewEvent(reviewer, author, state string) domains.PullRequestEvent {
	ev := openedEvent(author)
	ev.Action = domains.ActionSubmitted
	ev.ReviewerHandle = reviewer
	ev.ReviewState = state
	ev.ReviewURL = ev.URL + "#pullrequestreview-1"
	return ev
}

type sentMessage struct {
	userID string
	text   string
}

func TestRoute(t *testing.T) {
	cases := []struct {
		name        string
		action      string
		wantOutcome pull_request.Outcome
		wantErr     error
	}{
		{name: "missing action", action: "", wantOutcome: pull_request.OutcomeIgnored, wantErr: usecase.ErrMissingAction},
		{name: "closed is ignored", action: "closed", wantOutcome: pull_request.OutcomeIgnored},
		{name: "labeled is ignored", action: "labeled", wantOutcome: pull_request.OutcomeIgnored},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := pull_request.New(discardLogger(),
				mocks.NewUserProvider(t), mocks.NewReviewerSelector(t), mocks.NewMessenger(t), mocks.NewReviewRequester(t), 2)

			ev := openedEvent("ada")
			ev.Action = tc.action

			outcome, err := svc.Route(context.Background(), ev)
			require.Equal(t, tc.wantOutcome, outcome)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// Five eligible reviewers, two requested, one reviewer DM fails: every other side
// effect must still happen and exactly one failure is reported.
func TestOpened_SideEffectsAreIndependent(t *testing.T) {
	opener := newUser("ada")
	everyone := []*domains.User{opener}
	for _, h := range []string{"bob", "cy", "dee", "eve", "fay"} {
		everyone = append(everyone, newUser(h))
	}

	users := mocks.NewUserProvider(t)
	users.On("UserByGitHubHandle", mock.Anything, "ada").Return(opener, nil).Once()

	lister := reviewermocks.NewUserLister(t)
	lister.On("ListUsers", mock.Anything, mock.Anything).Return(everyone, nil).Once()
	selector := reviewer.NewWithRand(discardLogger(), lister, rand.New(rand.NewPCG(3, 4)))

	var (
		mu     sync.Mutex
		sent   []sentMessage
		failed bool
	)
	messenger := mocks.NewMessenger(t)
	messenger.
		On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, userID, text string) error {
			mu.Lock()
			defer mu.Unlock()

			sent = append(sent, sentMessage{userID: userID, text: text})
			if strings.HasPrefix(text, "Hi! Please look at") && !failed {
				failed = true
				return errors.New("slack is down")
			}
			return nil
		}).
		Times(3)

	requester := mocks.NewReviewRequester(t)
	requester.
		On("RequestReviewersAndAssignees", mock.Anything, "acme/api", 12, mock.MatchedBy(func(h []string) bool {
			return len(h) == 2 && h[0] != h[1] && h[0] != "ada" && h[1] != "ada"
		})).
		Return(nil).
		Once()

	svc := pull_request.New(discardLogger(), users, selector, messenger, requester, 2)

	outcome, err := svc.Route(context.Background(), openedEvent("ada"))
	require.Equal(t, pull_request.OutcomeHandled, outcome)
	require.ErrorIs(t, err, usecase.ErrDelivery)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)

	var reviewerDMs, openerDMs []sentMessage
	for _, m := range sent {
		if m.userID == opener.SlackID {
			openerDMs = append(openerDMs, m)
			continue
		}
		reviewerDMs = append(reviewerDMs, m)
	}

	require.Len(t, openerDMs, 1)
	require.True(t, strings.HasPrefix(openerDMs[0].text, "I have requested <@U"))

	require.Len(t, reviewerDMs, 2)
	require.NotEqual(t, reviewerDMs[0].userID, reviewerDMs[1].userID)
	for _, m := range reviewerDMs {
		require.Equal(t, `Hi! Please look at <https://github.com/acme/api/pull/12|api PR #12> "Add retries" that Ada opened.`, m.text)
	}
}

func TestOpened(t *testing.T) {
	opener := newUser("ada")
	bob, cy := newUser("bob"), newUser("cy")

	type testCase struct {
		name string

		openerErr    error
		selectErr    error
		requestErr   error
		messengerErr error

		expectedErr error
	}

	cases := []testCase{
		{
			name: "Success",
		},
		{
			name:        "Unknown opener",
			openerErr:   repository.ErrUserNotFound,
			expectedErr: usecase.ErrUnknownUser,
		},
		{
			name:        "Opener lookup fails",
			openerErr:   errors.New("db down"),
			expectedErr: errors.New("db down"),
		},
		{
			name:        "Not enough reviewers",
			selectErr:   fmt.Errorf("select: %w", usecase.ErrInsufficientUsers),
			expectedErr: usecase.ErrInsufficientUsers,
		},
		{
			name:        "Review request fails",
			requestErr:  errors.New("github 422"),
			expectedErr: usecase.ErrReviewRequest,
		},
		{
			name:         "Every DM fails",
			messengerErr: errors.New("slack down"),
			expectedErr:  usecase.ErrDelivery,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := mocks.NewUserProvider(t)
			selector := mocks.NewReviewerSelector(t)
			messenger := mocks.NewMessenger(t)
			requester := mocks.NewReviewRequester(t)

			if tc.openerErr != nil {
				users.On("UserByGitHubHandle", mock.Anything, "ada").Return(nil, tc.openerErr).Once()
			} else {
				users.On("UserByGitHubHandle", mock.Anything, "ada").Return(opener, nil).Once()
			}

			if tc.openerErr == nil {
				if tc.selectErr != nil {
					selector.On("Select", mock.Anything, []string{"ada"}, 2).Return(nil, tc.selectErr).Once()
				} else {
					selector.On("Select", mock.Anything, []string{"ada"}, 2).Return([]*domains.User{bob, cy}, nil).Once()
				}
			}

			if tc.openerErr == nil && tc.selectErr == nil {
				messenger.On("SendDirectMessage", mock.Anything, bob.SlackID, mock.Anything).Return(tc.messengerErr).Once()
				messenger.On("SendDirectMessage", mock.Anything, cy.SlackID, mock.Anything).Return(tc.messengerErr).Once()
				messenger.On("SendDirectMessage", mock.Anything, opener.SlackID, "I have requested <@UBOB>, <@UCY> to review your PR").
					Return(tc.messengerErr).Once()
				requester.On("RequestReviewersAndAssignees", mock.Anything, "acme/api", 12, []string{"bob", "cy"}).
					Return(tc.requestErr).Once()
			}

			svc := pull_request.New(discardLogger(), users, selector, messenger, requester, 2)

			err := svc.Opened(context.Background(), openedEvent("ada"))

			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			if errors.Is(tc.expectedErr, usecase.ErrUnknownUser) ||
				errors.Is(tc.expectedErr, usecase.ErrInsufficientUsers) ||
				errors.Is(tc.expectedErr, usecase.ErrReviewRequest) ||
				errors.Is(tc.expectedErr, usecase.ErrDelivery) {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestOpened_AllDMFailuresAreCollected(t *testing.T) {
	opener := newUser("ada")
	bob, cy := newUser("bob"), newUser("cy")

	users := mocks.NewUserProvider(t)
	users.On("UserByGitHubHandle", mock.Anything, "ada").Return(opener, nil).Once()

	selector := mocks.NewReviewerSelector(t)
	selector.On("Select", mock.Anything, []string{"ada"}, 2).Return([]*domains.User{bob, cy}, nil).Once()

	messenger := mocks.NewMessenger(t)
	messenger.On("SendDirectMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nope")).Times(3)

	requester := mocks.NewReviewRequester(t)
	requester.On("RequestReviewersAndAssignees", mock.Anything, "acme/api", 12, mock.Anything).Return(errors.New("422")).Once()

	err := pull_request.New(discardLogger(), users, selector, messenger, requester, 2).
		Opened(context.Background(), openedEvent("ada"))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 4)
}

func TestReviewSubmitted(t *testing.T) {
	ada, bob := newUser("ada"), newUser("bob")
	muted := newUser("mute")
	muted.NotificationsEnabled = false

	type testCase struct {
		name     string
		reviewer string
		author   string
		state    string

		reviewerErr error
		authorErr   error
		sendErr     error

		expectedText string
		expectedErr  error
	}

	cases := []testCase{
		{
			name:         "Approved",
			reviewer:     "bob",
			author:       "ada",
			state:        "approved",
			expectedText: `✔ Bob has reviewed your PR <https://github.com/acme/api/pull/12#pullrequestreview-1|api PR #12>: "Add retries"`,
		},
		{
			name:         "Changes requested",
			reviewer:     "bob",
			author:       "ada",
			state:        "changes_requested",
			expectedText: `✘ Bob has reviewed your PR <https://github.com/acme/api/pull/12#pullrequestreview-1|api PR #12>: "Add retries"`,
		},
		{
			name:         "Unrecognised state falls back to comment",
			reviewer:     "bob",
			author:       "ada",
			state:        "whatever",
			expectedText: `💬 Bob has reviewed your PR <https://github.com/acme/api/pull/12#pullrequestreview-1|api PR #12>: "Add retries"`,
		},
		{
			name:     "Self review is not notified",
			reviewer: "ada",
			author:   "ada",
			state:    "commented",
		},
		{
			name:     "Muted author is not notified",
			reviewer: "bob",
			author:   "mute",
			state:    "approved",
		},
		{
			name:        "Unknown reviewer",
			reviewer:    "ghost",
			author:      "ada",
			reviewerErr: repository.ErrUserNotFound,
			expectedErr: usecase.ErrUnknownUser,
		},
		{
			name:        "Unknown author",
			reviewer:    "bob",
			author:      "ghost",
			authorErr:   repository.ErrUserNotFound,
			expectedErr: usecase.ErrUnknownUser,
		},
		{
			name:         "Delivery failure propagates",
			reviewer:     "bob",
			author:       "ada",
			state:        "approved",
			sendErr:      errors.New("channel_not_found"),
			expectedText: `✔ Bob has reviewed your PR <https://github.com/acme/api/pull/12#pullrequestreview-1|api PR #12>: "Add retries"`,
			expectedErr:  usecase.ErrDelivery,
		},
	}

	byHandle := map[string]*domains.User{"ada": ada, "bob": bob, "mute": muted}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := mocks.NewUserProvider(t)
			messenger := mocks.NewMessenger(t)

			if tc.reviewerErr != nil {
				users.On("UserByGitHubHandle", mock.Anything, tc.reviewer).Return(nil, tc.reviewerErr).Once()
			} else {
				users.On("UserByGitHubHandle", mock.Anything, tc.reviewer).Return(byHandle[tc.reviewer], nil).Once()

				if tc.authorErr != nil {
					users.On("UserByGitHubHandle", mock.Anything, tc.author).Return(nil, tc.authorErr).Once()
				} else if tc.author != tc.reviewer {
					users.On("UserByGitHubHandle", mock.Anything, tc.author).Return(byHandle[tc.author], nil).Once()
				}
			}
			if tc.author == tc.reviewer {
				users.On("UserByGitHubHandle", mock.Anything, tc.author).Return(byHandle[tc.author], nil).Once()
			}

			if tc.expectedText != "" {
				messenger.On("SendDirectMessage", mock.Anything, byHandle[tc.author].SlackID, tc.expectedText).
					Return(tc.sendErr).Once()
			}

			svc := pull_request.New(discardLogger(), users, mocks.NewReviewerSelector(t), messenger, mocks.NewReviewRequester(t), 2)

			outcome, err := svc.Route(context.Background(), reviewEvent(tc.reviewer, tc.author, tc.state))
			require.Equal(t, pull_request.OutcomeHandled, outcome)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

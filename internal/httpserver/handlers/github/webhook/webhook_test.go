package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/github/webhook"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/github/webhook/mocks"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/pull_request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const reviewBody = `{
  "action": "submitted",
  "review": {"state": "approved", "html_url": "https://github.com/acme/api/pull/12#pullrequestreview-1", "user": {"login": "bob"}},
  "pull_request": {"number": 12, "title": "Add retries", "html_url": "https://github.com/acme/api/pull/12", "user": {"login": "ada"}},
  "repository": {"name": "api", "full_name": "acme/api"}
}`

func TestWebhookHandler(t *testing.T) {
	type testCase struct {
		name  string
		event string
		body  string

		routed      bool
		mockOutcome pull_request.Outcome
		mockErr     error

		expectedStatus int
		expectedBody   string
	}

	cases := []testCase{
		{
			name:           "Ping",
			event:          "ping",
			body:           `{"zen":"Design for failure."}`,
			expectedStatus: http.StatusOK,
			expectedBody:   "pong",
		},
		{
			name:           "Unrelated event",
			event:          "push",
			body:           `{}`,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "Invalid JSON",
			event:          "pull_request",
			body:           `{"action":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Handled",
			event:          "pull_request_review",
			body:           reviewBody,
			routed:         true,
			mockOutcome:    pull_request.OutcomeHandled,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Ignored action",
			event:          "pull_request_review",
			body:           reviewBody,
			routed:         true,
			mockOutcome:    pull_request.OutcomeIgnored,
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "Missing action",
			event:          "pull_request_review",
			body:           reviewBody,
			routed:         true,
			mockOutcome:    pull_request.OutcomeIgnored,
			mockErr:        usecase.ErrMissingAction,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown user",
			event:          "pull_request_review",
			body:           reviewBody,
			routed:         true,
			mockErr:        fmt.Errorf("resolve: %w", usecase.ErrUnknownUser),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Delivery failure",
			event:          "pull_request_review",
			body:           reviewBody,
			routed:         true,
			mockErr:        errors.New("slack down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := mocks.NewEventRouter(t)
			if tc.routed {
				router.
					On("Route", mock.Anything, domains.PullRequestEvent{
						Action:         "submitted",
						Number:         12,
						Title:          "Add retries",
						URL:            "https://github.com/acme/api/pull/12",
						RepoName:       "api",
						RepoFullName:   "acme/api",
						OpenerHandle:   "ada",
						ReviewerHandle: "bob",
						ReviewState:    "approved",
						ReviewURL:      "https://github.com/acme/api/pull/12#pullrequestreview-1",
					}).
					Return(tc.mockOutcome, tc.mockErr).
					Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/payload", strings.NewReader(tc.body))
			req.Header.Set("X-GitHub-Event", tc.event)
			rr := httptest.NewRecorder()

			webhook.New(discardLogger(), router, time.Second).ServeHTTP(rr, req)

			require.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				require.Equal(t, tc.expectedBody, rr.Body.String())
				return
			}

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		})
	}
}

func TestWebhook_RoutingIsBounded(t *testing.T) {
	t.Parallel()

	router := mocks.NewEventRouter(t)
	router.
		On("Route", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			<-ctx.Done()
		}).
		Return(pull_request.OutcomeHandled, fmt.Errorf("request reviewers: %w", context.DeadlineExceeded)).
		Once()

	req := httptest.NewRequest(http.MethodPost, "/payload", strings.NewReader(reviewBody))
	req.Header.Set("X-GitHub-Event", "pull_request_review")
	rr := httptest.NewRecorder()

	start := time.Now()
	webhook.New(discardLogger(), router, 50*time.Millisecond).ServeHTTP(rr, req)

	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

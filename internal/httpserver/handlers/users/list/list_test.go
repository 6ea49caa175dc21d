package list_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/users/list"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/users/list/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

func TestListHandler(t *testing.T) {
	ada := &domains.User{ID: uuid.New(), DisplayName: "Ada", GitHubHandle: "ada", SlackID: "U1", Requestable: true}

	type testCase struct {
		name   string
		query  string
		filter *domains.UserFilter
		users  []*domains.User
		err    error

		expectedStatus int
		expectedCount  int
	}

	cases := []testCase{
		{
			name:           "All users",
			filter:         &domains.UserFilter{},
			users:          []*domains.User{ada},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "Only requestable",
			query:          "?requestable=true",
			filter:         &domains.UserFilter{Requestable: ptr(true)},
			users:          []*domains.User{ada},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "Nobody benched",
			query:          "?requestable=false",
			filter:         &domains.UserFilter{Requestable: ptr(false)},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad filter",
			query:          "?requestable=maybe",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Storage failure",
			filter:         &domains.UserFilter{},
			err:            errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewUserService(t)
			if tc.filter != nil {
				svc.On("List", mock.Anything, *tc.filter).Return(tc.users, tc.err).Once()
			}

			rr := httptest.NewRecorder()
			list.New(discardLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/list"+tc.query, nil))

			require.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var resp list.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Len(t, resp.Users, tc.expectedCount)
			require.NotNil(t, resp.Users)
		})
	}
}

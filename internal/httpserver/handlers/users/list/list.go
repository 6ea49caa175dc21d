package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/lib/api/response"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserService
type UserService interface {
	List(ctx context.Context, filter domains.UserFilter) ([]*domains.User, error)
}

type Response struct {
	Users []response.User `json:"users"`
}

// New lists registered users. An optional ?requestable=true|false narrows the list.
func New(
	log *slog.Logger,
	userService UserService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "http.handlers.users.list.New"
		log := log.With(slog.String("op", op))

		var filter domains.UserFilter
		if raw := r.URL.Query().Get("requestable"); raw != "" {
			requestable, err := strconv.ParseBool(raw)
			if err != nil {
				handlers.WriteError(w, log, http.StatusBadRequest, handlers.InvalidRequest, "requestable must be a boolean")
				return
			}
			filter.Requestable = &requestable
		}

		users, err := userService.List(r.Context(), filter)
		if err != nil {
			log.Error("failed to list users", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusInternalServerError, handlers.InternalError, "internal error")
			return
		}

		resp := Response{Users: make([]response.User, 0, len(users))}
		for _, u := range users {
			resp.Users = append(resp.Users, response.NewUser(u))
		}

		handlers.WriteJSON(w, log, http.StatusOK, resp)
	}
}

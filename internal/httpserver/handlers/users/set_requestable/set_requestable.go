package set_requestable

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/lib/api/response"
	"github.com/Deymos01/git-slackin/internal/usecase"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserService
type UserService interface {
	SetRequestable(ctx context.Context, slackID string, requestable bool) error
	BySlackID(ctx context.Context, slackID string) (*domains.User, error)
}

type Request struct {
	SlackID     string `json:"slack_id"`
	Requestable bool   `json:"requestable"`
}

type Response struct {
	User response.User `json:"user"`
}

func New(
	log *slog.Logger,
	userService UserService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "http.handlers.users.set_requestable.New"
		log := log.With(slog.String("op", op))

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SlackID == "" {
			log.Warn("invalid request body", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusBadRequest, handlers.InvalidRequest, "invalid JSON format")
			return
		}

		err := userService.SetRequestable(r.Context(), req.SlackID, req.Requestable)
		if errors.Is(err, usecase.ErrUnknownUser) {
			log.Warn("user not found", slog.String("slack_id", req.SlackID))
			handlers.WriteError(w, log, http.StatusNotFound, handlers.NotFound, "resource not found")
			return
		}
		if err != nil {
			log.Error("failed to set requestable", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusInternalServerError, handlers.InternalError, "internal error")
			return
		}

		user, err := userService.BySlackID(r.Context(), req.SlackID)
		if err != nil {
			log.Error("failed to reload user", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusInternalServerError, handlers.InternalError, "internal error")
			return
		}

		handlers.WriteJSON(w, log, http.StatusOK, Response{User: response.NewUser(user)})
	}
}

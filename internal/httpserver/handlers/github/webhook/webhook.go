package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/pull_request"
)

const (
	eventHeader = "X-GitHub-Event"

	eventPing              = "ping"
	eventPullRequest       = "pull_request"
	eventPullRequestReview = "pull_request_review"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=EventRouter
type EventRouter interface {
	Route(ctx context.Context, ev domains.PullRequestEvent) (pull_request.Outcome, error)
}

type account struct {
	Login string `json:"login"`
}

// Payload is the subset of the pull_request and pull_request_review webhook bodies
// the bot reads.
type Payload struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number  int     `json:"number"`
		Title   string  `json:"title"`
		HTMLURL string  `json:"html_url"`
		User    account `json:"user"`
	} `json:"pull_request"`
	Review struct {
		State   string  `json:"state"`
		HTMLURL string  `json:"html_url"`
		User    account `json:"user"`
	} `json:"review"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"repository"`
}

func (p Payload) Event() domains.PullRequestEvent {
	return domains.PullRequestEvent{
		Action:         p.Action,
		Number:         p.PullRequest.Number,
		Title:          p.PullRequest.Title,
		URL:            p.PullRequest.HTMLURL,
		RepoName:       p.Repository.Name,
		RepoFullName:   p.Repository.FullName,
		OpenerHandle:   p.PullRequest.User.Login,
		ReviewerHandle: p.Review.User.Login,
		ReviewState:    p.Review.State,
		ReviewURL:      p.Review.HTMLURL,
	}
}

type Response struct {
	Status string `json:"status"`
}

// New handles GitHub deliveries synchronously. timeout bounds routing, retries
// included, so the caller gets an answer before its own delivery timeout.
func New(
	log *slog.Logger,
	router EventRouter,
	timeout time.Duration,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "http.handlers.github.webhook.New"
		log := log.With(slog.String("op", op), slog.String("event", r.Header.Get(eventHeader)))

		switch r.Header.Get(eventHeader) {
		case eventPing:
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "pong")
			return
		case eventPullRequest, eventPullRequestReview:
		default:
			log.Info("ignoring webhook event")
			handlers.WriteJSON(w, log, http.StatusAccepted, Response{Status: pull_request.OutcomeIgnored.String()})
			return
		}

		var payload Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			log.Warn("invalid request body", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusBadRequest, handlers.InvalidRequest, "invalid JSON format")
			return
		}

		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		outcome, err := router.Route(ctx, payload.Event())
		switch {
		case errors.Is(err, usecase.ErrMissingAction):
			handlers.WriteError(w, log, http.StatusBadRequest, handlers.MissingAction, "event has no action")
		case errors.Is(err, usecase.ErrUnknownUser):
			log.Warn("event for unknown user", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusNotFound, handlers.UnknownUser, "user not registered")
		case errors.Is(err, context.DeadlineExceeded):
			log.Error("event handling timed out", slog.Duration("timeout", timeout), slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusInternalServerError, handlers.InternalError, "internal error")
		case err != nil:
			log.Error("failed to handle event", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusInternalServerError, handlers.InternalError, "internal error")
		case outcome == pull_request.OutcomeIgnored:
			handlers.WriteJSON(w, log, http.StatusAccepted, Response{Status: outcome.String()})
		default:
			handlers.WriteJSON(w, log, http.StatusOK, Response{Status: outcome.String()})
		}
	}
}

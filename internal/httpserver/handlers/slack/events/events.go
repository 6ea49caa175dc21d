package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/usecase/command"
)

const (
	typeURLVerification = "url_verification"
	typeEventCallback   = "event_callback"

	// HeaderRetryNum is set by Slack when it redelivers an event.
	HeaderRetryNum = "X-Slack-Retry-Num"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Dispatcher
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd domains.Command) error
}

type Request struct {
	Type      string         `json:"type"`
	Challenge string         `json:"challenge,omitempty"`
	Event     *command.Event `json:"event,omitempty"`
}

// New acknowledges Slack events right away and handles commands in the
// background, detached from the request's cancellation.
func New(
	log *slog.Logger,
	dispatcher Dispatcher,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "http.handlers.slack.events.New"
		log := log.With(slog.String("op", op))

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("invalid request body", slog.Any("error", err))
			handlers.WriteError(w, log, http.StatusBadRequest, handlers.InvalidRequest, "invalid JSON format")
			return
		}

		switch req.Type {
		case typeURLVerification:
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, req.Challenge)
			return
		case typeEventCallback:
		default:
			log.Warn("unhandled slack payload", slog.String("type", req.Type))
			w.WriteHeader(http.StatusOK)
			return
		}

		w.WriteHeader(http.StatusOK)

		// The first delivery was already acknowledged and dispatched.
		if retry := r.Header.Get(HeaderRetryNum); retry != "" {
			log.Info("dropping slack retry",
				slog.String("retry_num", retry),
				slog.String("reason", r.Header.Get("X-Slack-Retry-Reason")))
			return
		}

		if req.Event == nil {
			log.Error("event callback without event")
			return
		}

		cmd, ok := command.FromEvent(*req.Event)
		if !ok {
			log.Debug("event not handled",
				slog.String("type", req.Event.Type),
				slog.String("subtype", req.Event.Subtype),
				slog.String("channel_type", req.Event.ChannelType))
			return
		}

		ctx := context.WithoutCancel(r.Context())
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("command panicked",
						slog.String("user", cmd.SourceUserID),
						slog.String("verb", cmd.Verb),
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())))
				}
			}()

			if err := dispatcher.Dispatch(ctx, cmd); err != nil {
				log.Error("command failed", slog.String("user", cmd.SourceUserID), slog.Any("error", err))
			}
		}()
	}
}

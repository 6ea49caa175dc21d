package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/Deymos01/git-slackin/internal/lib/api/response"
)

const (
	NotFound       = "NOT_FOUND"
	InternalError  = "INTERNAL_ERROR"
	InvalidRequest = "INVALID_REQUEST"
	Unauthorized   = "UNAUTHORIZED"
	UnknownUser    = "UNKNOWN_USER"
	MissingAction  = "MISSING_ACTION"
)

const banner = "Git Slackin' is up. Point your GitHub webhook at /payload and Slack events at /slack/events.\n"

func Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, banner)
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, log *slog.Logger, status int, code, message string) {
	WriteJSON(w, log, status, response.NewErrorResponse(code, message))
}

func WriteJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

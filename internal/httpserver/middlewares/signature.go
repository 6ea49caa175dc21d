package middlewares

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/lib/signature"
)

const (
	slackTimestampHeader  = "X-Slack-Request-Timestamp"
	slackSignatureHeader  = "X-Slack-Signature"
	githubSignatureHeader = "X-Hub-Signature-256"

	maxBodyBytes = 5 << 20
)

// SlackSignature rejects requests whose X-Slack-Signature does not match the body.
// now is injectable for tests; nil means time.Now.
func SlackSignature(log *slog.Logger, secret string, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}

	return verifyBody(log, "slack", func(r *http.Request, body []byte) bool {
		return signature.Verify(body, r.Header.Get(slackTimestampHeader), r.Header.Get(slackSignatureHeader), secret, now())
	})
}

// GitHubSignature rejects webhook deliveries whose X-Hub-Signature-256 does not match the body.
func GitHubSignature(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return verifyBody(log, "github", func(r *http.Request, body []byte) bool {
		return signature.VerifyGitHub(body, r.Header.Get(githubSignatureHeader), secret)
	})
}

func verifyBody(log *slog.Logger, source string, ok func(r *http.Request, body []byte) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			_ = r.Body.Close()
			if err != nil {
				log.Warn("failed to read body", slog.String("source", source), slog.Any("error", err))
				handlers.WriteError(w, log, http.StatusBadRequest, handlers.InvalidRequest, "unreadable body")
				return
			}

			if !ok(r, body) {
				log.Warn(signature.ErrAuthentication.Error(), slog.String("source", source), slog.String("path", r.URL.Path))
				handlers.WriteError(w, log, http.StatusUnauthorized, handlers.Unauthorized, signature.ErrAuthentication.Error())
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

package middlewares

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
)

const adminTokenHeader = "X-Admin-Token"

func AdminAuthMiddleware(log *slog.Logger, adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(adminTokenHeader)
			if token == "" || adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				log.Warn("admin token rejected", slog.String("path", r.URL.Path))
				handlers.WriteError(w, log, http.StatusUnauthorized, handlers.Unauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

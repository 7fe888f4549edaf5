package mw

import (
	"net/http"
	"strings"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/logger"
)

// RequireAdmin gates a route behind a valid admin session token
// ("Authorization: Bearer <token>"). Tokens are minted by the login handler
// and die with the process.
func RequireAdmin(sessions *auth.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if err := sessions.Verify(token); err != nil {
				log.Debug("admin session rejected",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

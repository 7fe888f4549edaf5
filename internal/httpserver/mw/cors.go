package mw

import (
	"net/http"

	"github.com/vdsearch/vdsearch/internal/logger"
)

// CORS answers preflight requests and stamps cross-origin headers for the
// browser front-end. An empty origins list acts as a passthrough; "*" allows
// any origin.
func CORS(origins []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		log.Debug("CORS: empty origins, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
			continue
		}
		allowed[o] = struct{}{}
	}

	log.Debugf("CORS: initialized with origins=%v", origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else if _, ok := allowed[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Max-Age", "300")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

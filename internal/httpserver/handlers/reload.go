package handlers

import (
	"net/http"

	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/utils"
)

// Reload triggers an immediate promotion index refresh.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual promotion reload triggered via endpoint",
				logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload triggered"})
		default:
			d.Logger.Warn("promotion reload already in progress",
				logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "reload already in progress"})
		}
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/utils"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the admin password for a session token.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := d.Sessions.Login(req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrWrongPassword) {
				d.Logger.Warn("admin login rejected",
					logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
				writeError(w, http.StatusUnauthorized, "incorrect password")
				return
			}
			d.Logger.Error("admin login failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		d.Logger.Info("admin login",
			logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

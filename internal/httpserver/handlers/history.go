package handlers

import (
	"net/http"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/logger"
)

type historyResponse struct {
	History []*domain.HistoryRecord `json:"history"`
}

// History returns the most recent searches, newest first.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := d.Promotions.History(r.Context())
		if err != nil {
			d.Logger.Error("failed to fetch history", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load search history")
			return
		}
		if records == nil {
			records = []*domain.HistoryRecord{}
		}
		writeJSON(w, http.StatusOK, historyResponse{History: records})
	}
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
)

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest proxies the best-effort autocomplete fetch. It never fails: an
// unreachable upstream just means no suggestions.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSON(w, http.StatusOK, suggestResponse{Suggestions: []string{}})
			return
		}

		suggestions := d.Suggester.Suggest(r.Context(), query)
		if suggestions == nil {
			suggestions = []string{}
		}
		writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
	}
}

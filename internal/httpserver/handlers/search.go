package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/service"
	"github.com/vdsearch/vdsearch/internal/utils"
)

// Search runs one search submission: external results and the matched
// promotion are committed together, and the query lands in history.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		req := service.SearchRequest{
			Query:    q.Get("q"),
			Start:    parseStart(q.Get("start")),
			Tab:      domain.ParseSearchType(q.Get("tab")),
			ClientIP: utils.ClientIP(r, d.TrustProxy),
		}

		if lat, lon, ok := parseCoords(q.Get("lat"), q.Get("lon")); ok {
			req.Latitude = lat
			req.Longitude = lon
			req.HasCoords = true
		}

		result, err := d.Search.Execute(r.Context(), req)
		if err != nil {
			writeSearchError(w, d, req.Query, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func writeSearchError(w http.ResponseWriter, d deps.Deps, query string, err error) {
	if errors.Is(err, domain.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "search query is required")
		return
	}

	var failure *service.SearchFailure
	if errors.As(err, &failure) {
		d.Logger.Warn("search failed",
			logger.String("query", query),
			logger.String("category", string(failure.Category)),
			logger.Error(err))

		status := http.StatusBadGateway
		if failure.Category == domain.SearchErrorQuota {
			status = http.StatusTooManyRequests
		}
		writeJSON(w, status, errorResponse{
			Error:    failure.Category.Message(),
			Category: string(failure.Category),
		})
		return
	}

	d.Logger.Error("search failed",
		logger.String("query", query),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, domain.SearchErrorGeneric.Message())
}

// parseStart reads the 1-based result offset, defaulting to the first page.
func parseStart(raw string) int {
	start, err := strconv.Atoi(raw)
	if err != nil || start < 1 {
		return 1
	}
	return start
}

// parseCoords accepts coordinates only when both parts parse.
func parseCoords(rawLat, rawLon string) (float64, float64, bool) {
	if rawLat == "" || rawLon == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vdsearch/vdsearch/internal/domain"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/logger"
)

type promotionsResponse struct {
	Promotions []*domain.Promotion `json:"promotions"`
}

type savePromotionsRequest struct {
	Promotions []*domain.Promotion `json:"promotions"`
}

// ListPromotions hands the admin an editable working copy of the full set.
func ListPromotions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promotions, err := d.Promotions.List(r.Context())
		if err != nil {
			d.Logger.Error("failed to list promotions", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load promotions")
			return
		}
		if promotions == nil {
			promotions = []*domain.Promotion{}
		}
		writeJSON(w, http.StatusOK, promotionsResponse{Promotions: promotions})
	}
}

// SavePromotions reconciles the edited working set against the last loaded
// snapshot and applies the resulting inserts, updates and deletes.
func SavePromotions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req savePromotionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Promotions.Save(r.Context(), req.Promotions); err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			d.Logger.Error("failed to save promotions", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save promotions")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTitleRequired,
		domain.ErrURLRequired,
		domain.ErrTitleTooLong,
		domain.ErrURLTooLong,
		domain.ErrDescriptionTooLong,
		domain.ErrTooManyQueries,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
)

// Recommend handles GET /recommend/{book_id}?n=.
// The cache is never a reason for this endpoint to fail.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseBookID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}
	n, err := parseCount(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, hit, err := h.recs.Recommend(r.Context(), bookID, n)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Book not found", nil)
			return
		}
		respondAppErrorAs(w, err, "Failed to compute recommendations")
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int64("book_id", bookID).
		Bool("cache_hit", hit).
		Int("count", len(result.Recommendations)).
		Msg("Recommendations served")

	setCacheHeader(w, hit)
	respondJSON(w, http.StatusOK, result)
}

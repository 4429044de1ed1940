// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

// CacheStats handles GET /cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Stats(r.Context()))
}

// BackendHealth handles GET /health/redis. The payload carries the status;
// the HTTP status is 200 whenever the report could be produced.
func (h *Handler) BackendHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Health(r.Context()))
}

// AdminStats handles GET /admin/cache/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, models.AdminStats{
		CacheStats:    h.cache.Stats(ctx),
		BackendHealth: h.cache.Health(ctx),
	})
}

// AdminClear handles POST /admin/cache/clear.
func (h *Handler) AdminClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCacheError, "Failed to clear cache", err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Admin cleared all cache")
	respondJSON(w, http.StatusOK, models.AdminMessage{Message: "Cache cleared successfully"})
}

// AdminKeys handles GET /admin/cache/keys.
func (h *Handler) AdminKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.cache.Keys(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCacheError, "Failed to list cache keys", err)
		return
	}
	respondJSON(w, http.StatusOK, keys)
}

// AdminInvalidateBook handles DELETE /admin/cache/book/{book_id}.
func (h *Handler) AdminInvalidateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseBookID(r)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if err := h.cache.InvalidateRecommendations(r.Context(), bookID); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCacheError, "Failed to invalidate cache", err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("book_id", bookID).Msg("Admin invalidated book cache")
	respondJSON(w, http.StatusOK, models.AdminMessage{Message: fmt.Sprintf("Cache invalidated for book %d", bookID)})
}

// AdminInvalidateBooks handles POST /admin/cache/invalidate/books.
func (h *Handler) AdminInvalidateBooks(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.InvalidateNamespace(r.Context(), cache.NamespaceBookList); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCacheError, "Failed to invalidate cache", err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Admin invalidated books list cache")
	respondJSON(w, http.StatusOK, models.AdminMessage{Message: "Books list cache invalidated"})
}

// AdminReconnect handles POST /admin/cache/reconnect.
func (h *Handler) AdminReconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Reconnect(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCacheError, "Failed to reconnect to Redis", err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Admin reconnected cache backend")
	respondJSON(w, http.StatusOK, models.AdminMessage{Message: "Redis reconnected successfully", Status: "connected"})
}

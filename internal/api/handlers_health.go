// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// Health handles GET /health.
//
// The service is "healthy" while the index is loaded and the catalog answers.
// A cache outage only marks it "degraded": recommendations still work.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbConnected := h.catalog.Ping(ctx) == nil
	backend := h.cache.Health(ctx)

	status := models.StatusHealthy
	switch {
	case h.index.Len() == 0 || !dbConnected:
		status = models.StatusUnhealthy
	case backend.Status != models.StatusHealthy:
		status = "degraded"
	}

	health := models.ServiceHealth{
		Status:            status,
		IndexVersion:      h.index.Version(),
		IndexBooks:        h.index.Len(),
		IndexDim:          h.index.Dim(),
		CacheStatus:       backend.Status,
		Backend:           backend.Backend,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	httpStatus := http.StatusOK
	if status == models.StatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

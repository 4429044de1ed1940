// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/recommend"
)

// Catalog is the relational book store behind the /books endpoints.
type Catalog interface {
	List(ctx context.Context) ([]models.CatalogBook, error)
	Get(ctx context.Context, bookID int64) (*models.CatalogBook, error)
	Create(ctx context.Context, in *models.BookInput) (*models.CatalogBook, error)
	Update(ctx context.Context, bookID int64, in *models.BookInput) (*models.CatalogBook, error)
	Delete(ctx context.Context, bookID int64) error
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	Ping(ctx context.Context) error
}

var _ Catalog = (*catalog.Store)(nil)

// IndexInfo describes the loaded similarity index for /health.
type IndexInfo interface {
	Len() int
	Dim() int
	Version() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_recommend.go: /recommend/{book_id}
//   - handlers_cache.go: /cache/stats, /health/redis and /admin/cache/*
//   - handlers_books.go: /books catalog reads, mutations and CSV export
//   - handlers_health.go: /health
type Handler struct {
	recs      *recommend.Cached
	cache     *cache.Coordinator
	catalog   Catalog
	index     IndexInfo
	startTime time.Time
}

// NewHandler creates the API handler. All dependencies are required.
func NewHandler(recs *recommend.Cached, coordinator *cache.Coordinator, cat Catalog, idx IndexInfo) (*Handler, error) {
	if recs == nil || coordinator == nil || cat == nil || idx == nil {
		return nil, fmt.Errorf("api handler requires recommendations, cache, catalog and index")
	}
	return &Handler{
		recs:      recs,
		cache:     coordinator,
		catalog:   cat,
		index:     idx,
		startTime: time.Now(),
	}, nil
}

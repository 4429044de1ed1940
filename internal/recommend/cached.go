// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/models"
)

// Cached serves recommendations through the cache coordinator. The HTTP
// handler and the warmer both go through it so they share keys and TTLs.
type Cached struct {
	engine *Engine
	cache  *cache.Coordinator
}

// NewCached pairs an engine with a cache coordinator.
func NewCached(engine *Engine, coordinator *cache.Coordinator) *Cached {
	return &Cached{engine: engine, cache: coordinator}
}

// Engine returns the underlying engine.
func (c *Cached) Engine() *Engine { return c.engine }

// Recommend returns the recommendations for bookID, from the cache when
// present. n <= 0 selects the default count. An out-of-range n is rejected
// before the cache is consulted, so it never counts as a lookup.
func (c *Cached) Recommend(ctx context.Context, bookID int64, n int) (result models.RecommendationResult, hit bool, err error) {
	if n <= 0 {
		n = c.engine.DefaultN()
	}
	if n > c.engine.MaxN() {
		return models.RecommendationResult{}, false, apperrors.New(apperrors.KindValidation, "recommend.Cached",
			fmt.Errorf("n must be between 1 and %d, got %d", c.engine.MaxN(), n))
	}

	key := cache.RecommendationKey(bookID, n, c.engine.DefaultN())
	return cache.GetOrCompute(ctx, c.cache, cache.NamespaceRecommendations, key, 0,
		func(ctx context.Context) (models.RecommendationResult, error) {
			r, err := c.engine.Recommend(ctx, bookID, n)
			if err != nil {
				return models.RecommendationResult{}, err
			}
			return *r, nil
		})
}

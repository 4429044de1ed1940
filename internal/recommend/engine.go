// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/index"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// NeighborSource is the read side of the similarity index.
type NeighborSource interface {
	Neighbors(bookID int64, k int) ([]index.Neighbor, error)
	Book(bookID int64) (models.Book, bool)
}

// Engine produces recommendation results from a NeighborSource.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	source NeighborSource
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source NeighborSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("neighbor source is required")
	}

	return &Engine{
		config: cfg,
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// DefaultN returns the configured default recommendation count.
func (e *Engine) DefaultN() int { return e.config.DefaultN }

// MaxN returns the largest accepted recommendation count.
func (e *Engine) MaxN() int { return e.config.MaxN }

// Known reports whether bookID is present in the index.
func (e *Engine) Known(bookID int64) bool {
	_, ok := e.source.Book(bookID)
	return ok
}

// Recommend returns up to n books most similar to bookID, most similar first.
// n <= 0 selects the default count. The result never contains bookID.
func (e *Engine) Recommend(ctx context.Context, bookID int64, n int) (*models.RecommendationResult, error) {
	const op = "recommend.Recommend"

	if n <= 0 {
		n = e.config.DefaultN
	}
	if n > e.config.MaxN {
		return nil, apperrors.New(apperrors.KindValidation, op,
			fmt.Errorf("n must be between 1 and %d, got %d", e.config.MaxN, n))
	}
	if err := ctx.Err(); err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, apperrors.New(apperrors.KindUpstreamCompute, op, err)
	}

	start := time.Now()

	neighbors, err := e.source.Neighbors(bookID, n)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			metrics.RecommendRequests.WithLabelValues("not_found").Inc()
			return nil, err
		}
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, apperrors.New(apperrors.KindUpstreamCompute, op, err)
	}

	recs := make([]models.Book, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.BookID == bookID {
			continue
		}
		book, ok := e.source.Book(nb.BookID)
		if !ok {
			metrics.RecommendRequests.WithLabelValues("error").Inc()
			return nil, apperrors.New(apperrors.KindUpstreamCompute, op,
				fmt.Errorf("neighbor %d has no book attributes", nb.BookID))
		}
		recs = append(recs, book)
		if len(recs) == n {
			break
		}
	}

	metrics.RecommendRequests.WithLabelValues("success").Inc()
	e.logger.Debug().
		Int64("book_id", bookID).
		Int("requested", n).
		Int("returned", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommendation computed")

	return &models.RecommendationResult{BookID: bookID, Recommendations: recs}, nil
}

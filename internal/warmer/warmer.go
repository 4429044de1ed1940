// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// Ranker returns the ids of the k most popular books.
type Ranker interface {
	TopByRatingsCount(ctx context.Context, k int) ([]int64, error)
}

// RankerFunc adapts a function to Ranker.
type RankerFunc func(ctx context.Context, k int) ([]int64, error)

// TopByRatingsCount calls f.
func (f RankerFunc) TopByRatingsCount(ctx context.Context, k int) ([]int64, error) {
	return f(ctx, k)
}

// Recommender computes or fetches cached recommendations.
type Recommender interface {
	Recommend(ctx context.Context, bookID int64, n int) (models.RecommendationResult, bool, error)
}

// Pinger reports cache backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds warmer settings.
type Config struct {
	TopK int

	// RatePerSecond caps recommendation calls per second. 0 means unlimited.
	RatePerSecond float64

	// Timeout bounds a whole run. 0 means no bound.
	Timeout time.Duration
}

// DefaultConfig returns the default warmer settings.
func DefaultConfig() Config {
	return Config{
		TopK:    10,
		Timeout: 2 * time.Minute,
	}
}

// Result summarizes one run.
type Result struct {
	Warmed   int
	Failed   int
	Skipped  bool
	Duration time.Duration
}

// Warmer fills the recommendation cache for the most popular books.
type Warmer struct {
	config  Config
	ranker  Ranker
	recs    Recommender
	backend Pinger
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a warmer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, ranker Ranker, recs Recommender, backend Pinger, logger zerolog.Logger) (*Warmer, error) {
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("warmer top_k must be positive, got %d", cfg.TopK)
	}
	if cfg.RatePerSecond < 0 {
		return nil, fmt.Errorf("warmer rate_per_second must not be negative, got %v", cfg.RatePerSecond)
	}
	if ranker == nil || recs == nil || backend == nil {
		return nil, fmt.Errorf("warmer requires a ranker, a recommender and a backend")
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Warmer{
		config:  cfg,
		ranker:  ranker,
		recs:    recs,
		backend: backend,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "warmer").Logger(),
	}, nil
}

// Run warms the cache once. Errors are reported in the Result and the log;
// only a cancelled context stops a run early.
func (w *Warmer) Run(ctx context.Context) Result {
	start := time.Now()

	if w.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.Timeout)
		defer cancel()
	}

	if err := w.backend.Ping(ctx); err != nil {
		w.logger.Warn().Err(err).Msg("Cache backend unavailable, skipping warm-up")
		metrics.RecordWarmerRun(0, 0, 0, true)
		return Result{Skipped: true, Duration: time.Since(start)}
	}

	ids, err := w.ranker.TopByRatingsCount(ctx, w.config.TopK)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to rank books for warm-up")
		metrics.RecordWarmerRun(0, 0, 0, true)
		return Result{Skipped: true, Duration: time.Since(start)}
	}

	w.logger.Info().Int("books", len(ids)).Msg("Warming recommendation cache")

	var res Result
	for _, id := range ids {
		if err := w.limiter.Wait(ctx); err != nil {
			w.logger.Warn().Err(err).Int("remaining", len(ids)-res.Warmed-res.Failed).Msg("Warm-up interrupted")
			break
		}
		if _, hit, err := w.recs.Recommend(ctx, id, 0); err != nil {
			res.Failed++
			w.logger.Warn().Err(err).Int64("book_id", id).Msg("Failed to warm book")
		} else {
			res.Warmed++
			w.logger.Debug().Int64("book_id", id).Bool("already_cached", hit).Msg("Book warmed")
		}
	}

	res.Duration = time.Since(start)
	metrics.RecordWarmerRun(res.Warmed, res.Failed, res.Duration, false)
	w.logger.Info().
		Int("warmed", res.Warmed).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("Cache warm-up complete")

	return res
}

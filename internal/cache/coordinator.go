// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// sharedComputeTimeout bounds a compute that no single caller owns.
const sharedComputeTimeout = 30 * time.Second

// Default TTLs per namespace.
const (
	DefaultRecommendationTTL = time.Hour
	DefaultBookListTTL       = 5 * time.Minute
	DefaultBookDetailTTL     = 30 * time.Minute
)

// CoordinatorConfig configures a Coordinator.
type CoordinatorConfig struct {
	// TTLs overrides the default TTL of a namespace.
	TTLs map[Namespace]time.Duration

	// Singleflight collapses concurrent misses on one key into one compute.
	Singleflight bool
}

// Coordinator implements cache-aside over a Backend.
//
// Backend failures never reach callers of GetOrCompute: a failed read is a
// miss and a failed write is logged. Only errors from the compute function
// are returned.
type Coordinator struct {
	backend      Backend
	stats        *Stats
	ttls         map[Namespace]time.Duration
	singleflight bool
	group        singleflight.Group
	logger       zerolog.Logger
}

// NewCoordinator creates a Coordinator. stats may be nil to build one over backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCoordinator(backend Backend, stats *Stats, cfg CoordinatorConfig, logger zerolog.Logger) *Coordinator {
	if stats == nil {
		stats = NewStats(backend)
	}
	ttls := map[Namespace]time.Duration{
		NamespaceRecommendations: DefaultRecommendationTTL,
		NamespaceBookList:        DefaultBookListTTL,
		NamespaceBookDetail:      DefaultBookDetailTTL,
	}
	for ns, ttl := range cfg.TTLs {
		if ttl > 0 {
			ttls[ns] = ttl
		}
	}
	return &Coordinator{
		backend:      backend,
		stats:        stats,
		ttls:         ttls,
		singleflight: cfg.Singleflight,
		logger:       logger.With().Str("component", "cache").Logger(),
	}
}

// TTL returns the configured TTL of a namespace.
func (c *Coordinator) TTL(ns Namespace) time.Duration {
	return c.ttls[ns]
}

// Backend returns the underlying backend.
func (c *Coordinator) Backend() Backend { return c.backend }

// GetOrCompute returns the cached value of key in ns, or runs compute, stores
// its result for ttl and returns it. ttl <= 0 uses the namespace TTL. Every
// call records exactly one hit or one miss. hit reports which path was taken.
//
// A compute error is returned unchanged if it carries an apperrors kind and
// wrapped as KindUpstreamCompute otherwise; nothing is written in either case.
func GetOrCompute[T any](ctx context.Context, c *Coordinator, ns Namespace, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (value T, hit bool, err error) {
	fullKey := ns.Key(key)
	label := ns.Label()
	// counters and writes complete even if the caller goes away
	bg := context.WithoutCancel(ctx)

	if v, ok := lookup[T](ctx, c, fullKey); ok {
		c.stats.RecordHit(bg)
		metrics.RecordCacheLookup(label, true)
		return v, true, nil
	}

	c.stats.RecordMiss(bg)
	metrics.RecordCacheLookup(label, false)

	if ttl <= 0 {
		ttl = c.TTL(ns)
	}

	run := func(ctx context.Context) (any, error) {
		start := time.Now()
		v, err := compute(ctx)
		metrics.CacheComputeDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		store(bg, c, fullKey, v, ttl)
		return v, nil
	}

	var result any
	if c.singleflight {
		result, err = c.shared(ctx, bg, fullKey, label, run)
	} else {
		result, err = run(ctx)
	}

	if err != nil {
		var zero T
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.New(apperrors.KindUpstreamCompute, "cache.GetOrCompute", err)
		}
		return zero, false, err
	}

	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, false, apperrors.New(apperrors.KindUpstreamCompute, "cache.GetOrCompute",
			fmt.Errorf("unexpected result type %T", result))
	}
	return typed, false, nil
}

// shared runs fn once per key across concurrent callers. fn runs detached
// from any single caller, bounded by sharedComputeTimeout, so one caller going
// away fails only that caller.
func (c *Coordinator) shared(ctx, detached context.Context, fullKey, label string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(fullKey, func() (any, error) {
		cctx, cancel := context.WithTimeout(detached, sharedComputeTimeout)
		defer cancel()
		return fn(cctx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.CacheSharedComputes.WithLabelValues(label).Inc()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup reads and decodes key. Any failure is reported as not found.
func lookup[T any](ctx context.Context, c *Coordinator, fullKey string) (T, bool) {
	var zero T

	data, err := c.backend.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", fullKey).Msg("Cache read failed, treating as miss")
		}
		return zero, false
	}

	v, err := Decode[T](data)
	if err != nil {
		metrics.CacheSerializationErrors.WithLabelValues("decode").Inc()
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("Cached payload undecodable, treating as miss")
		return zero, false
	}
	return v, true
}

// store encodes and writes v. Failures are logged and absorbed.
func store[T any](ctx context.Context, c *Coordinator, fullKey string, v T, ttl time.Duration) {
	data, err := Encode(v)
	if err != nil {
		metrics.CacheSerializationErrors.WithLabelValues("encode").Inc()
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("Failed to encode value for cache")
		return
	}
	if err := c.backend.Set(ctx, fullKey, data, ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("Cache write failed")
	}
}

// Invalidate deletes one key. Deleting an absent key succeeds.
func (c *Coordinator) Invalidate(ctx context.Context, ns Namespace, key string) error {
	if err := c.backend.Delete(ctx, ns.Key(key)); err != nil {
		return err
	}
	metrics.CacheInvalidations.WithLabelValues(ns.Label()).Inc()
	return nil
}

// InvalidateNamespace deletes every key in ns.
func (c *Coordinator) InvalidateNamespace(ctx context.Context, ns Namespace) error {
	return c.invalidatePattern(ctx, ns, ns.Pattern())
}

// InvalidateRecommendations drops every cached result for bookID, including
// entries for non-default counts.
func (c *Coordinator) InvalidateRecommendations(ctx context.Context, bookID int64) error {
	ns := NamespaceRecommendations
	if err := c.Invalidate(ctx, ns, BookKey(bookID)); err != nil {
		return err
	}
	return c.invalidatePattern(ctx, ns, ns.Key(BookKey(bookID)+":n*"))
}

func (c *Coordinator) invalidatePattern(ctx context.Context, ns Namespace, pattern string) error {
	keys, err := c.backend.Keys(ctx, pattern)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.backend.Delete(ctx, keys...); err != nil {
		return err
	}
	metrics.CacheInvalidations.WithLabelValues(ns.Label()).Add(float64(len(keys)))
	return nil
}

// Stats returns the current hit/miss counters.
func (c *Coordinator) Stats(ctx context.Context) models.CacheStats {
	return c.stats.Snapshot(ctx)
}

// Clear drops every entry and both counters.
func (c *Coordinator) Clear(ctx context.Context) error {
	if err := c.backend.Flush(ctx); err != nil {
		return err
	}
	c.logger.Info().Msg("Cache cleared")
	return nil
}

// Keys lists every key in the backend.
func (c *Coordinator) Keys(ctx context.Context) (models.CacheKeys, error) {
	keys, err := c.backend.Keys(ctx, "*")
	if err != nil {
		return models.CacheKeys{}, err
	}
	return models.CacheKeys{TotalKeys: len(keys), Keys: keys}, nil
}

// Ping reports whether the backend is reachable.
func (c *Coordinator) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

// Health reports backend health.
func (c *Coordinator) Health(ctx context.Context) models.BackendHealth {
	return c.backend.Health(ctx)
}

// Reconnect rebuilds the backend client.
func (c *Coordinator) Reconnect(ctx context.Context) error {
	return c.backend.Reconnect(ctx)
}

// Close closes the backend.
func (c *Coordinator) Close() error {
	return c.backend.Close()
}

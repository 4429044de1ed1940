// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"context"
	"errors"
	"strconv"

	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

// Stats keeps the hit and miss counters in the backend so every replica
// shares them and they survive restarts. Counters are only reset by a full
// Flush of the store.
type Stats struct {
	store Store
}

// NewStats creates a Stats component over store.
func NewStats(store Store) *Stats {
	return &Stats{store: store}
}

// RecordHit increments the hit counter. Failures are logged and absorbed.
func (s *Stats) RecordHit(ctx context.Context) {
	s.incr(ctx, KeyStatsHits)
}

// RecordMiss increments the miss counter. Failures are logged and absorbed.
func (s *Stats) RecordMiss(ctx context.Context) {
	s.incr(ctx, KeyStatsMisses)
}

func (s *Stats) incr(ctx context.Context, key string) {
	if _, err := s.store.Incr(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("counter", key).Msg("Failed to record cache stat")
	}
}

// Snapshot reads both counters. If either read fails the snapshot reports
// status unavailable with zero counters.
func (s *Stats) Snapshot(ctx context.Context) models.CacheStats {
	hits, err := s.read(ctx, KeyStatsHits)
	if err != nil {
		return unavailableStats()
	}
	misses, err := s.read(ctx, KeyStatsMisses)
	if err != nil {
		return unavailableStats()
	}
	return NewCacheStats(hits, misses)
}

func (s *Stats) read(ctx context.Context, key string) (int64, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("counter", key).Msg("Failed to read cache stat")
		return 0, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("counter", key).Msg("Corrupt cache stat")
		return 0, err
	}
	return n, nil
}

// NewCacheStats derives totals and hit rate from raw counters.
func NewCacheStats(hits, misses int64) models.CacheStats {
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return models.CacheStats{
		Status:        models.StatusAvailable,
		Hits:          hits,
		Misses:        misses,
		TotalRequests: total,
		HitRate:       rate,
	}
}

func unavailableStats() models.CacheStats {
	return models.CacheStats{Status: models.StatusUnavailable}
}

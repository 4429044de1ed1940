// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package cache implements the cache-aside layer in front of the recommendation
engine and the book catalog.

# Overview

The package provides:
  - Store / Backend: a byte-oriented key-value contract with per-key TTL
  - RedisStore: go-redis client behind a circuit breaker (default backend)
  - BadgerStore: embedded Badger database for single-node deployments
  - MemoryStore: process-local TTL map for development and tests
  - Stats: shared hit/miss counters kept in the backend
  - Coordinator: GetOrCompute, invalidation and admin operations

# Key Layout

	book:recommendations:<id>        neighbors at the default count (TTL 1h)
	book:recommendations:<id>:n<k>   neighbors at count k
	book:list:all                    catalog list snapshot (TTL 5m)
	book:detail:<id>                 one catalog book (TTL 30m)
	stats:cache:hits                 INCR counter, never expires
	stats:cache:misses               INCR counter, never expires

# Degradation

A backend that is down or slow never fails a request. Reads become misses,
writes are dropped with a warning, and Stats reports status "unavailable".
The Redis store wraps each call in an operation timeout and a circuit breaker
so a dead server costs one failed dial, not one timeout, per request once the
breaker opens.

# Usage Example

	backend, _ := cache.NewBackend(ctx, cache.Options{Type: cache.BackendRedis, RedisURL: url})
	coord := cache.NewCoordinator(backend, nil, cache.CoordinatorConfig{Singleflight: true}, logger)

	res, hit, err := cache.GetOrCompute(ctx, coord, cache.NamespaceRecommendations,
	    cache.BookKey(id), 0, func(ctx context.Context) (*models.RecommendationResult, error) {
	        return engine.Recommend(ctx, id, 10)
	    })

# Stampede Protection

With Singleflight enabled, concurrent misses on the same key share one
compute. Each caller still records its own miss.
*/
package cache

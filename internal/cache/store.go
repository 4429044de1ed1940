// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/tomtom215/folio/internal/models"
)

// ErrCacheMiss is returned by Store.Get when the key is absent or expired.
// It is not a backend failure.
var ErrCacheMiss = errors.New("cache: key not found")

var errClosed = errors.New("store closed")

// Store is a byte-oriented key-value store with per-key TTL.
// Every method is a single atomic operation against the backend.
type Store interface {
	// Get returns the value for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Incr atomically increments an integer counter, creating it at 0.
	Incr(ctx context.Context, key string) (int64, error)

	// Keys lists keys matching a glob pattern such as "book:list:*".
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Flush drops every key, counters included.
	Flush(ctx context.Context) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Backend is a Store with operational hooks used by the admin API.
type Backend interface {
	Store

	// Name identifies the backend kind in logs and metrics.
	Name() string

	// Health reports reachability and server information.
	Health(ctx context.Context) models.BackendHealth

	// Reconnect rebuilds the underlying client.
	Reconnect(ctx context.Context) error
}

// BackendType selects a Backend implementation.
type BackendType string

const (
	BackendRedis  BackendType = "redis"
	BackendBadger BackendType = "badger"
	BackendMemory BackendType = "memory"
)

// Options configures NewBackend.
type Options struct {
	Type BackendType

	RedisURL       string
	ConnectTimeout time.Duration
	OpTimeout      time.Duration
	PoolSize       int

	BadgerPath string
}

// NewBackend builds the configured backend. A Redis backend that cannot be
// reached at startup is still returned; it degrades every call to a miss
// until the server comes back or Reconnect succeeds.
func NewBackend(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Type {
	case BackendRedis, "":
		return NewRedisStore(ctx, RedisOptions{
			URL:            opts.RedisURL,
			ConnectTimeout: opts.ConnectTimeout,
			OpTimeout:      opts.OpTimeout,
			PoolSize:       opts.PoolSize,
		})
	case BackendBadger:
		return OpenBadgerStore(opts.BadgerPath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Type)
	}
}

// matchKey applies Redis-style glob matching for the stores that scan keys
// locally. Keys never contain '/', so path.Match semantics coincide.
func matchKey(pattern, key string) bool {
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}

// literalPrefix returns the portion of a glob pattern before the first
// metacharacter.
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "*?[\\"); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

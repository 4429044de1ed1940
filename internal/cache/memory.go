// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/models"
)

// entry is a stored value with optional expiration
type entry struct {
	data      []byte
	expiresAt time.Time // zero = never
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is a process-local Backend with TTL support.
//
// Expired entries are removed lazily on Get and by a background sweep every
// cleanupInterval. Values are copied on the way in and out so callers can
// not alias stored bytes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	closed  bool

	stop     chan struct{}
	stopOnce sync.Once
}

const cleanupInterval = 5 * time.Minute

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// NewMemoryStore creates an empty in-memory store and starts its sweeper.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go m.cleanupLoop()

	return m
}

// Name implements Backend.
func (m *MemoryStore) Name() string { return string(BackendMemory) }

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	closed := m.closed
	m.mu.RUnlock()

	if closed {
		return nil, errStoreClosed("memory.get")
	}
	if !exists {
		return nil, ErrCacheMiss
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		// re-check under the write lock; a Set may have replaced it
		if cur, ok := m.entries[key]; ok && cur.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return append([]byte(nil), e.data...), nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed("memory.set")
	}

	e := entry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed("memory.delete")
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Incr implements Store. Counters never expire.
func (m *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errStoreClosed("memory.incr")
	}

	var n int64
	if e, ok := m.entries[key]; ok && !e.expired(m.now()) {
		parsed, err := strconv.ParseInt(string(e.data), 10, 64)
		if err != nil {
			return 0, apperrors.New(apperrors.KindSerialization, "memory.incr", err)
		}
		n = parsed
	}
	n++
	m.entries[key] = entry{data: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

// Keys implements Store. Results are sorted.
func (m *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errStoreClosed("memory.keys")
	}

	now := m.now()
	keys := make([]string, 0)
	for k, e := range m.entries {
		if e.expired(now) || !matchKey(pattern, k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Flush implements Store.
func (m *MemoryStore) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errStoreClosed("memory.flush")
	}
	m.entries = make(map[string]entry)
	return nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errStoreClosed("memory.ping")
	}
	return nil
}

// Health implements Backend.
func (m *MemoryStore) Health(ctx context.Context) models.BackendHealth {
	if err := m.Ping(ctx); err != nil {
		return models.BackendHealth{Status: models.StatusUnhealthy, Backend: m.Name(), Message: err.Error()}
	}
	m.mu.RLock()
	n := len(m.entries)
	m.mu.RUnlock()
	return models.BackendHealth{
		Status:  models.StatusHealthy,
		Backend: m.Name(),
		Message: strconv.Itoa(n) + " keys",
	}
}

// Reconnect implements Backend. There is no connection to rebuild.
func (m *MemoryStore) Reconnect(ctx context.Context) error {
	return m.Ping(ctx)
}

// Close stops the sweeper. Subsequent operations fail.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.mu.Lock()
		m.closed = true
		m.entries = nil
		m.mu.Unlock()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (m *MemoryStore) cleanup() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func errStoreClosed(op string) error {
	return apperrors.New(apperrors.KindBackendUnavailable, op, errClosed)
}

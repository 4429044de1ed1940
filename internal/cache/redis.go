// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
	"github.com/tomtom215/folio/internal/models"
)

// Redis client defaults.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultOpTimeout      = 2 * time.Second
	DefaultPoolSize       = 50
	scanBatch             = 200
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	URL            string
	ConnectTimeout time.Duration
	OpTimeout      time.Duration
	PoolSize       int
}

func (o *RedisOptions) applyDefaults() {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.OpTimeout <= 0 {
		o.OpTimeout = DefaultOpTimeout
	}
	if o.PoolSize <= 0 {
		o.PoolSize = DefaultPoolSize
	}
}

// redisConn is one client generation. Reconnect swaps in a new one.
type redisConn struct {
	client  *redis.Client
	breaker *breaker
}

// RedisStore is a Backend on a Redis server.
//
// Every operation runs under OpTimeout and through a circuit breaker; any
// failure is returned as apperrors.KindBackendUnavailable and the coordinator
// treats it as a miss. The store never fails construction because the server
// is down.
type RedisStore struct {
	opts      RedisOptions
	conn      atomic.Pointer[redisConn]
	connected atomic.Bool
}

// NewRedisStore parses the URL, builds a client and probes it once.
// Only an unparseable URL is an error.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	opts.applyDefaults()

	conn, err := newRedisConn(opts)
	if err != nil {
		return nil, err
	}

	s := &RedisStore{opts: opts}
	s.conn.Store(conn)

	pctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := conn.client.Ping(pctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", conn.client.Options().Addr).
			Msg("Redis unreachable at startup, running with cache disabled until it recovers")
		metrics.CacheBackendErrors.WithLabelValues(s.Name(), "connect").Inc()
	} else {
		s.connected.Store(true)
		logging.Info().Str("addr", conn.client.Options().Addr).Msg("Connected to Redis")
	}

	return s, nil
}

func newRedisConn(opts RedisOptions) (*redisConn, error) {
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	ro.DialTimeout = opts.ConnectTimeout
	ro.ReadTimeout = opts.OpTimeout
	ro.WriteTimeout = opts.OpTimeout
	ro.PoolSize = opts.PoolSize
	ro.MaxRetries = 1

	return &redisConn{
		client: redis.NewClient(ro),
		breaker: newBreaker("redis", func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		}),
	}, nil
}

// Name implements Backend.
func (s *RedisStore) Name() string { return string(BackendRedis) }

// do runs fn against the current client under the operation timeout and breaker.
func (s *RedisStore) do(ctx context.Context, op string, fn func(ctx context.Context, c *redis.Client) (any, error)) (any, error) {
	conn := s.conn.Load()

	qctx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	result, err := conn.breaker.execute(func() (any, error) {
		return fn(qctx, conn.client)
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheBackendErrors.WithLabelValues(s.Name(), op).Inc()
		return nil, apperrors.New(apperrors.KindBackendUnavailable, "redis."+op, err)
	}
	if err == nil {
		s.connected.Store(true)
	}
	return result, err
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := castResult[[]byte](s.do(ctx, "get", func(ctx context.Context, c *redis.Client) (any, error) {
		return c.Get(ctx, key).Bytes()
	}))
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := s.do(ctx, "set", func(ctx context.Context, c *redis.Client) (any, error) {
		return nil, c.Set(ctx, key, value, ttl).Err()
	})
	return err
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.do(ctx, "delete", func(ctx context.Context, c *redis.Client) (any, error) {
		return nil, c.Del(ctx, keys...).Err()
	})
	return err
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return castResult[int64](s.do(ctx, "incr", func(ctx context.Context, c *redis.Client) (any, error) {
		return c.Incr(ctx, key).Result()
	}))
}

// Keys implements Store using SCAN so a large keyspace does not block the server.
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return castResult[[]string](s.do(ctx, "keys", func(ctx context.Context, c *redis.Client) (any, error) {
		keys := make([]string, 0)
		var cursor uint64
		for {
			batch, next, err := c.Scan(ctx, cursor, pattern, scanBatch).Result()
			if err != nil {
				return nil, err
			}
			keys = append(keys, batch...)
			if next == 0 {
				return keys, nil
			}
			cursor = next
		}
	}))
}

// Flush implements Store. Only the selected logical database is dropped.
func (s *RedisStore) Flush(ctx context.Context) error {
	_, err := s.do(ctx, "flush", func(ctx context.Context, c *redis.Client) (any, error) {
		return nil, c.FlushDB(ctx).Err()
	})
	return err
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, "ping", func(ctx context.Context, c *redis.Client) (any, error) {
		return nil, c.Ping(ctx).Err()
	})
	return err
}

// Health implements Backend. INFO is best effort; a reachable server with an
// unreadable INFO is still healthy.
func (s *RedisStore) Health(ctx context.Context) models.BackendHealth {
	h := models.BackendHealth{Backend: s.Name()}

	if err := s.Ping(ctx); err != nil {
		if !s.connected.Load() {
			h.Status = models.StatusUnavailable
			h.Message = "Redis not connected"
			return h
		}
		h.Status = models.StatusUnhealthy
		h.Message = err.Error()
		return h
	}
	h.Status = models.StatusHealthy

	info, err := castResult[string](s.do(ctx, "info", func(ctx context.Context, c *redis.Client) (any, error) {
		return c.Info(ctx, "server", "clients", "memory").Result()
	}))
	if err != nil {
		logging.Debug().Err(err).Msg("Redis INFO failed")
		return h
	}

	fields := parseInfo(info)
	h.Version = fields["redis_version"]
	h.UsedMemoryHuman = fields["used_memory_human"]
	if v, err := strconv.ParseInt(fields["connected_clients"], 10, 64); err == nil {
		h.ConnectedClients = v
	}
	if v, err := strconv.ParseInt(fields["uptime_in_seconds"], 10, 64); err == nil {
		h.UptimeSeconds = v
	}
	return h
}

// Reconnect builds a fresh client from the configured URL and swaps it in
// once it answers PING. On failure the current client is kept.
func (s *RedisStore) Reconnect(ctx context.Context) error {
	conn, err := newRedisConn(s.opts)
	if err != nil {
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()
	if err := conn.client.Ping(pctx).Err(); err != nil {
		_ = conn.client.Close()
		metrics.CacheBackendErrors.WithLabelValues(s.Name(), "connect").Inc()
		return apperrors.New(apperrors.KindBackendUnavailable, "redis.reconnect", err)
	}

	old := s.conn.Swap(conn)
	s.connected.Store(true)
	if old != nil {
		if err := old.client.Close(); err != nil {
			logging.Debug().Err(err).Msg("Closing previous Redis client")
		}
	}

	logging.Info().Str("addr", conn.client.Options().Addr).Msg("Redis reconnected")
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.conn.Load().client.Close()
}

// parseInfo reads "key:value" lines from an INFO reply.
func parseInfo(info string) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			out[k] = v
		}
	}
	return out
}

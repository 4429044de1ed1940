// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateWarmer(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "redis":
		u, err := url.Parse(c.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("REDIS_URL is not a valid URL: %w", err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return fmt.Errorf("REDIS_URL must use redis:// or rediss://, got %q", u.Scheme)
		}
		if c.Cache.PoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be at least 1")
		}
	case "badger":
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	case "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of redis, badger, memory; got %q", c.Cache.Backend)
	}

	if c.Cache.ConnectTimeout <= 0 || c.Cache.OpTimeout <= 0 {
		return fmt.Errorf("REDIS_CONNECT_TIMEOUT and REDIS_OP_TIMEOUT must be positive")
	}
	if c.Cache.RecommendationTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_RECOMMENDATIONS must be positive")
	}
	if c.Cache.BookListTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_BOOKS must be positive")
	}
	if c.Cache.BookDetailTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_BOOK_DETAIL must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxNeighbors < 1 {
		return fmt.Errorf("RECOMMEND_MAX_NEIGHBORS must be at least 1")
	}
	if c.Recommend.Neighbors < 1 || c.Recommend.Neighbors > c.Recommend.MaxNeighbors {
		return fmt.Errorf("RECOMMEND_NEIGHBORS must be between 1 and %d, got %d",
			c.Recommend.MaxNeighbors, c.Recommend.Neighbors)
	}
	return nil
}

func (c *Config) validateWarmer() error {
	if !c.Warmer.Enabled {
		return nil
	}
	if c.Warmer.TopK < 0 {
		return fmt.Errorf("WARM_TOP_K must not be negative")
	}
	if c.Warmer.RatePerSecond < 0 {
		return fmt.Errorf("WARM_RATE_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateIndex() error {
	if c.Index.Path == "" {
		return fmt.Errorf("INDEX_PATH is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

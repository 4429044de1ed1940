// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all application configuration.
//
// Loading order (koanf v2), later layers win:
//  1. Defaults from defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/folio/config.yaml)
//  3. Environment variables (see envTransformFunc for the full mapping)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Index     IndexConfig     `koanf:"index"`
	Warmer    WarmerConfig    `koanf:"warmer"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CacheConfig holds the cache backend and TTL policy.
type CacheConfig struct {
	// Backend selects the store: redis, badger or memory.
	Backend string `koanf:"backend"`

	RedisURL       string        `koanf:"redis_url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	OpTimeout      time.Duration `koanf:"op_timeout"`
	PoolSize       int           `koanf:"pool_size"`

	// BadgerPath is the data directory when Backend is badger.
	BadgerPath string `koanf:"badger_path"`

	RecommendationTTL time.Duration `koanf:"recommendation_ttl"`
	BookListTTL       time.Duration `koanf:"book_list_ttl"`
	BookDetailTTL     time.Duration `koanf:"book_detail_ttl"`

	// Singleflight collapses concurrent misses on the same key into one compute.
	Singleflight bool `koanf:"singleflight"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Neighbors    int `koanf:"neighbors"`
	MaxNeighbors int `koanf:"max_neighbors"`
}

// IndexConfig points at the prebuilt similarity index artifact.
type IndexConfig struct {
	Path string `koanf:"path"`
}

// WarmerConfig holds cache warm-up settings.
type WarmerConfig struct {
	Enabled       bool          `koanf:"enabled"`
	TopK          int           `koanf:"top_k"`
	RatePerSecond float64       `koanf:"rate_per_second"` // 0 = unlimited
	Timeout       time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB catalog settings.
type DatabaseConfig struct {
	Path          string `koanf:"path"`
	MaxMemory     string `koanf:"max_memory"`
	Threads       int    `koanf:"threads"`
	SeedFromIndex bool   `koanf:"seed_from_index"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether ENVIRONMENT=production.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// EffectiveRedisURL returns RedisURL with the scheme upgraded to rediss:// for
// Upstash hosts, which only accept TLS.
func (c CacheConfig) EffectiveRedisURL() string {
	u, err := url.Parse(c.RedisURL)
	if err != nil {
		return c.RedisURL
	}
	if u.Scheme == "redis" && strings.HasSuffix(u.Hostname(), "upstash.io") {
		u.Scheme = "rediss"
		return u.String()
	}
	return c.RedisURL
}

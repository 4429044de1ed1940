// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
	"/etc/folio/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			Backend:           "redis",
			RedisURL:          "redis://localhost:6379/0",
			ConnectTimeout:    5 * time.Second,
			OpTimeout:         2 * time.Second,
			PoolSize:          50,
			BadgerPath:        "/data/folio-cache",
			RecommendationTTL: time.Hour,
			BookListTTL:       5 * time.Minute,
			BookDetailTTL:     30 * time.Minute,
			Singleflight:      true,
		},
		Recommend: RecommendConfig{
			Neighbors:    10,
			MaxNeighbors: 50,
		},
		Index: IndexConfig{
			Path: "/data/index.json",
		},
		Warmer: WarmerConfig{
			Enabled:       true,
			TopK:          10,
			RatePerSecond: 0,
			Timeout:       2 * time.Minute,
		},
		Database: DatabaseConfig{
			Path:          "/data/folio.duckdb",
			MaxMemory:     "1GB",
			Threads:       0, // 0 = runtime.NumCPU()
			SeedFromIndex: true,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults, an
// optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// REDIS_URL -> cache.redis_url, WARM_TOP_K -> warmer.top_k, ...
	if err := k.Load(env.ProviderWithValue("", ".", envTransformValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
// Unmapped variables are ignored so the process environment cannot leak in.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"cache_backend":             "cache.backend",
	"redis_url":                 "cache.redis_url",
	"redis_connect_timeout":     "cache.connect_timeout",
	"redis_op_timeout":          "cache.op_timeout",
	"redis_pool_size":           "cache.pool_size",
	"badger_path":               "cache.badger_path",
	"cache_ttl_recommendations": "cache.recommendation_ttl",
	"cache_ttl_books":           "cache.book_list_ttl",
	"cache_ttl_book_detail":     "cache.book_detail_ttl",
	"cache_singleflight":        "cache.singleflight",

	"recommend_neighbors":     "recommend.neighbors",
	"recommend_max_neighbors": "recommend.max_neighbors",

	"index_path": "index.path",

	"warm_enabled":         "warmer.enabled",
	"warm_top_k":           "warmer.top_k",
	"warm_rate_per_second": "warmer.rate_per_second",
	"warm_timeout":         "warmer.timeout",

	"duckdb_path":             "database.path",
	"duckdb_max_memory":       "database.max_memory",
	"duckdb_threads":          "database.threads",
	"catalog_seed_from_index": "database.seed_from_index",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its koanf path, or ""
// to skip it.
//
//	REDIS_URL                 -> cache.redis_url
//	CACHE_TTL_RECOMMENDATIONS -> cache.recommendation_ttl
//	WARM_TOP_K                -> warmer.top_k
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// secondsPaths accept a bare integer as seconds (CACHE_TTL_BOOKS=300) in
// addition to Go duration strings (CACHE_TTL_BOOKS=5m).
var secondsPaths = map[string]bool{
	"cache.recommendation_ttl": true,
	"cache.book_list_ttl":      true,
	"cache.book_detail_ttl":    true,
	"cache.connect_timeout":    true,
	"cache.op_timeout":         true,
}

func envTransformValue(key, value string) (string, interface{}) {
	path := envTransformFunc(key)
	if path == "" {
		return "", nil
	}
	if secondsPaths[path] {
		if _, err := strconv.Atoi(value); err == nil {
			return path, value + "s"
		}
	}
	return path, value
}

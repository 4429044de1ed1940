// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// Cache and backend status values.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
	StatusHealthy     = "healthy"
	StatusUnhealthy   = "unhealthy"
)

// CacheStats is the response of GET /cache/stats.
//
// HitRate is a fraction in [0, 1]: hits / (hits + misses), 0 when both are 0.
// When the backend cannot be reached Status is "unavailable" and the counters
// read as zero.
type CacheStats struct {
	Status        string  `json:"status"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	TotalRequests int64   `json:"total_requests"`
	HitRate       float64 `json:"hit_rate"`
}

// BackendHealth is the response of GET /health/redis.
type BackendHealth struct {
	Status           string `json:"status"`
	Backend          string `json:"backend"`
	Message          string `json:"message,omitempty"`
	Version          string `json:"version,omitempty"`
	ConnectedClients int64  `json:"connected_clients,omitempty"`
	UsedMemoryHuman  string `json:"used_memory_human,omitempty"`
	UptimeSeconds    int64  `json:"uptime_in_seconds,omitempty"`
}

// AdminStats is the response of GET /admin/cache/stats.
type AdminStats struct {
	CacheStats    CacheStats    `json:"cache_stats"`
	BackendHealth BackendHealth `json:"redis_health"`
}

// CacheKeys is the response of GET /admin/cache/keys.
type CacheKeys struct {
	TotalKeys int      `json:"total_keys"`
	Keys      []string `json:"keys"`
}

// AdminMessage is the success body of admin mutations.
type AdminMessage struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import (
	"time"
)

// APIResponse is the envelope for error responses and the service health
// endpoint. Recommendation, stats and catalog endpoints return their payloads
// bare so existing clients keep working.
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "BOOK_NOT_FOUND", "message": "Book not found"},
//	  "metadata": {"timestamp": "2026-10-15T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes used by the API:
//   - VALIDATION_ERROR: malformed body or parameter
//   - INVALID_BOOK_ID: non-numeric or non-positive path id
//   - BOOK_NOT_FOUND: id unknown to the index or catalog
//   - COMPUTE_ERROR: recommendation computation failed
//   - CATALOG_ERROR: relational store failure
//   - CACHE_ERROR: admin operation against the cache backend failed
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ServiceHealth is the data payload of GET /health.
type ServiceHealth struct {
	Status            string  `json:"status"`
	IndexVersion      string  `json:"index_version"`
	IndexBooks        int     `json:"index_books"`
	IndexDim          int     `json:"index_dimensions"`
	CacheStatus       string  `json:"cache_status"`
	Backend           string  `json:"cache_backend"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

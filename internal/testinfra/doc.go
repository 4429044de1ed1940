// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package testinfra starts real dependencies in Docker for integration tests.
//
// Unit tests run against miniredis. Tests behind the integration build tag
// use a real Redis server so INFO parsing, SCAN paging and client timeouts
// are checked against the actual protocol:
//
//	go test -tags integration ./internal/cache/...
//
// Tests skip themselves when Docker is unavailable.
package testinfra

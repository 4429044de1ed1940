// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", errors.New("boom"), KindUnknown},
		{"not found", NotFound("index.neighbors", "book %d", 7), KindNotFound},
		{"wrapped backend", fmt.Errorf("cache get: %w", New(KindBackendUnavailable, "redis.get", errors.New("dial tcp"))), KindBackendUnavailable},
		{"serialization", New(KindSerialization, "codec.decode", nil), KindSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("recommend: %w", NotFound("index.neighbors", "book %d", 42))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is(err, ErrNotFound) to be true")
	}
	if errors.Is(err, ErrUpstreamCompute) {
		t.Error("did not expect errors.Is(err, ErrUpstreamCompute)")
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := New(KindBackendUnavailable, "redis.ping", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *Error
		want string
	}{
		{New(KindNotFound, "index.neighbors", errors.New("book 7")), "index.neighbors: not_found: book 7"},
		{New(KindSerialization, "", errors.New("bad json")), "serialization: bad json"},
		{New(KindUpstreamCompute, "recommend", nil), "recommend: upstream_compute"},
		{ErrValidation, "validation"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

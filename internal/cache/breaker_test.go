// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/folio/internal/metrics"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	const name = "test-open"
	b := newBreaker(name, func(err error) bool { return err == nil })
	boom := errors.New("boom")

	failures := metrics.CircuitBreakerRequests.WithLabelValues(name, "failure")
	rejected := metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected")
	failBefore := testutil.ToFloat64(failures)
	rejBefore := testutil.ToFloat64(rejected)

	for i := 0; i < 5; i++ {
		if _, err := b.execute(func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}

	called := false
	_, err := b.execute(func() (any, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err after 5 failures = %v, want open state", err)
	}
	if called {
		t.Error("open breaker ran the call")
	}

	if got := testutil.ToFloat64(failures) - failBefore; got != 5 {
		t.Errorf("failure count = %v, want 5", got)
	}
	if got := testutil.ToFloat64(rejected) - rejBefore; got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state gauge = %v, want 2 (open)", got)
	}
}

func TestBreakerIsSuccessfulHook(t *testing.T) {
	miss := errors.New("miss")
	b := newBreaker("test-hook", func(err error) bool { return err == nil || errors.Is(err, miss) })

	// expected errors never trip the breaker
	for i := 0; i < 10; i++ {
		if _, err := b.execute(func() (any, error) { return nil, miss }); !errors.Is(err, miss) {
			t.Fatalf("call %d: err = %v, want miss", i, err)
		}
	}
	v, err := castResult[string](b.execute(func() (any, error) { return "ok", nil }))
	if err != nil || v != "ok" {
		t.Errorf("castResult = %q, %v", v, err)
	}
}

func TestCastResult(t *testing.T) {
	if _, err := castResult[string](42, nil); err == nil {
		t.Error("castResult accepted wrong type")
	}
	if v, err := castResult[[]byte](nil, nil); err != nil || v != nil {
		t.Errorf("castResult(nil) = %v, %v", v, err)
	}
}

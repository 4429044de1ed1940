// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/folio/internal/warmer"
)

type mockRunner struct {
	calls  atomic.Int32
	result warmer.Result
	block  bool
}

func (m *mockRunner) Run(ctx context.Context) warmer.Result {
	m.calls.Add(1)
	if m.block {
		<-ctx.Done()
	}
	return m.result
}

var _ suture.Service = (*WarmerService)(nil)

func TestWarmerService_String(t *testing.T) {
	svc := NewWarmerService(&mockRunner{}, 0, zerolog.Nop())
	if got := svc.String(); got != "cache-warmer" {
		t.Errorf("String() = %q, want %q", got, "cache-warmer")
	}
}

func TestWarmerService_RunsOnce(t *testing.T) {
	runner := &mockRunner{result: warmer.Result{Warmed: 7}}
	svc := NewWarmerService(runner, 0, zerolog.Nop())

	err := svc.Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve() = %v, want ErrDoNotRestart", err)
	}

	select {
	case res := <-svc.Done():
		if res.Warmed != 7 {
			t.Errorf("Warmed = %d, want 7", res.Warmed)
		}
	default:
		t.Fatal("no result delivered")
	}
}

func TestWarmerService_CanceledDuringDelay(t *testing.T) {
	runner := &mockRunner{}
	svc := NewWarmerService(runner, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if runner.calls.Load() != 0 {
		t.Errorf("runner called %d times, want 0", runner.calls.Load())
	}
}

func TestWarmerService_CanceledDuringRun(t *testing.T) {
	runner := &mockRunner{block: true}
	svc := NewWarmerService(runner, 0, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
}

func TestWarmerService_NotRestartedBySupervisor(t *testing.T) {
	runner := &mockRunner{}
	svc := NewWarmerService(runner, 0, zerolog.Nop())

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	select {
	case <-svc.Done():
	case <-time.After(time.Second):
		t.Fatal("warm-up did not run")
	}
	<-errCh

	if got := runner.calls.Load(); got != 1 {
		t.Errorf("runner called %d times, want 1", got)
	}
}

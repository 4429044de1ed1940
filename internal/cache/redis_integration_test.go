// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/testinfra"
)

func startRedis(t *testing.T) (*RedisStore, *testinfra.RedisContainer) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	rc, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, context.Background(), rc.Container) })

	store, err := NewRedisStore(ctx, RedisOptions{URL: rc.URL, OpTimeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, rc
}

func TestRedisStore_RealServer(t *testing.T) {
	store, _ := startRedis(t)
	ctx := context.Background()

	health := store.Health(ctx)
	if health.Status != models.StatusHealthy {
		t.Fatalf("Health().Status = %q, want healthy", health.Status)
	}
	if health.Version == "" || health.UsedMemoryHuman == "" || health.ConnectedClients < 1 {
		t.Errorf("INFO fields not parsed: %+v", health)
	}

	// More keys than one SCAN batch.
	for i := 0; i < scanBatch+50; i++ {
		key := NamespaceRecommendations.Key(fmt.Sprintf("%d", i))
		if err := store.Set(ctx, key, []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	keys, err := store.Keys(ctx, NamespaceRecommendations.Pattern())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != scanBatch+50 {
		t.Errorf("Keys() = %d keys, want %d", len(keys), scanBatch+50)
	}

	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if keys, _ := store.Keys(ctx, "*"); len(keys) != 0 {
		t.Errorf("keys after Flush = %d, want 0", len(keys))
	}
}

func TestCoordinator_RealServerStall(t *testing.T) {
	store, rc := startRedis(t)
	ctx := context.Background()

	coord := NewCoordinator(store, nil, CoordinatorConfig{}, zerolog.Nop())
	compute := func(context.Context) (string, error) { return "fresh", nil }

	if _, _, err := GetOrCompute(ctx, coord, NamespaceBookDetail, "1", 0, compute); err != nil {
		t.Fatalf("warm GetOrCompute: %v", err)
	}

	if err := rc.PauseClients(ctx, 2*time.Second); err != nil {
		t.Fatalf("PauseClients: %v", err)
	}

	v, hit, err := GetOrCompute(ctx, coord, NamespaceBookDetail, "1", 0, compute)
	if err != nil {
		t.Fatalf("GetOrCompute during stall: %v", err)
	}
	if hit || v != "fresh" {
		t.Errorf("got (%q, hit=%v), want computed value as a miss", v, hit)
	}
}

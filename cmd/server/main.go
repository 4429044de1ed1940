// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/folio/internal/api"
	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/index"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
	"github.com/tomtom215/folio/internal/warmer"
)

// warmerStartDelay lets the listener come up before warm-up traffic starts.
const warmerStartDelay = 100 * time.Millisecond

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Folio stopped with error")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Str("index_path", cfg.Index.Path).
		Msg("Starting Folio")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The index is required; without it there is nothing to recommend.
	idx, err := index.Load(cfg.Index.Path)
	if err != nil {
		return err
	}

	store, err := initCatalog(ctx, cfg, idx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	coordinator, err := initCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := coordinator.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache backend")
		}
	}()

	engine, err := recommend.NewEngine(&recommend.Config{
		DefaultN: cfg.Recommend.Neighbors,
		MaxN:     cfg.Recommend.MaxNeighbors,
	}, idx, logging.Logger())
	if err != nil {
		return err
	}
	recs := recommend.NewCached(engine, coordinator)

	handler, err := api.NewHandler(recs, coordinator, store, idx)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), cfg.Server.Timeout)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute, // CSV export streams
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))

	if cfg.Warmer.Enabled {
		w, err := warmer.New(warmer.Config{
			TopK:          cfg.Warmer.TopK,
			RatePerSecond: cfg.Warmer.RatePerSecond,
			Timeout:       cfg.Warmer.Timeout,
		}, warmer.RankerFunc(func(_ context.Context, k int) ([]int64, error) {
			return idx.TopByRatingsCount(k), nil
		}), recs, coordinator, logging.Logger())
		if err != nil {
			return err
		}
		tree.AddDataService(services.NewWarmerService(w, warmerStartDelay, logging.Logger()))
	} else {
		logging.Info().Msg("Cache warm-up disabled (WARM_ENABLED=false)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
		cancel()
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Folio stopped")
	return serveErr
}

// initCatalog opens DuckDB and seeds it from the index on first start.
func initCatalog(ctx context.Context, cfg *config.Config, idx *index.Index) (*catalog.Store, error) {
	store, err := catalog.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.SeedFromIndex {
		return store, nil
	}

	seeded, err := store.SeedIfEmpty(ctx, idx.Books())
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing catalog")
		}
		return nil, err
	}
	if seeded > 0 {
		logging.Info().Int("books", seeded).Msg("Catalog seeded from index")
	}
	return store, nil
}

// initCache builds the configured backend and the coordinator over it. An
// unreachable Redis is not fatal: the service runs uncached until it returns.
func initCache(ctx context.Context, cfg *config.Config) (*cache.Coordinator, error) {
	backend, err := cache.NewBackend(ctx, cache.Options{
		Type:           cache.BackendType(cfg.Cache.Backend),
		RedisURL:       cfg.Cache.EffectiveRedisURL(),
		ConnectTimeout: cfg.Cache.ConnectTimeout,
		OpTimeout:      cfg.Cache.OpTimeout,
		PoolSize:       cfg.Cache.PoolSize,
		BadgerPath:     cfg.Cache.BadgerPath,
	})
	if err != nil {
		return nil, err
	}

	if err := backend.Ping(ctx); err != nil {
		logging.Warn().Err(err).Str("backend", backend.Name()).Msg("Cache backend unavailable, serving uncached")
	} else {
		logging.Info().Str("backend", backend.Name()).Msg("Cache backend connected")
	}

	return cache.NewCoordinator(backend, nil, cache.CoordinatorConfig{
		TTLs: map[cache.Namespace]time.Duration{
			cache.NamespaceRecommendations: cfg.Cache.RecommendationTTL,
			cache.NamespaceBookList:        cfg.Cache.BookListTTL,
			cache.NamespaceBookDetail:      cfg.Cache.BookDetailTTL,
		},
		Singleflight: cfg.Cache.Singleflight,
	}, logging.Logger()), nil
}

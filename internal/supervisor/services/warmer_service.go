// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/folio/internal/warmer"
)

// WarmRunner runs one cache warm-up pass.
// Satisfied by *warmer.Warmer.
type WarmRunner interface {
	Run(ctx context.Context) warmer.Result
}

// WarmerService runs the cache warmer once per process, alongside the HTTP
// server. Requests that arrive before warm-up finishes are served through
// the normal miss path.
type WarmerService struct {
	runner     WarmRunner
	startDelay time.Duration
	logger     zerolog.Logger
	name       string
	done       chan warmer.Result
}

// NewWarmerService creates the warmer service. startDelay postpones the run
// so the listener is up first; zero starts immediately.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmerService(runner WarmRunner, startDelay time.Duration, logger zerolog.Logger) *WarmerService {
	return &WarmerService{
		runner:     runner,
		startDelay: startDelay,
		logger:     logger.With().Str("service", "warmer").Logger(),
		name:       "cache-warmer",
		done:       make(chan warmer.Result, 1),
	}
}

// Serve implements suture.Service. After a completed run it returns
// suture.ErrDoNotRestart so the supervisor never repeats the warm-up.
func (s *WarmerService) Serve(ctx context.Context) error {
	if s.startDelay > 0 {
		timer := time.NewTimer(s.startDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.logger.Info().Msg("cache warm-up starting")
	result := s.runner.Run(ctx)

	select {
	case s.done <- result:
	default:
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return suture.ErrDoNotRestart
}

// Done delivers the result of the first completed run.
func (s *WarmerService) Done() <-chan warmer.Result {
	return s.done
}

// String returns the service name for logging.
func (s *WarmerService) String() string {
	return s.name
}

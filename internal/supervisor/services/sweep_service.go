// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package services provides Suture service wrappers for the cache daemon's
// background components.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper removes expired entries in a single pass. Implemented by the
// cache store.
type Sweeper interface {
	// Sweep returns the number of entries removed.
	Sweep() int
}

// SweepService runs the expired-entry sweep on a fixed interval under
// Suture supervision. The ticker lives only for the duration of Serve, so
// shutdown leaks no timer.
type SweepService struct {
	store    Sweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweepService creates a sweep service. A non-positive interval falls
// back to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSweepService(store Sweeper, interval time.Duration, logger zerolog.Logger) *SweepService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "sweep").Logger(),
	}
}

// Serve implements the suture.Service interface. It sweeps on every tick
// until the context is canceled.
func (s *SweepService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("sweep service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweep service stopping")
			return ctx.Err()
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("expired entries swept")
			}
		}
	}
}

// String names the service in suture logs.
func (s *SweepService) String() string {
	return "sweep-service"
}

// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSweeper counts Sweep calls.
type countingSweeper struct {
	calls atomic.Int64
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSweepServiceRunsOnInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	svc := NewSweepService(sweeper, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Wait for at least two ticks
	require.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond, "Expected at least two sweep passes")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Sweep service did not stop after context cancellation")
	}
}

func TestSweepServiceStopsImmediately(t *testing.T) {
	svc := NewSweepService(&countingSweeper{}, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepServiceDefaultInterval(t *testing.T) {
	svc := NewSweepService(&countingSweeper{}, 0, zerolog.Nop())
	assert.Equal(t, time.Minute, svc.interval)
}

func TestSweepServiceName(t *testing.T) {
	svc := NewSweepService(&countingSweeper{}, time.Minute, zerolog.Nop())
	assert.Equal(t, "sweep-service", svc.String())
}

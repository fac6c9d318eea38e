// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package main is the entry point for the cache daemon.
//
// The daemon hosts the admin console's data cache as a long-lived process:
// a TTL + LRU bounded in-memory store with durable BadgerDB snapshots, a
// supervised background sweep, and a small ops HTTP surface (health,
// stats, Prometheus metrics, pattern invalidation).
//
// Startup order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, config.yaml, env)
//  2. Logging: global zerolog logger
//  3. Persistence: open BadgerDB and restore the prior snapshot (if enabled)
//  4. Supervision: suture tree running the sweep and the ops server
//
// Configuration examples:
//
//	export CACHE_DEFAULT_TTL=5m
//	export CACHE_MAX_ENTRIES=1000
//	export PERSISTENCE_PATH=/data/cache
//	export SERVER_PORT=7421
//	./cached
//
// The daemon shuts down gracefully on SIGINT and SIGTERM: the sweep ticker
// stops, the ops server drains in-flight requests, and BadgerDB is closed
// last so the final snapshot lands on disk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/api"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/cache"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/config"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/logging"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/persist"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/supervisor"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("cache daemon exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Payloads are opaque to the daemon, so the store holds raw JSON.
	var persister cache.Persister[json.RawMessage]
	if cfg.Persistence.Enabled {
		opts := badger.DefaultOptions(cfg.Persistence.Path)
		opts.Logger = nil // badger's own logger is too chatty for info level
		db, err := badger.Open(opts)
		if err != nil {
			return fmt.Errorf("open badger at %s: %w", cfg.Persistence.Path, err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Warn().Err(err).Msg("badger close failed")
			}
		}()

		persister = persist.NewBadgerStore[json.RawMessage](db, persist.Options{
			RecordKey:               cfg.Persistence.RecordKey,
			BreakerFailureThreshold: uint32(cfg.Persistence.BreakerFailureThreshold),
			BreakerTimeout:          cfg.Persistence.BreakerTimeout,
		})
	}

	store, err := cache.New(cache.Options[json.RawMessage]{
		DefaultTTL: cfg.Cache.DefaultTTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Persister:  persister,
	})
	if err != nil {
		return fmt.Errorf("create cache store: %w", err)
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewSweepService(store, cfg.Cache.SweepInterval, logger))
	tree.AddOpsService(api.NewServer(store, cfg.Server, logger))

	logger.Info().
		Dur("default_ttl", cfg.Cache.DefaultTTL).
		Int("max_entries", cfg.Cache.MaxEntries).
		Bool("persistence", cfg.Persistence.Enabled).
		Msg("cache daemon starting")

	return tree.Serve(ctx)
}

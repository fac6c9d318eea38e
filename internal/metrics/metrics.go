// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package metrics exposes Prometheus collectors for the cache engine and
// its durable snapshot path. Collectors are registered with the default
// registry via promauto and served by the ops server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache engine metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache reads that returned a live entry",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache reads that returned absent (missing or expired)",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries evicted by the LRU capacity bound",
		},
	)

	CacheExpiredRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_expired_removed_total",
			Help: "Total number of expired entries physically removed (lazy or sweep)",
		},
	)

	CacheInvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_invalidated_keys_total",
			Help: "Total number of keys removed by pattern invalidation",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries held, including not-yet-swept expired ones",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cache_sweep_duration_seconds",
			Help:    "Duration of expired-entry sweep passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Durable snapshot metrics
	SnapshotWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_snapshot_writes_total",
			Help: "Total number of snapshots written to durable storage",
		},
	)

	SnapshotErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_snapshot_errors_total",
			Help: "Total number of failed durable snapshot operations",
		},
	)

	SnapshotBreakerOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_snapshot_breaker_open",
			Help: "1 when the snapshot write circuit breaker is open, 0 otherwise",
		},
	)
)

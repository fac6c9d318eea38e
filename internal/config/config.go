// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package config defines the typed configuration for the cache daemon and
// loads it via Koanf v2 with layered sources: built-in defaults, an
// optional YAML file, then environment variables (highest priority).
package config

import "time"

// Config is the root configuration for the cache daemon.
type Config struct {
	Cache       CacheConfig       `koanf:"cache"`
	Persistence PersistenceConfig `koanf:"persistence"`
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// CacheConfig bounds the in-memory store.
type CacheConfig struct {
	// DefaultTTL is applied to entries set without an explicit TTL.
	DefaultTTL time.Duration `koanf:"default_ttl"`

	// MaxEntries is the hard cap on concurrently held entries.
	MaxEntries int `koanf:"max_entries"`

	// SweepInterval is how often the background sweep removes expired
	// entries.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// PersistenceConfig controls durable snapshots.
type PersistenceConfig struct {
	// Enabled turns on durable snapshots; when false the cache is
	// memory-only and Path is ignored.
	Enabled bool `koanf:"enabled"`

	// Path is the BadgerDB directory.
	Path string `koanf:"path"`

	// RecordKey overrides the snapshot record key. Empty uses the
	// built-in default.
	RecordKey string `koanf:"record_key"`

	// BreakerFailureThreshold is the number of consecutive failed
	// snapshot writes before writes short-circuit.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold"`

	// BreakerTimeout is how long writes stay short-circuited before the
	// medium is probed again.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// ServerConfig configures the ops HTTP server (health, stats, metrics,
// invalidation hook).
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Timeout bounds request reads/writes and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values. These
// are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			DefaultTTL:    5 * time.Minute,
			MaxEntries:    1000,
			SweepInterval: time.Minute,
		},
		Persistence: PersistenceConfig{
			Enabled:                 true,
			Path:                    "/data/cache",
			RecordKey:               "",
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    7421,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Minute, cfg.Cache.SweepInterval)
	assert.True(t, cfg.Persistence.Enabled)
	assert.Equal(t, 7421, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CACHE_MAX_ENTRIES", "250")
	t.Setenv("CACHE_DEFAULT_TTL", "90s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PERSISTENCE_ENABLED", "false")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Cache.MaxEntries)
	assert.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Persistence.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("cache:\n  max_entries: 42\nserver:\n  port: 8088\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Cache.MaxEntries)
	assert.Equal(t, 8088, cfg.Server.Port)
	// Untouched settings keep their defaults
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
}

func TestLoadEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8088\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("CACHE_MAX_ENTRIES", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_MAX_ENTRIES")
}

func TestValidateCache(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.MaxEntries = -1
	assert.ErrorContains(t, cfg.Validate(), "CACHE_MAX_ENTRIES")

	cfg = defaultConfig()
	cfg.Cache.DefaultTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "CACHE_DEFAULT_TTL")

	cfg = defaultConfig()
	cfg.Cache.SweepInterval = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "CACHE_SWEEP_INTERVAL")
}

func TestValidatePersistence(t *testing.T) {
	cfg := defaultConfig()
	cfg.Persistence.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "PERSISTENCE_PATH")

	// Disabled persistence skips storage checks entirely
	cfg.Persistence.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestValidateServer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "SERVER_PORT")

	cfg = defaultConfig()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "SERVER_PORT")

	cfg = defaultConfig()
	cfg.Server.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "SERVER_TIMEOUT")
}

func TestValidateLogging(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "LOGGING_LEVEL")

	cfg = defaultConfig()
	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "LOGGING_FORMAT")
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"cache section", "CACHE_MAX_ENTRIES", "cache.max_entries"},
		{"persistence section", "PERSISTENCE_BREAKER_TIMEOUT", "persistence.breaker_timeout"},
		{"server section", "SERVER_PORT", "server.port"},
		{"logging section", "LOGGING_LEVEL", "logging.level"},
		{"unrelated var skipped", "PATH", ""},
		{"unknown prefix skipped", "DATABASE_URL", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envTransformFunc(tt.in))
		})
	}
}

// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package config

import "fmt"

// Validate checks that the configuration is usable. Invalid cache bounds
// fail fast here rather than being silently defaulted, since a zero or
// negative capacity is always a caller bug.
func (c *Config) Validate() error {
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validatePersistence(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCache() error {
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive, got %s", c.Cache.DefaultTTL)
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be positive, got %s", c.Cache.SweepInterval)
	}
	return nil
}

func (c *Config) validatePersistence() error {
	if !c.Persistence.Enabled {
		return nil // memory-only mode needs no storage settings
	}
	if c.Persistence.Path == "" {
		return fmt.Errorf("PERSISTENCE_PATH is required when PERSISTENCE_ENABLED=true")
	}
	if c.Persistence.BreakerFailureThreshold < 0 {
		return fmt.Errorf("PERSISTENCE_BREAKER_FAILURE_THRESHOLD must not be negative, got %d",
			c.Persistence.BreakerFailureThreshold)
	}
	if c.Persistence.BreakerTimeout < 0 {
		return fmt.Errorf("PERSISTENCE_BREAKER_TIMEOUT must not be negative, got %s",
			c.Persistence.BreakerTimeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOGGING_LEVEL must be a known level, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOGGING_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

package config

import (
	"fmt"
	"time"
)

// SessionsConfig controls idle session eviction.
type SessionsConfig struct {
	IdleTimeout   string `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	SweepInterval string `toml:"sweep_interval" env:"SWEEP_INTERVAL"`
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *SessionsConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *SessionsConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// Merge overwrites non-zero fields from overlay.
func (c *SessionsConfig) Merge(overlay *SessionsConfig) {
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *SessionsConfig) loadDefaults() {
	if c.IdleTimeout == "" {
		c.IdleTimeout = "2h"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "5m"
	}
}

func (c *SessionsConfig) validate() error {
	if err := parseDuration("idle_timeout", c.IdleTimeout); err != nil {
		return err
	}
	if err := parseDuration("sweep_interval", c.SweepInterval); err != nil {
		return err
	}
	if c.IdleTimeoutDuration() > 0 && c.SweepIntervalDuration() <= 0 {
		return fmt.Errorf("sweep_interval must be positive when idle_timeout is set")
	}
	return nil
}

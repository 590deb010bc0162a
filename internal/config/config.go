package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	// EnvPrefix prefixes every environment override, e.g. ROHADS_SERVER_PORT.
	EnvPrefix = "ROHADS_"

	EnvRohadsEnv = "ROHADS_ENV"
)

// Config is the root configuration for the ROH-Ads service.
type Config struct {
	Server          ServerConfig     `toml:"server" envPrefix:"SERVER_"`
	API             APIConfig        `toml:"api" envPrefix:"API_"`
	Generation      GenerationConfig `toml:"generation" envPrefix:"GENERATION_"`
	Speech          SpeechConfig     `toml:"speech" envPrefix:"SPEECH_"`
	Sessions        SessionsConfig   `toml:"sessions" envPrefix:"SESSIONS_"`
	ShutdownTimeout string           `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	Version         string           `toml:"version" env:"VERSION"`
	LogLevel        string           `toml:"log_level" env:"LOG_LEVEL"`
}

// Env returns the ROHADS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRohadsEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Generation.Merge(&overlay.Generation)
	c.Speech.Merge(&overlay.Speech)
	c.Sessions.Merge(&overlay.Sessions)
}

func (c *Config) finalize() error {
	c.loadDefaults()

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Speech.validate(); err != nil {
		return fmt.Errorf("speech: %w", err)
	}
	if err := c.Sessions.validate(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Server.loadDefaults()
	c.API.loadDefaults()
	c.Generation.loadDefaults()
	c.Speech.loadDefaults()
	c.Sessions.loadDefaults()
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRohadsEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func parseDuration(field, value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}

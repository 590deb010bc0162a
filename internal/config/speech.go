package config

import (
	"fmt"
	"net/url"

	"github.com/JaimeStill/rohads/pkg/speech"
)

// SpeechConfig configures narration synthesis. Narration is on unless
// Enabled is explicitly false.
type SpeechConfig struct {
	Enabled   *bool  `toml:"enabled" env:"ENABLED"`
	BaseURL   string `toml:"base_url" env:"BASE_URL"`
	ChunkSize int    `toml:"chunk_size" env:"CHUNK_SIZE"`
}

// IsEnabled reports whether narration is available.
func (c *SpeechConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Translate returns the synthesizer config.
func (c *SpeechConfig) Translate() speech.TranslateConfig {
	return speech.TranslateConfig{
		BaseURL:   c.BaseURL,
		ChunkSize: c.ChunkSize,
	}
}

// Merge overwrites set fields from overlay.
func (c *SpeechConfig) Merge(overlay *SpeechConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
}

func (c *SpeechConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://translate.google.com"
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 100
	}
}

func (c *SpeechConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.ChunkSize < 1 || c.ChunkSize > 200 {
		return fmt.Errorf("chunk_size out of range: %d", c.ChunkSize)
	}
	return nil
}

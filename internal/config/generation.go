package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/JaimeStill/rohads/pkg/generation"
)

// GenerationConfig selects the generation transport and its sampling parameters.
// The API key itself is never stored in config; APIKeyEnv names the
// environment variable that holds it.
type GenerationConfig struct {
	Transport       string  `toml:"transport" env:"TRANSPORT"`
	Model           string  `toml:"model" env:"MODEL"`
	BaseURL         string  `toml:"base_url" env:"BASE_URL"`
	APIVersion      string  `toml:"api_version" env:"API_VERSION"`
	APIKeyEnv       string  `toml:"api_key_env" env:"API_KEY_ENV"`
	Temperature     float64 `toml:"temperature" env:"TEMPERATURE"`
	TopP            float64 `toml:"top_p" env:"TOP_P"`
	TopK            int     `toml:"top_k" env:"TOP_K"`
	MaxOutputTokens int     `toml:"max_output_tokens" env:"MAX_OUTPUT_TOKENS"`
}

// APIKey reads the credential from the environment variable named by APIKeyEnv.
func (c *GenerationConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Params returns the sampling parameters.
func (c *GenerationConfig) Params() generation.Params {
	return generation.Params{
		Temperature:     c.Temperature,
		TopP:            c.TopP,
		TopK:            c.TopK,
		MaxOutputTokens: c.MaxOutputTokens,
	}
}

// Client returns the generation client config.
func (c *GenerationConfig) Client() generation.Config {
	return generation.Config{
		Transport:  c.Transport,
		Model:      c.Model,
		BaseURL:    c.BaseURL,
		APIVersion: c.APIVersion,
		APIKey:     c.APIKey(),
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *GenerationConfig) Merge(overlay *GenerationConfig) {
	if overlay.Transport != "" {
		c.Transport = overlay.Transport
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.APIKeyEnv != "" {
		c.APIKeyEnv = overlay.APIKeyEnv
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != 0 {
		c.TopP = overlay.TopP
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.MaxOutputTokens != 0 {
		c.MaxOutputTokens = overlay.MaxOutputTokens
	}
}

func (c *GenerationConfig) loadDefaults() {
	defaults := generation.DefaultParams()

	if c.Transport == "" {
		c.Transport = generation.TransportSDK
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.APIVersion == "" {
		c.APIVersion = "v1beta"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Temperature == 0 {
		c.Temperature = defaults.Temperature
	}
	if c.TopP == 0 {
		c.TopP = defaults.TopP
	}
	if c.TopK == 0 {
		c.TopK = defaults.TopK
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = defaults.MaxOutputTokens
	}
}

func (c *GenerationConfig) validate() error {
	transports := []string{generation.TransportSDK, generation.TransportDirect}
	if !slices.Contains(transports, c.Transport) {
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("missing API key: set %s", c.APIKeyEnv)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %v", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p out of range: %v", c.TopP)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k cannot be negative: %d", c.TopK)
	}
	if c.MaxOutputTokens < 1 {
		return fmt.Errorf("max_output_tokens must be positive: %d", c.MaxOutputTokens)
	}
	return nil
}

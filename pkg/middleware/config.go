package middleware

import "fmt"

// CORSConfig holds CORS policy settings. Environment overrides are read
// through the env struct tags by the owning configuration's parser.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled" env:"ENABLED"`
	Origins          []string `toml:"origins" env:"ORIGINS" envSeparator:","`
	AllowedMethods   []string `toml:"allowed_methods" env:"ALLOWED_METHODS" envSeparator:","`
	AllowedHeaders   []string `toml:"allowed_headers" env:"ALLOWED_HEADERS" envSeparator:","`
	AllowCredentials bool     `toml:"allow_credentials" env:"ALLOW_CREDENTIALS"`
	MaxAge           int      `toml:"max_age" env:"MAX_AGE"`
}

// LoadDefaults fills unset fields with the default CORS policy.
func (c *CORSConfig) LoadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

// Validate rejects policies that cannot be applied.
func (c *CORSConfig) Validate() error {
	if c.Enabled && c.AllowCredentials {
		for _, origin := range c.Origins {
			if origin == "*" {
				return fmt.Errorf("wildcard origin cannot allow credentials")
			}
		}
	}
	return nil
}

// Merge overwrites fields from overlay. Boolean fields always apply; slice and int
// fields only apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

package api

import (
	"github.com/JaimeStill/rohads/internal/config"
	"github.com/JaimeStill/rohads/internal/infrastructure"
	"github.com/JaimeStill/rohads/pkg/generation"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Params        generation.Params
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Params:         cfg.Generation.Params(),
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
	}
}

// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, generation, speech, sessions) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/rohads/internal/config"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/pkg/generation"
	"github.com/JaimeStill/rohads/pkg/lifecycle"
	"github.com/JaimeStill/rohads/pkg/speech"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, the generation client, speech synthesis, and session state.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Generator generation.Client
	// Synthesizer is nil when speech is disabled.
	Synthesizer speech.Synthesizer
	Sessions    sessions.System

	sweep time.Duration
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	gen, err := generation.New(lc.Context(), cfg.Generation.Client(), logger)
	if err != nil {
		return nil, fmt.Errorf("generation init failed: %w", err)
	}

	var tts speech.Synthesizer
	if cfg.Speech.IsEnabled() {
		tts = speech.NewTranslate(cfg.Speech.Translate(), logger)
	}

	return &Infrastructure{
		Lifecycle:   lc,
		Logger:      logger,
		Generator:   gen,
		Synthesizer: tts,
		Sessions:    sessions.New(cfg.Sessions.IdleTimeoutDuration(), logger),
		sweep:       cfg.Sessions.SweepIntervalDuration(),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The session sweep is registered as a background loop stopped on shutdown.
func (i *Infrastructure) Start() error {
	i.Sessions.Start(i.Lifecycle, i.sweep)
	i.Logger.Info("infrastructure started",
		"transport", i.Generator.Transport(),
		"speech", i.Synthesizer != nil,
	)
	return nil
}

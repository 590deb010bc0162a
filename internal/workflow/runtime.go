package workflow

import (
	"log/slog"

	"github.com/JaimeStill/rohads/internal/narration"
	"github.com/JaimeStill/rohads/pkg/generation"
)

// Runtime bundles the dependencies stage execution requires.
// It is constructed by higher-level composition code from Infrastructure.
type Runtime struct {
	Generator generation.Client
	// Narrator is optional; when nil narration is never attempted.
	Narrator *narration.Pipeline
	Params   generation.Params
	Logger   *slog.Logger
}

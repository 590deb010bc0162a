package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
	"github.com/JaimeStill/rohads/internal/narration"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/pkg/generation"
)

// Domain errors for workflow operations.
var (
	ErrStageLocked   = errors.New("stage locked")
	ErrNotGenerating = errors.New("stage does not generate a result")
	ErrNoResult      = errors.New("no stored result for stage")
	ErrVoiceDisabled = errors.New("voice narration is disabled")
)

// LockedError carries the user-facing warning for a stage that cannot be entered.
type LockedError struct {
	Stage   marketing.Stage
	Warning string
}

func (e *LockedError) Error() string {
	return e.Warning
}

func (e *LockedError) Unwrap() error {
	return ErrStageLocked
}

// MapHTTPStatus maps workflow domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var failure *generation.Failure

	switch {
	case errors.As(err, &failure), errors.Is(err, narration.ErrNarration):
		return http.StatusBadGateway
	case errors.Is(err, ErrStageLocked),
		errors.Is(err, ErrVoiceDisabled),
		errors.Is(err, sessions.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNoResult), errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sessions.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotGenerating),
		errors.Is(err, marketing.ErrValidation),
		errors.Is(err, media.ErrUnsupportedKind),
		errors.Is(err, media.ErrInvalidSize):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

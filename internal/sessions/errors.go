package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
)

// Domain errors for session operations.
var (
	ErrNotFound       = errors.New("session not found")
	ErrBusy           = errors.New("a generation is already running for this session")
	ErrUploadTooLarge = errors.New("upload exceeds maximum size")
	ErrNoFiles        = errors.New("no files in upload")
)

// MapHTTPStatus maps session domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNoFiles),
		errors.Is(err, media.ErrUnsupportedKind),
		errors.Is(err, media.ErrInvalidSize),
		errors.Is(err, marketing.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

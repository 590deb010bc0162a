package marketing

import "errors"

// ErrValidation marks input that fails a required-field or enumeration check.
// Wrapped errors carry the user-facing message.
var ErrValidation = errors.New("validation failed")

func invalid(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Unwrap() error {
	return ErrValidation
}

package core

import "github.com/pkg/errors"

// FieldError ties an error message to a single input field,
// eg. a time slot's "room" on a schedule conflict.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is reported to API clients as a 400 with the field errors
// mapped out, or the bare message when no field is at fault.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable integrity issue; the server
// initiates a graceful shutdown when it catches one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

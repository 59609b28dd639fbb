// Package apperr defines the error taxonomy shared by both repository
// implementations, the fixture server and the view layer.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")

	// ErrInvalidArgument is the name the query pipeline uses for caller errors.
	ErrInvalidArgument = ErrValidation
)

// Error carries a human-readable message alongside its kind. Message is what
// the user sees; Kind is what callers match with errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) error   { return newError(ErrValidation, msg) }
func Conflict(msg string) error     { return newError(ErrConflict, msg) }
func Unauthorized(msg string) error { return newError(ErrUnauthorized, msg) }
func Forbidden(msg string) error    { return newError(ErrForbidden, msg) }
func NotFound(msg string) error     { return newError(ErrNotFound, msg) }
func Internal(msg string) error     { return newError(ErrInternal, msg) }

// Message returns the text to surface to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// Kind returns the taxonomy sentinel for err, or ErrInternal when err does
// not belong to the taxonomy.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrForbidden, ErrNotFound} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// HTTPStatus maps err onto the status code the REST surface uses for it.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus converts an HTTP error response back into the taxonomy.
func FromStatus(code int, msg string) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return Validation(msg)
	case http.StatusConflict:
		return Conflict(msg)
	case http.StatusUnauthorized:
		return Unauthorized(msg)
	case http.StatusForbidden:
		return Forbidden(msg)
	case http.StatusNotFound:
		return NotFound(msg)
	default:
		return Internal(msg)
	}
}

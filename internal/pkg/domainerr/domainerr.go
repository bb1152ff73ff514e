// Package domainerr holds the error taxonomy shared by every relationship component.
// Domain packages wrap these sentinels with their own messages, so callers can match
// either the specific error or its category with errors.Is.
package domainerr

import (
	"errors"
	"net/http"
)

var (
	ErrDuplicateRelation   = errors.New("duplicate relation")
	ErrDuplicateMembership = errors.New("duplicate membership")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
)

// Code returns the API error code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateRelation):
		return "DUPLICATE_RELATION"
	case errors.Is(err, ErrDuplicateMembership):
		return "DUPLICATE_MEMBERSHIP"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrInvalidTarget):
		return "INVALID_TARGET"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateRelation), errors.Is(err, ErrDuplicateMembership):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err belongs to the shared taxonomy.
func IsDomain(err error) bool {
	return Code(err) != "INTERNAL_ERROR"
}

// causeError pairs a client-facing domain error with the storage error behind it.
type causeError struct {
	public error
	cause  error
}

func (e *causeError) Error() string {
	return e.public.Error() + ": " + e.cause.Error()
}

func (e *causeError) Unwrap() []error {
	return []error{e.public, e.cause}
}

// WithCause wraps cause behind public. errors.Is matches both, while Message only
// reports public.
func WithCause(public, cause error) error {
	return &causeError{public: public, cause: cause}
}

// Message returns the text safe to send to clients: the public part of the first
// WithCause error in the chain, or err's own text.
func Message(err error) string {
	var ce *causeError
	if errors.As(err, &ce) {
		return ce.public.Error()
	}
	return err.Error()
}

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the service layer. Handlers map these onto HTTP
// status codes; everything else surfaces as a 500.
var (
	// ErrNotFound covers both a missing target and a target owned by a
	// different user. The two cases are deliberately indistinguishable so
	// that probing ids cannot reveal other tenants' data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed or out-of-bounds request input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means no valid authenticated session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is reserved for stale-version rejections when a caller
	// opts into per-record versioned updates.
	ErrConflict = errors.New("conflict")
)

// StatusError carries an HTTP status code and an error type tag through the
// fiber error handler.
type StatusError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// InvalidInputf wraps ErrInvalidInput with a caller-facing message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized indicates a missing, invalid, or expired session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates the caller exceeded an attempt window.
	ErrRateLimited = errors.New("too many attempts")
)

// ValidationError carries a client-facing message for malformed input,
// optionally with the offending values (e.g. unknown SKUs).
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Missing, ", "))
	}
	return e.Message
}

// Invalid builds a plain ValidationError.
func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UpstreamError wraps a failure from the platform or checkout provider.
// Message is considered safe to surface to clients.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err with a client-safe message.
func Upstream(message string, err error) *UpstreamError {
	return &UpstreamError{Message: message, Err: err}
}

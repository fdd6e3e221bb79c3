package provider

import (
	"errors"
	"fmt"
)

// ErrStreamInterrupted marks a backend stream that failed after it was
// opened. Errors returned by ChunkSource.Recv for mid-stream failures wrap it.
var ErrStreamInterrupted = errors.New("backend stream interrupted")

// BackendError reports a backend invocation that could not be started:
// authentication, throttling, a synchronously rejected request, or a
// network failure before the stream opened.
type BackendError struct {
	// Provider is the name of the provider that failed.
	Provider string

	// StatusCode is the backend HTTP status, or 0 when none was received.
	StatusCode int

	// Message is a short description of the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Interrupted wraps err so that it matches ErrStreamInterrupted.
func Interrupted(err error) error {
	if err == nil {
		return ErrStreamInterrupted
	}
	return fmt.Errorf("%w: %w", ErrStreamInterrupted, err)
}

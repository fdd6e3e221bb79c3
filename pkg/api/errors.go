package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeServerError        ErrorType = "server_error"
	ErrorTypeInvalidRequest     ErrorType = "invalid_request"
	ErrorTypeBackendUnavailable ErrorType = "backend_unavailable"
	ErrorTypeStreamInterrupted  ErrorType = "stream_interrupted"
)

// APIError represents a structured API error with type, code, param, and message.
// Cause holds the underlying error for server-side logging and is never
// serialized to the client.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Param != "" {
		msg = fmt.Sprintf("%s (param: %s)", msg, e.Param)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewBackendUnavailableError creates an APIError for a backend invocation
// that could not be started.
func NewBackendUnavailableError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeBackendUnavailable,
		Message: "backend invocation could not be started",
		Cause:   cause,
	}
}

// NewStreamInterruptedError creates an APIError for a backend stream that
// failed after it was opened.
func NewStreamInterruptedError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeStreamInterrupted,
		Message: "backend stream interrupted",
		Cause:   cause,
	}
}

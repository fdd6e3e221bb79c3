package openaicompat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rhuss/slipstream/pkg/provider"
)

// mapHTTPError converts an HTTP response with a non-2xx status code into a
// BackendError. It attempts to parse the response body as an errorResponse
// to extract a descriptive message.
func mapHTTPError(resp *http.Response) *provider.BackendError {
	message := extractErrorMessage(resp.Body)

	if message == "" {
		switch {
		case resp.StatusCode == http.StatusBadRequest:
			message = "invalid request to backend"
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			message = "backend authentication failed"
		case resp.StatusCode == http.StatusNotFound:
			message = "backend resource not found"
		case resp.StatusCode == http.StatusTooManyRequests:
			message = "backend rate limit exceeded"
		case resp.StatusCode >= http.StatusInternalServerError:
			message = "backend server error"
		default:
			message = "unexpected backend error"
		}
	}

	return &provider.BackendError{
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// mapNetworkError converts a network-level error (connection refused, timeout,
// DNS resolution failure) into a BackendError.
func mapNetworkError(err error) *provider.BackendError {
	return &provider.BackendError{
		Provider: providerName,
		Message:  "backend connection error",
		Cause:    err,
	}
}

// extractErrorMessage tries to parse the response body as an errorResponse
// and returns the error message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return fmt.Sprintf("%.200s", data)
}

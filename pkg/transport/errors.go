package transport

import (
	"encoding/json"
	"net/http"

	"github.com/rhuss/slipstream/pkg/api"
)

// statusByType is the HTTP status for each error type when the error
// happens before the event stream opens.
var statusByType = map[api.ErrorType]int{
	api.ErrorTypeInvalidRequest:     http.StatusBadRequest,
	api.ErrorTypeBackendUnavailable: http.StatusTooManyRequests,
	api.ErrorTypeStreamInterrupted:  http.StatusInternalServerError,
	api.ErrorTypeServerError:        http.StatusInternalServerError,
}

// HTTPStatusFromError returns the status for apiErr's type, 500 for
// unknown types.
func HTTPStatusFromError(apiErr *api.APIError) int {
	if status, ok := statusByType[apiErr.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteErrorResponse writes apiErr as a {"error": {...}} JSON body with
// the given status.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError rejects a request that never opened a stream. Backend
// unavailability gets its status with an empty body, so nothing about the
// backend reaches the caller; every other type gets a JSON error body.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	status := HTTPStatusFromError(apiErr)
	if apiErr.Type == api.ErrorTypeBackendUnavailable {
		w.WriteHeader(status)
		return
	}
	WriteErrorResponse(w, apiErr, status)
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobs-portal/internal/backend"
	"jobs-portal/internal/portal"
)

// ErrorBody is the payload of every JSON error the API writes.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// APIError wraps ErrorBody as {"error": {...}}.
type APIError struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, APIError{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	}})
}

// serviceStatus maps an error from the portal service to an HTTP status and
// error code. fallback is the code for backend failures that are not 404s.
func serviceStatus(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, portal.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown_category"
	case backend.IsNotFound(err):
		return http.StatusNotFound, "job_not_found"
	default:
		return http.StatusBadGateway, fallback
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, code := serviceStatus(err, fallback)
	WriteError(w, r, status, code, err.Error())
}

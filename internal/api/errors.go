package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xaenox/chatlog-analytics/internal/storage"
)

type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrorTypeInternal    ErrorType = "INTERNAL"
)

// apiError is the JSON error body.
type apiError struct {
	Type       ErrorType `json:"error"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
}

func (e *apiError) Error() string {
	return string(e.Type) + ": " + e.Message
}

func validationError(message string) *apiError {
	return &apiError{Type: ErrorTypeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// toAPIError maps service errors onto HTTP responses. Store failures are
// reported as 503 so callers can tell them apart from an empty result.
func toAPIError(err error) *apiError {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, storage.ErrUpstreamUnavailable):
		return &apiError{Type: ErrorTypeUnavailable, Message: "event store unavailable", HTTPStatus: http.StatusServiceUnavailable}
	case errors.Is(err, storage.ErrNotFound):
		return &apiError{Type: ErrorTypeNotFound, Message: err.Error(), HTTPStatus: http.StatusNotFound}
	case errors.Is(err, storage.ErrInvalidClick):
		return validationError(err.Error())
	default:
		return &apiError{Type: ErrorTypeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError}
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	ae := toAPIError(err)
	respondJSON(w, ae.HTTPStatus, ae)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "herdscope/pkg/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Kind    string `json:"kind" example:"NOT_FOUND"`
	Message string `json:"message" example:"product 7 not found"`
}

var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrorTypeInvalidSortKey:  http.StatusBadRequest,
	apperrors.ErrorTypeValidation:      http.StatusBadRequest,
	apperrors.ErrorTypeNotFound:        http.StatusNotFound,
	apperrors.ErrorTypeEmptyDataset:    http.StatusUnprocessableEntity,
	apperrors.ErrorTypeDeliveryFailure: http.StatusBadGateway,
	apperrors.ErrorTypeDataUnavailable: http.StatusServiceUnavailable,
	apperrors.ErrorTypeUnavailable:     http.StatusServiceUnavailable,
}

// StatusFor maps an error type to its HTTP status.
func StatusFor(t apperrors.ErrorType) int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func errorBody(err error) (int, ErrorResponse) {
	kind := apperrors.TypeOf(err)
	status := StatusFor(kind)

	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Internal error")
		message = "internal server error"
	}

	return status, ErrorResponse{Status: "error", Kind: string(kind), Message: message}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, body)
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, apperrors.NewNotFoundError("route "+r.URL.Path+" not found"))
}

// MethodNotAllowed answers requests with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Status:  "error",
		Kind:    "METHOD_NOT_ALLOWED",
		Message: r.Method + " is not allowed on " + r.URL.Path,
	})
}

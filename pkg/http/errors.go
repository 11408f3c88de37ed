package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Timestamp string            `json:"timestamp"`
	Message   string            `json:"message"`
	Status    int               `json:"status"`
	Errors    map[string]string `json:"errors,omitempty"` // field -> message, validation only
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeErrorBody(w, statusCode, message, nil)
}

// WriteValidationErrors writes a 400 response carrying a field->message map.
func WriteValidationErrors(w http.ResponseWriter, errors map[string]string) {
	writeErrorBody(w, http.StatusBadRequest, "Validation failed", errors)
}

func writeErrorBody(w http.ResponseWriter, statusCode int, message string, errors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Message:   message,
		Status:    statusCode,
		Errors:    errors,
	}

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(resp)
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError writes a generic 500. Internal details never reach
// the client; callers log them instead.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
}

// WriteJSON writes a success response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// Package api provides HTTP handlers for the intake API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// EngineError maps an engine or assembler error to its HTTP status and
// writes the response. Status mapping is a presentation concern; the core
// packages only know the error taxonomy.
func EngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		Error(w, http.StatusBadRequest, "Missing required fields.")
	case errors.Is(err, domain.ErrInvalidOption):
		Error(w, http.StatusBadRequest, "Invalid option.")
	case errors.Is(err, domain.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "Session not found.")
	default:
		Error(w, http.StatusInternalServerError, "Server error.")
	}
}

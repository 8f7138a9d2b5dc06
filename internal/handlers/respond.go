package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eventflow/internal/models"
	"eventflow/internal/services"
)

// Development controls whether internal error detail is echoed to clients.
// Production responses carry a generic message and the detail goes to the log.
var Development bool

// envelope is the uniform response shape: a human-readable message plus an
// optional payload.
type envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Message: message, Data: data}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps a domain error to an HTTP status. Precondition failures
// keep their message; unexpected errors are logged and masked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case models.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, models.ErrInvalidResetToken):
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, err.Error(), nil)
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, err.Error(), nil)
	case models.IsConflict(err):
		writeJSON(w, http.StatusConflict, err.Error(), nil)
	default:
		log.Printf("Internal error on %s %s: %v", r.Method, r.URL.Path, err)
		message := "internal server error"
		if Development {
			message = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, message, nil)
	}
}

// idParam parses a numeric URL parameter
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("invalid " + name)
	}
	return id, nil
}

// decodeJSON decodes a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("invalid request body")
	}
	return nil
}

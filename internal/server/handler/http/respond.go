// Package http provides the HTTP handlers and routing for the
// noteshare API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronin/noteshare/internal/models"
)

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its status code and writes it as a
// JSON message. Errors outside the domain taxonomy are reported as an
// opaque internal error.
func writeError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, models.ErrNoteNotFound):
		code = http.StatusNotFound
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrIdentityNotFound):
		code = http.StatusBadRequest
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrAlreadyShared):
		code = http.StatusConflict
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	writeJSON(w, code, map[string]string{"message": err.Error()})
}

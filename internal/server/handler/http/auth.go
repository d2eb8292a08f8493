package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avoronin/noteshare/internal/models"
)

// AuthService defines the identity operations required by the HTTP
// handlers.
type AuthService interface {
	// Register creates a new identity and returns it with a bearer token.
	Register(ctx context.Context, name, email, password string) (*models.Identity, string, error)
	// Login verifies credentials and returns the identity with a bearer token.
	Login(ctx context.Context, email, password string) (*models.Identity, string, error)
}

// AuthHandler handles HTTP requests for identity registration and login.
type AuthHandler struct {
	// AuthService performs the underlying identity operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the JSON body returned by both auth endpoints. The
// identity's password hash never serializes.
type authResponse struct {
	Token string           `json:"token"`
	User  *models.Identity `json:"user"`
}

// Register handles POST /api/auth/register. It expects a JSON body with
// name, email, and password, and returns the created identity and a
// signed bearer token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ident, token, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: ident})
}

// Login handles POST /api/auth/login. It verifies the email/password
// pair and returns the identity and a fresh bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ident, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: ident})
}

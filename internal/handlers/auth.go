package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string, rememberMe bool, presentedSessionID string) (*services.LoginResult, error)
	Logout(sessionID string)
	Register(ctx context.Context, username, password, email string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service            AuthServiceInterface
	cookies            session.CookieConfig
	rememberMeValidity time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, cookies session.CookieConfig, rememberMeValidity time.Duration) *AuthHandler {
	return &AuthHandler{
		service:            service,
		cookies:            cookies,
		rememberMeValidity: rememberMeValidity,
	}
}

// Request/Response DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=100"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			pkghttp.WriteConflict(w, "Username already exists")
		case errors.Is(err, services.ErrEmailTaken):
			pkghttp.WriteConflict(w, "Email already exists")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "User with these credentials already exists")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w)
		default:
			// Password policy violations and other input problems.
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, AuthResponse{
		Success:  true,
		Message:  "User registered successfully",
		Username: user.Username,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	// A session ID the client already holds is rotated away by the
	// service regardless of whether it is valid.
	presentedSessionID, _ := session.GetSessionCookie(r)

	result, err := h.service.Login(r.Context(), req.Username, req.Password, req.RememberMe, presentedSessionID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			pkghttp.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	session.SetSessionCookie(w, result.Session.ID, h.cookies)
	if result.RememberMeToken != "" {
		session.SetRememberMeCookie(w, result.RememberMeToken, h.rememberMeValidity, h.cookies)
	}

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Success:  true,
		Message:  "Authentication successful",
		Token:    result.Session.ID,
		Username: result.User.Username,
	})
}

// Logout handles POST /api/auth/logout. It is public and idempotent:
// a request without a session (or with a dead one) still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, err := session.GetSessionCookie(r); err == nil {
		h.service.Logout(sessionID)
	}

	session.ClearSessionCookie(w, h.cookies)
	session.ClearRememberMeCookie(w, h.cookies)

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logout successful",
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Success:  true,
		Message:  "User authenticated",
		Username: principal.Username,
	})
}

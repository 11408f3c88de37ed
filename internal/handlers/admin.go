package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/session"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// AdminServiceInterface defines the interface for administrative operations
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ToggleEnabled(ctx context.Context, userID string) (*models.User, error)
}

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// UserResponse represents a user in administrative responses. The
// password hash never leaves the server.
type UserResponse struct {
	ID                    string `json:"id"`
	Username              string `json:"username"`
	Email                 string `json:"email"`
	Role                  string `json:"role"`
	Enabled               bool   `json:"enabled"`
	AccountNonExpired     bool   `json:"accountNonExpired"`
	AccountNonLocked      bool   `json:"accountNonLocked"`
	CredentialsNonExpired bool   `json:"credentialsNonExpired"`
	CreatedAt             string `json:"createdAt"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:                    user.ID,
		Username:              user.Username,
		Email:                 user.Email,
		Role:                  user.Role,
		Enabled:               user.Enabled,
		AccountNonExpired:     user.AccountNonExpired,
		AccountNonLocked:      user.AccountNonLocked,
		CredentialsNonExpired: user.CredentialsNonExpired,
		CreatedAt:             user.CreatedAt.Format(time.RFC3339),
	}
}

func userModelsToResponses(users []*models.User) []*UserResponse {
	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userModelToResponse(user))
	}
	return responses
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.PrincipalFrom(r.Context()); !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelsToResponses(users))
}

// ToggleUserEnabled handles PUT /api/admin/users/{id}/enable
func (h *AdminHandler) ToggleUserEnabled(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.PrincipalFrom(r.Context()); !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		pkghttp.WriteBadRequest(w, "User ID is required")
		return
	}

	user, err := h.service.ToggleEnabled(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

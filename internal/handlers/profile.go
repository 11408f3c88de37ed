package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// ProfileServiceInterface defines the interface for profile business logic
type ProfileServiceInterface interface {
	Get(ctx context.Context, ownerID string) (*models.Profile, error)
	Update(ctx context.Context, ownerID string, draft services.ProfileDraft) (*models.Profile, error)
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ProfileRequest represents the request body for updating a profile
type ProfileRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=100"`
}

// ProfileResponse represents a profile in the HTTP response
type ProfileResponse struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username"`
}

func profileModelToResponse(profile *models.Profile, username string) *ProfileResponse {
	return &ProfileResponse{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Username:  username,
	}
}

// GetProfile handles GET /api/profile. A user who has never saved a
// profile gets an empty one back, not a 404.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Get(r.Context(), principal.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profileModelToResponse(profile, principal.Username))
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	profile, err := h.service.Update(r.Context(), principal.UserID, services.ProfileDraft{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteConflict(w, "Email already exists")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profileModelToResponse(profile, principal.Username))
}

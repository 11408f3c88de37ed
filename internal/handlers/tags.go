package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// TagServiceInterface defines the interface for tag business logic
type TagServiceInterface interface {
	List(ctx context.Context, ownerID string) ([]*models.Tag, error)
	Get(ctx context.Context, ownerID, tagID string) (*models.Tag, error)
	Create(ctx context.Context, ownerID string, draft services.TagDraft) (*models.Tag, error)
	Update(ctx context.Context, ownerID, tagID string, draft services.TagDraft) (*models.Tag, error)
	Delete(ctx context.Context, ownerID, tagID string) error
	Search(ctx context.Context, ownerID, query string) ([]*models.Tag, error)
	Count(ctx context.Context, ownerID string) (int64, error)
}

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	service TagServiceInterface
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(service TagServiceInterface) *TagHandler {
	return &TagHandler{service: service}
}

// TagRequest represents the request body for creating/updating a tag
type TagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// TagResponse represents a tag in the HTTP response
type TagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TagCountResponse represents the tag count for a user
type TagCountResponse struct {
	Count int64 `json:"count"`
}

func tagModelToResponse(tag *models.Tag) *TagResponse {
	return &TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: tag.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func tagModelsToResponses(tags []*models.Tag) []*TagResponse {
	responses := make([]*TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tagModelToResponse(tag))
	}
	return responses
}

// ListTags handles GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tags, err := h.service.List(r.Context(), principal.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tagModelsToResponses(tags))
}

// GetTag handles GET /api/tags/{id}
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tag, err := h.service.Get(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Tag not found")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tagModelToResponse(tag))
}

// CreateTag handles POST /api/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	tag, err := h.service.Create(r.Context(), principal.UserID, services.TagDraft{Name: req.Name, Color: req.Color})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Tag with this name already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Tag name is required")
		default:
			pkghttp.WriteInternalError(w)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, tagModelToResponse(tag))
}

// UpdateTag handles PUT /api/tags/{id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	tag, err := h.service.Update(r.Context(), principal.UserID, chi.URLParam(r, "id"), services.TagDraft{Name: req.Name, Color: req.Color})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Tag not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Tag with this name already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Tag name is required")
		default:
			pkghttp.WriteInternalError(w)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tagModelToResponse(tag))
}

// DeleteTag handles DELETE /api/tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Tag not found")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchTags handles GET /api/tags/search?q=
func (h *TagHandler) SearchTags(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tags, err := h.service.Search(r.Context(), principal.UserID, r.URL.Query().Get("q"))
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, tagModelsToResponses(tags))
}

// CountTags handles GET /api/tags/count
func (h *TagHandler) CountTags(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.service.Count(r.Context(), principal.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TagCountResponse{Count: count})
}

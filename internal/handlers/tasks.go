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

// TaskServiceInterface defines the interface for task business logic
type TaskServiceInterface interface {
	List(ctx context.Context, ownerID string) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Create(ctx context.Context, ownerID string, draft services.TaskDraft) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, draft services.TaskDraft) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskRequest represents the request body for creating/updating a task
type TaskRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	TagIDs      []string `json:"tagIds"`
}

// TaskResponse represents a task in the HTTP response
type TaskResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Tags        []*TagResponse `json:"tags"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

func taskModelToResponse(task *models.Task) *TaskResponse {
	tags := make([]*TagResponse, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, tagModelToResponse(tag))
	}

	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Tags:        tags,
		CreatedAt:   task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   task.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (r TaskRequest) toDraft() services.TaskDraft {
	return services.TaskDraft{
		Title:       r.Title,
		Description: r.Description,
		Status:      models.TaskStatus(r.Status),
		TagIDs:      r.TagIDs,
	}
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	tasks, err := h.service.List(r.Context(), principal.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w)
		return
	}

	responses := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskModelToResponse(task))
	}

	pkghttp.WriteJSON(w, http.StatusOK, responses)
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	task, err := h.service.Get(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Task not found")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, taskModelToResponse(task))
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	task, err := h.service.Create(r.Context(), principal.UserID, req.toDraft())
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Title is required")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, taskModelToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := ValidateRequest(req); errs != nil {
		pkghttp.WriteValidationErrors(w, errs)
		return
	}

	task, err := h.service.Update(r.Context(), principal.UserID, chi.URLParam(r, "id"), req.toDraft())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Task not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Title is required")
		default:
			pkghttp.WriteInternalError(w)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, taskModelToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFrom(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Task not found")
			return
		}
		pkghttp.WriteInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

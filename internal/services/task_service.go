package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nsavelev/tasktracker/internal/models"
)

// TaskRepository defines the storage operations for tasks. Every method
// is owner-scoped; the repository treats a mismatched owner the same as
// a missing row.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	GetByIDForOwner(ctx context.Context, taskID, ownerID string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) error
}

// TagResolver resolves tag IDs to tags owned by a given user.
type TagResolver interface {
	GetByIDsForOwner(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error)
}

// TaskDraft is the write payload for create and update.
type TaskDraft struct {
	Title       string
	Description string
	Status      models.TaskStatus
	TagIDs      []string
}

// TaskService owns task business logic. Every operation takes the
// resolved owner ID explicitly.
type TaskService struct {
	tasks  TaskRepository
	tags   TagResolver
	logger *slog.Logger
}

func NewTaskService(tasks TaskRepository, tags TagResolver, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		tags:   tags,
		logger: logger,
	}
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByIDForOwner(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get task", slog.String("task_id", taskID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID string, draft TaskDraft) (*models.Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, models.ErrBadRequest
	}

	status := draft.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, models.ErrBadRequest
	}

	tags, err := s.resolveOwnedTags(ctx, ownerID, draft.TagIDs)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       title,
		Description: draft.Description,
		Status:      status,
		Tags:        tags,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error("failed to create task", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("task created", slog.String("task_id", created.ID), slog.String("user_id", ownerID))

	return created, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, draft TaskDraft) (*models.Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, models.ErrBadRequest
	}

	status := draft.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, models.ErrBadRequest
	}

	tags, err := s.resolveOwnedTags(ctx, ownerID, draft.TagIDs)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       title,
		Description: draft.Description,
		Status:      status,
		Tags:        tags,
	}

	updated, err := s.tasks.Update(ctx, taskID, ownerID, task)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update task", slog.String("task_id", taskID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete task", slog.String("task_id", taskID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("task deleted", slog.String("task_id", taskID), slog.String("user_id", ownerID))

	return nil
}

// resolveOwnedTags maps the requested tag IDs to tags the owner
// actually holds. IDs belonging to another user (or to nothing) are
// silently dropped rather than rejected, so a crafted request can
// neither attach nor probe another tenant's tags.
func (s *TaskService) resolveOwnedTags(ctx context.Context, ownerID string, tagIDs []string) ([]*models.Tag, error) {
	if len(tagIDs) == 0 {
		return []*models.Tag{}, nil
	}

	tags, err := s.tags.GetByIDsForOwner(ctx, tagIDs, ownerID)
	if err != nil {
		s.logger.Error("failed to resolve tags", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tags, nil
}

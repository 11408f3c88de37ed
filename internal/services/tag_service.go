package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nsavelev/tasktracker/internal/models"
)

// TagRepository defines the storage operations for tags.
type TagRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Tag, error)
	GetByIDForOwner(ctx context.Context, tagID, ownerID string) (*models.Tag, error)
	GetByIDsForOwner(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error)
	ExistsByNameForOwner(ctx context.Context, name, ownerID string) (bool, error)
	SearchByName(ctx context.Context, ownerID, substring string) ([]*models.Tag, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	Update(ctx context.Context, tagID, ownerID string, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, tagID, ownerID string) error
}

// TagDraft is the write payload for create and update.
type TagDraft struct {
	Name  string
	Color string
}

// TagService owns tag business logic, including the per-owner name
// uniqueness rule: an optimistic existence pre-check backed by the
// database unique constraint for the concurrent-write race.
type TagService struct {
	tags   TagRepository
	logger *slog.Logger
}

func NewTagService(tags TagRepository, logger *slog.Logger) *TagService {
	return &TagService{
		tags:   tags,
		logger: logger,
	}
}

func (s *TagService) List(ctx context.Context, ownerID string) ([]*models.Tag, error) {
	tags, err := s.tags.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, ownerID, tagID string) (*models.Tag, error) {
	tag, err := s.tags.GetByIDForOwner(ctx, tagID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get tag", slog.String("tag_id", tagID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, ownerID string, draft TagDraft) (*models.Tag, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, models.ErrBadRequest
	}

	taken, err := s.tags.ExistsByNameForOwner(ctx, name, ownerID)
	if err != nil {
		s.logger.Error("failed to check tag name", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if taken {
		return nil, models.ErrConflict
	}

	color := draft.Color
	if color == "" {
		color = models.DefaultTagColor
	}

	tag := &models.Tag{
		UserID: ownerID,
		Name:   name,
		Color:  color,
	}

	created, err := s.tags.Create(ctx, tag)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Constraint fallback for the pre-check race.
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create tag", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("tag created", slog.String("tag_id", created.ID), slog.String("user_id", ownerID))

	return created, nil
}

func (s *TagService) Update(ctx context.Context, ownerID, tagID string, draft TagDraft) (*models.Tag, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, models.ErrBadRequest
	}

	existing, err := s.tags.GetByIDForOwner(ctx, tagID, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get tag", slog.String("tag_id", tagID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if existing.Name != name {
		taken, err := s.tags.ExistsByNameForOwner(ctx, name, ownerID)
		if err != nil {
			s.logger.Error("failed to check tag name", slog.String("user_id", ownerID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if taken {
			return nil, models.ErrConflict
		}
	}

	color := draft.Color
	if color == "" {
		color = existing.Color
	}

	updated, err := s.tags.Update(ctx, tagID, ownerID, &models.Tag{Name: name, Color: color})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			return nil, models.ErrConflict
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update tag", slog.String("tag_id", tagID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return updated, nil
}

// Delete removes a tag after detaching it from all of the owner's
// tasks. The repository performs both steps in one transaction.
func (s *TagService) Delete(ctx context.Context, ownerID, tagID string) error {
	if err := s.tags.Delete(ctx, tagID, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete tag", slog.String("tag_id", tagID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("tag deleted", slog.String("tag_id", tagID), slog.String("user_id", ownerID))

	return nil
}

// Search returns the owner's tags whose name contains the query,
// case-insensitively.
func (s *TagService) Search(ctx context.Context, ownerID, query string) ([]*models.Tag, error) {
	tags, err := s.tags.SearchByName(ctx, ownerID, query)
	if err != nil {
		s.logger.Error("failed to search tags", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return tags, nil
}

func (s *TagService) Count(ctx context.Context, ownerID string) (int64, error) {
	count, err := s.tags.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to count tags", slog.String("user_id", ownerID), slog.Any("error", err))
		return 0, models.ErrInternalServer
	}
	return count, nil
}

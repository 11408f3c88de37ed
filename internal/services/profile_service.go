package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nsavelev/tasktracker/internal/models"
)

// ProfileRepository defines the storage operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

// ProfileDraft is the write payload for profile updates.
type ProfileDraft struct {
	FirstName string
	LastName  string
	Email     string
}

// ProfileService owns the lazily created one-to-one profile extension.
type ProfileService struct {
	profiles ProfileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// Get returns the user's profile, or an empty one if none has been
// created yet. A missing profile is never a not-found error.
func (s *ProfileService) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.Profile{UserID: ownerID}, nil
		}
		s.logger.Error("failed to get profile", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return profile, nil
}

// Update upserts the profile. A profile-email collision with another
// user surfaces as a conflict.
func (s *ProfileService) Update(ctx context.Context, ownerID string, draft ProfileDraft) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:    ownerID,
		FirstName: strings.TrimSpace(draft.FirstName),
		LastName:  strings.TrimSpace(draft.LastName),
		Email:     strings.ToLower(strings.TrimSpace(draft.Email)),
	}

	updated, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to update profile", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.String("user_id", ownerID))

	return updated, nil
}

package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsavelev/tasktracker/internal/models"
)

func TestProfileService_Get_Existing(t *testing.T) {
	profile := &models.Profile{ID: "profile1", UserID: "user123", FirstName: "Alice"}

	svc := NewProfileService(&MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return profile, nil
		},
	}, slog.Default())

	result, err := svc.Get(context.Background(), "user123")

	require.NoError(t, err)
	assert.Equal(t, "Alice", result.FirstName)
}

func TestProfileService_Get_MissingReturnsEmpty(t *testing.T) {
	svc := NewProfileService(&MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, models.ErrNotFound
		},
	}, slog.Default())

	result, err := svc.Get(context.Background(), "user123")

	require.NoError(t, err)
	assert.Equal(t, "user123", result.UserID)
	assert.Empty(t, result.ID)
	assert.Empty(t, result.FirstName)
}

func TestProfileService_Update_Success(t *testing.T) {
	svc := NewProfileService(&MockProfileRepository{
		UpsertFunc: func(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
			profile.ID = "profile1"
			return profile, nil
		},
	}, slog.Default())

	result, err := svc.Update(context.Background(), "user123", ProfileDraft{
		FirstName: " Alice ",
		LastName:  "Smith",
		Email:     "Alice@Example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", result.FirstName)
	assert.Equal(t, "alice@example.com", result.Email)
}

func TestProfileService_Update_EmailConflict(t *testing.T) {
	svc := NewProfileService(&MockProfileRepository{
		UpsertFunc: func(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
			return nil, models.ErrConflict
		},
	}, slog.Default())

	_, err := svc.Update(context.Background(), "user123", ProfileDraft{Email: "taken@example.com"})

	assert.ErrorIs(t, err, models.ErrConflict)
}

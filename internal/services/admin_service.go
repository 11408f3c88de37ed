package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nsavelev/tasktracker/internal/models"
)

// AdminUserRepository defines the user operations available to admins.
type AdminUserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	ToggleEnabled(ctx context.Context, id string) (*models.User, error)
}

// SessionRevoker invalidates all live sessions of a user.
type SessionRevoker interface {
	DestroyAllForUser(userID string) int
}

// AdminService exposes user administration: listing accounts and
// toggling the enabled flag.
type AdminService struct {
	users    AdminUserRepository
	sessions SessionRevoker
	logger   *slog.Logger
}

func NewAdminService(users AdminUserRepository, sessions SessionRevoker, logger *slog.Logger) *AdminService {
	return &AdminService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// ToggleEnabled flips the enabled flag of an account. Disabling an
// account revokes its live sessions immediately; the gate's
// per-request account-state check covers any stragglers.
func (s *AdminService) ToggleEnabled(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.ToggleEnabled(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to toggle user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	revoked := 0
	if !user.Enabled {
		revoked = s.sessions.DestroyAllForUser(user.ID)
	}

	s.logger.Info("user enabled flag toggled",
		slog.String("user_id", user.ID),
		slog.Bool("enabled", user.Enabled),
		slog.Int("sessions_revoked", revoked),
	)

	return user, nil
}

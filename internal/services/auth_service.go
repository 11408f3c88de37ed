package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/session"
	pkgauth "github.com/nsavelev/tasktracker/pkg/auth"
	pkglogger "github.com/nsavelev/tasktracker/pkg/logger"
)

// Registration conflicts are distinguished so the client can say which
// field collided; login failures are deliberately not.
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// UserRepository defines the credential-store operations the auth flow needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// AuthService handles registration, login, and logout.
type AuthService struct {
	users      UserRepository
	sessions   *session.Manager
	rememberMe *session.RememberMeService
	logger     *slog.Logger
}

func NewAuthService(users UserRepository, sessions *session.Manager, rememberMe *session.RememberMeService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		rememberMe: rememberMe,
		logger:     logger,
	}
}

// LoginResult carries everything the handler needs to set cookies.
type LoginResult struct {
	Session         *session.Session
	RememberMeToken string // empty unless remember-me was requested
	User            *models.User
}

// Login verifies credentials and establishes a fresh session. The
// session ID the client presented, if any, is destroyed first so a
// pre-login identifier can never survive privilege elevation.
//
// Every failure mode (unknown username, wrong password, blocked
// account) collapses to ErrInvalidCredentials; the caller must not be
// able to tell which factor failed.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool, presentedSessionID string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get user by username", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := user.CanAuthenticate(); err != nil {
		s.logger.Info("login blocked due to account state",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInvalidCredentials
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	// Session fixation defense: rotate the identifier on login.
	if presentedSessionID != "" {
		s.sessions.Destroy(presentedSessionID)
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		s.logger.Error("failed to create session", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	result := &LoginResult{Session: sess, User: user}

	if rememberMe {
		token, err := s.rememberMe.Issue(user.ID)
		if err != nil {
			// Login still succeeds; only persistence is lost.
			s.logger.Error("failed to issue remember-me token", slog.String("user_id", user.ID), slog.Any("error", err))
		} else {
			result.RememberMeToken = token
		}
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return result, nil
}

// Logout destroys the session if one exists. It never fails: logging
// out an unknown or expired session still reports success.
func (s *AuthService) Logout(sessionID string) {
	s.sessions.Destroy(sessionID)
}

// Register creates a new user account. Username and email uniqueness is
// checked up front; the database unique constraints remain as the
// fallback for concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("failed to check username", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if taken {
		s.logger.Info("registration failed: username taken",
			slog.String("username", pkglogger.SanitizedUsername(username)))
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to check email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if taken {
		s.logger.Info("registration failed: email taken")
		return nil, ErrEmailTaken
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  models.RoleUser,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Concurrent registration slipped past the pre-checks.
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID))

	return created, nil
}

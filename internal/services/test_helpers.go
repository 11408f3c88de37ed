package services

import (
	"context"
	"time"

	"github.com/nsavelev/tasktracker/internal/models"
)

// MockUserRepository implements UserRepository and AdminUserRepository
// for testing
type MockUserRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc    func(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	CreateFunc           func(ctx context.Context, user *models.User) (*models.User, error)
	ListFunc             func(ctx context.Context) ([]*models.User, error)
	ToggleEnabledFunc    func(ctx context.Context, id string) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) ToggleEnabled(ctx context.Context, id string) (*models.User, error) {
	if m.ToggleEnabledFunc != nil {
		return m.ToggleEnabledFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockTaskRepository implements TaskRepository for testing
type MockTaskRepository struct {
	ListByOwnerFunc     func(ctx context.Context, ownerID string) ([]*models.Task, error)
	GetByIDForOwnerFunc func(ctx context.Context, taskID, ownerID string) (*models.Task, error)
	CreateFunc          func(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateFunc          func(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error)
	DeleteFunc          func(ctx context.Context, taskID, ownerID string) error
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return []*models.Task{}, nil
}

func (m *MockTaskRepository) GetByIDForOwner(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
	if m.GetByIDForOwnerFunc != nil {
		return m.GetByIDForOwnerFunc(ctx, taskID, ownerID)
	}
	return nil, models.ErrNotFound
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskRepository) Update(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, taskID, ownerID, task)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskRepository) Delete(ctx context.Context, taskID, ownerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, taskID, ownerID)
	}
	return nil
}

// MockTagRepository implements TagRepository and TagResolver for testing
type MockTagRepository struct {
	ListByOwnerFunc          func(ctx context.Context, ownerID string) ([]*models.Tag, error)
	GetByIDForOwnerFunc      func(ctx context.Context, tagID, ownerID string) (*models.Tag, error)
	GetByIDsForOwnerFunc     func(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error)
	ExistsByNameForOwnerFunc func(ctx context.Context, name, ownerID string) (bool, error)
	SearchByNameFunc         func(ctx context.Context, ownerID, substring string) ([]*models.Tag, error)
	CountByOwnerFunc         func(ctx context.Context, ownerID string) (int64, error)
	CreateFunc               func(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	UpdateFunc               func(ctx context.Context, tagID, ownerID string, tag *models.Tag) (*models.Tag, error)
	DeleteFunc               func(ctx context.Context, tagID, ownerID string) error
}

func (m *MockTagRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tag, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return []*models.Tag{}, nil
}

func (m *MockTagRepository) GetByIDForOwner(ctx context.Context, tagID, ownerID string) (*models.Tag, error) {
	if m.GetByIDForOwnerFunc != nil {
		return m.GetByIDForOwnerFunc(ctx, tagID, ownerID)
	}
	return nil, models.ErrNotFound
}

func (m *MockTagRepository) GetByIDsForOwner(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error) {
	if m.GetByIDsForOwnerFunc != nil {
		return m.GetByIDsForOwnerFunc(ctx, tagIDs, ownerID)
	}
	return []*models.Tag{}, nil
}

func (m *MockTagRepository) ExistsByNameForOwner(ctx context.Context, name, ownerID string) (bool, error) {
	if m.ExistsByNameForOwnerFunc != nil {
		return m.ExistsByNameForOwnerFunc(ctx, name, ownerID)
	}
	return false, nil
}

func (m *MockTagRepository) SearchByName(ctx context.Context, ownerID, substring string) ([]*models.Tag, error) {
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, ownerID, substring)
	}
	return []*models.Tag{}, nil
}

func (m *MockTagRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if m.CountByOwnerFunc != nil {
		return m.CountByOwnerFunc(ctx, ownerID)
	}
	return 0, nil
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tag)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTagRepository) Update(ctx context.Context, tagID, ownerID string, tag *models.Tag) (*models.Tag, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tagID, ownerID, tag)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTagRepository) Delete(ctx context.Context, tagID, ownerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tagID, ownerID)
	}
	return nil
}

// MockProfileRepository implements ProfileRepository for testing
type MockProfileRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.Profile, error)
	UpsertFunc      func(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, profile)
	}
	return profile, nil
}

// MockSessionRevoker implements SessionRevoker for testing
type MockSessionRevoker struct {
	DestroyAllForUserFunc func(userID string) int
}

func (m *MockSessionRevoker) DestroyAllForUser(userID string) int {
	if m.DestroyAllForUserFunc != nil {
		return m.DestroyAllForUserFunc(userID)
	}
	return 0
}

// NewTestUser creates an active user for tests
func NewTestUser(id, username, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:                    id,
		Username:              username,
		Email:                 email,
		Role:                  models.RoleUser,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// NewTestUserWithPassword creates an active user with a password hash
func NewTestUserWithPassword(id, username, email, passwordHash string) *models.User {
	user := NewTestUser(id, username, email)
	user.PasswordHash = passwordHash
	return user
}

// NewTestTag creates a tag owned by the given user
func NewTestTag(id, userID, name string) *models.Tag {
	now := time.Now()
	return &models.Tag{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Color:     models.DefaultTagColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestTask creates a task owned by the given user
func NewTestTask(id, userID, title string) *models.Task {
	now := time.Now()
	return &models.Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Status:    models.StatusTodo,
		Tags:      []*models.Tag{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

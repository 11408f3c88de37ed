package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc    func(ctx context.Context, username, password string, rememberMe bool, presentedSessionID string) (*services.LoginResult, error)
	LogoutFunc   func(sessionID string)
	RegisterFunc func(ctx context.Context, username, password, email string) (*models.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string, rememberMe bool, presentedSessionID string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, rememberMe, presentedSessionID)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockAuthService) Logout(sessionID string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(sessionID)
	}
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, email)
	}
	return nil, models.ErrInternalServer
}

// MockTaskService implements TaskServiceInterface for testing
type MockTaskService struct {
	ListFunc   func(ctx context.Context, ownerID string) ([]*models.Task, error)
	GetFunc    func(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	CreateFunc func(ctx context.Context, ownerID string, draft services.TaskDraft) (*models.Task, error)
	UpdateFunc func(ctx context.Context, ownerID, taskID string, draft services.TaskDraft) (*models.Task, error)
	DeleteFunc func(ctx context.Context, ownerID, taskID string) error
}

func (m *MockTaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return []*models.Task{}, nil
}

func (m *MockTaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, taskID)
	}
	return nil, models.ErrNotFound
}

func (m *MockTaskService) Create(ctx context.Context, ownerID string, draft services.TaskDraft) (*models.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, draft)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, taskID string, draft services.TaskDraft) (*models.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, taskID, draft)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, taskID)
	}
	return nil
}

// MockTagService implements TagServiceInterface for testing
type MockTagService struct {
	ListFunc   func(ctx context.Context, ownerID string) ([]*models.Tag, error)
	GetFunc    func(ctx context.Context, ownerID, tagID string) (*models.Tag, error)
	CreateFunc func(ctx context.Context, ownerID string, draft services.TagDraft) (*models.Tag, error)
	UpdateFunc func(ctx context.Context, ownerID, tagID string, draft services.TagDraft) (*models.Tag, error)
	DeleteFunc func(ctx context.Context, ownerID, tagID string) error
	SearchFunc func(ctx context.Context, ownerID, query string) ([]*models.Tag, error)
	CountFunc  func(ctx context.Context, ownerID string) (int64, error)
}

func (m *MockTagService) List(ctx context.Context, ownerID string) ([]*models.Tag, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return []*models.Tag{}, nil
}

func (m *MockTagService) Get(ctx context.Context, ownerID, tagID string) (*models.Tag, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, tagID)
	}
	return nil, models.ErrNotFound
}

func (m *MockTagService) Create(ctx context.Context, ownerID string, draft services.TagDraft) (*models.Tag, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, draft)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTagService) Update(ctx context.Context, ownerID, tagID string, draft services.TagDraft) (*models.Tag, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, tagID, draft)
	}
	return nil, models.ErrInternalServer
}

func (m *MockTagService) Delete(ctx context.Context, ownerID, tagID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, tagID)
	}
	return nil
}

func (m *MockTagService) Search(ctx context.Context, ownerID, query string) ([]*models.Tag, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, ownerID, query)
	}
	return []*models.Tag{}, nil
}

func (m *MockTagService) Count(ctx context.Context, ownerID string) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, ownerID)
	}
	return 0, nil
}

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	GetFunc    func(ctx context.Context, ownerID string) (*models.Profile, error)
	UpdateFunc func(ctx context.Context, ownerID string, draft services.ProfileDraft) (*models.Profile, error)
}

func (m *MockProfileService) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID)
	}
	return &models.Profile{UserID: ownerID}, nil
}

func (m *MockProfileService) Update(ctx context.Context, ownerID string, draft services.ProfileDraft) (*models.Profile, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, draft)
	}
	return nil, models.ErrInternalServer
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListUsersFunc     func(ctx context.Context) ([]*models.User, error)
	ToggleEnabledFunc func(ctx context.Context, userID string) (*models.User, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockAdminService) ToggleEnabled(ctx context.Context, userID string) (*models.User, error) {
	if m.ToggleEnabledFunc != nil {
		return m.ToggleEnabledFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

// asUser attaches an authenticated principal to the request, the way the
// gate middleware would.
func asUser(r *http.Request, userID, username, role string) *http.Request {
	principal := &session.Principal{UserID: userID, Username: username, Role: role}
	return r.WithContext(session.WithPrincipal(r.Context(), principal))
}

// withURLParam injects a chi route parameter for direct handler calls.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

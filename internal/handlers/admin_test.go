package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsavelev/tasktracker/internal/models"
)

func TestAdminHandler_ListUsers_Success(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{
		ListUsersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{
				{ID: "user1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser, Enabled: true},
				{ID: "user2", Username: "bob", Email: "bob@example.com", Role: models.RoleAdmin, Enabled: false},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req = asUser(req, "admin1", "root", models.RoleAdmin)
	rec := httptest.NewRecorder()

	handler.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []*UserResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "alice", resp[0].Username)
	assert.False(t, resp[1].Enabled)
	// Password hashes never appear in the payload
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAdminHandler_ListUsers_NoPrincipal(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()

	handler.ListUsers(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminHandler_ToggleUserEnabled_Success(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{
		ToggleEnabledFunc: func(ctx context.Context, userID string) (*models.User, error) {
			assert.Equal(t, "user1", userID)
			return &models.User{ID: "user1", Username: "alice", Enabled: false}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/user1/enable", nil)
	req = asUser(req, "admin1", "root", models.RoleAdmin)
	req = withURLParam(req, "id", "user1")
	rec := httptest.NewRecorder()

	handler.ToggleUserEnabled(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp UserResponse
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Enabled)
}

func TestAdminHandler_ToggleUserEnabled_NotFound(t *testing.T) {
	handler := NewAdminHandler(&MockAdminService{
		ToggleEnabledFunc: func(ctx context.Context, userID string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/ghost/enable", nil)
	req = asUser(req, "admin1", "root", models.RoleAdmin)
	req = withURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.ToggleUserEnabled(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

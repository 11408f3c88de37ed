package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/services"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

func sampleTag(id, userID, name string) *models.Tag {
	tag := &models.Tag{
		ID:     id,
		UserID: userID,
		Name:   name,
		Color:  models.DefaultTagColor,
	}
	return tag
}

func TestTagHandler_ListTags_Success(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		ListFunc: func(ctx context.Context, ownerID string) ([]*models.Tag, error) {
			return []*models.Tag{sampleTag("tag1", "user123", "work")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.ListTags(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []*TagResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "work", resp[0].Name)
	assert.Equal(t, models.DefaultTagColor, resp[0].Color)
}

func TestTagHandler_ListTags_NoPrincipal(t *testing.T) {
	handler := NewTagHandler(&MockTagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	rec := httptest.NewRecorder()

	handler.ListTags(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTagHandler_GetTag_NotFound(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		GetFunc: func(ctx context.Context, ownerID, tagID string) (*models.Tag, error) {
			return nil, models.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags/ghost", nil)
	req = asUser(req, "user123", "alice", models.RoleUser)
	req = withURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.GetTag(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagHandler_CreateTag_Success(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		CreateFunc: func(ctx context.Context, ownerID string, draft services.TagDraft) (*models.Tag, error) {
			assert.Equal(t, "work", draft.Name)
			assert.Equal(t, "#FF0000", draft.Color)
			tag := sampleTag("tag1", ownerID, draft.Name)
			tag.Color = draft.Color
			return tag, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tags",
		strings.NewReader(`{"name":"work","color":"#FF0000"}`))
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.CreateTag(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp TagResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "tag1", resp.ID)
	assert.Equal(t, "#FF0000", resp.Color)
}

func TestTagHandler_CreateTag_DuplicateName(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		CreateFunc: func(ctx context.Context, ownerID string, draft services.TagDraft) (*models.Tag, error) {
			return nil, models.ErrConflict
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"work"}`))
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.CreateTag(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp pkghttp.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Tag with this name already exists", resp.Message)
}

func TestTagHandler_CreateTag_InvalidColor(t *testing.T) {
	handler := NewTagHandler(&MockTagService{})

	req := httptest.NewRequest(http.MethodPost, "/api/tags",
		strings.NewReader(`{"name":"work","color":"red"}`))
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.CreateTag(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp pkghttp.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Errors, "color")
}

func TestTagHandler_UpdateTag_Conflict(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		UpdateFunc: func(ctx context.Context, ownerID, tagID string, draft services.TagDraft) (*models.Tag, error) {
			return nil, models.ErrConflict
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/tags/tag1", strings.NewReader(`{"name":"personal"}`))
	req = asUser(req, "user123", "alice", models.RoleUser)
	req = withURLParam(req, "id", "tag1")
	rec := httptest.NewRecorder()

	handler.UpdateTag(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTagHandler_DeleteTag_Success(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		DeleteFunc: func(ctx context.Context, ownerID, tagID string) error {
			assert.Equal(t, "tag1", tagID)
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/tags/tag1", nil)
	req = asUser(req, "user123", "alice", models.RoleUser)
	req = withURLParam(req, "id", "tag1")
	rec := httptest.NewRecorder()

	handler.DeleteTag(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTagHandler_SearchTags(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		SearchFunc: func(ctx context.Context, ownerID, query string) ([]*models.Tag, error) {
			assert.Equal(t, "wo", query)
			return []*models.Tag{sampleTag("tag1", "user123", "work")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags/search?q=wo", nil)
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.SearchTags(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []*TagResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 1)
}

func TestTagHandler_CountTags(t *testing.T) {
	handler := NewTagHandler(&MockTagService{
		CountFunc: func(ctx context.Context, ownerID string) (int64, error) {
			return 3, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags/count", nil)
	req = asUser(req, "user123", "alice", models.RoleUser)
	rec := httptest.NewRecorder()

	handler.CountTags(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp TagCountResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(3), resp.Count)
}

package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsavelev/tasktracker/internal/models"
)

func TestTaskService_List_Success(t *testing.T) {
	tasks := []*models.Task{
		NewTestTask("task1", "user123", "Write report"),
		NewTestTask("task2", "user123", "Review PR"),
	}

	svc := NewTaskService(&MockTaskRepository{
		ListByOwnerFunc: func(ctx context.Context, ownerID string) ([]*models.Task, error) {
			assert.Equal(t, "user123", ownerID)
			return tasks, nil
		},
	}, &MockTagRepository{}, slog.Default())

	result, err := svc.List(context.Background(), "user123")

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestTaskService_Get_NotFound(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{
		GetByIDForOwnerFunc: func(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
			return nil, models.ErrNotFound
		},
	}, &MockTagRepository{}, slog.Default())

	result, err := svc.Get(context.Background(), "user123", "task1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskService_Get_CrossTenantLooksLikeNotFound(t *testing.T) {
	owner := "user123"
	task := NewTestTask("task1", owner, "Alice's task")

	repo := &MockTaskRepository{
		GetByIDForOwnerFunc: func(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
			if taskID == task.ID && ownerID == owner {
				return task, nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := NewTaskService(repo, &MockTagRepository{}, slog.Default())

	// Owner sees the task
	result, err := svc.Get(context.Background(), owner, "task1")
	require.NoError(t, err)
	assert.Equal(t, "task1", result.ID)

	// Another user gets the same answer as for a nonexistent ID
	_, err = svc.Get(context.Background(), "user456", "task1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskService_Create_Success(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *models.Task) (*models.Task, error) {
			task.ID = "task1"
			return task, nil
		},
	}, &MockTagRepository{}, slog.Default())

	result, err := svc.Create(context.Background(), "user123", TaskDraft{Title: "  Write report  "})

	require.NoError(t, err)
	assert.Equal(t, "Write report", result.Title)
	assert.Equal(t, models.StatusTodo, result.Status)
	assert.Equal(t, "user123", result.UserID)
}

func TestTaskService_Create_BlankTitle(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{}, &MockTagRepository{}, slog.Default())

	_, err := svc.Create(context.Background(), "user123", TaskDraft{Title: "   "})

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestTaskService_Create_InvalidStatus(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{}, &MockTagRepository{}, slog.Default())

	_, err := svc.Create(context.Background(), "user123", TaskDraft{Title: "Task", Status: "SHIPPED"})

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestTaskService_Create_DropsForeignTags(t *testing.T) {
	ownTag := NewTestTag("tag1", "user123", "work")

	svc := NewTaskService(&MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *models.Task) (*models.Task, error) {
			task.ID = "task1"
			return task, nil
		},
	}, &MockTagRepository{
		GetByIDsForOwnerFunc: func(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error) {
			assert.Equal(t, []string{"tag1", "tag-of-someone-else"}, tagIDs)
			// Only the caller's own tag resolves
			return []*models.Tag{ownTag}, nil
		},
	}, slog.Default())

	result, err := svc.Create(context.Background(), "user123", TaskDraft{
		Title:  "Task",
		TagIDs: []string{"tag1", "tag-of-someone-else"},
	})

	require.NoError(t, err)
	require.Len(t, result.Tags, 1)
	assert.Equal(t, "tag1", result.Tags[0].ID)
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{
		UpdateFunc: func(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error) {
			return nil, models.ErrNotFound
		},
	}, &MockTagRepository{}, slog.Default())

	_, err := svc.Update(context.Background(), "user123", "task1", TaskDraft{Title: "Task"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskService_Update_ReplacesTags(t *testing.T) {
	newTag := NewTestTag("tag2", "user123", "urgent")

	svc := NewTaskService(&MockTaskRepository{
		UpdateFunc: func(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error) {
			task.ID = taskID
			return task, nil
		},
	}, &MockTagRepository{
		GetByIDsForOwnerFunc: func(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error) {
			return []*models.Tag{newTag}, nil
		},
	}, slog.Default())

	result, err := svc.Update(context.Background(), "user123", "task1", TaskDraft{
		Title:  "Task",
		Status: models.StatusInProgress,
		TagIDs: []string{"tag2"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, result.Status)
	require.Len(t, result.Tags, 1)
	assert.Equal(t, "tag2", result.Tags[0].ID)
}

func TestTaskService_Delete_Success(t *testing.T) {
	deleted := false
	svc := NewTaskService(&MockTaskRepository{
		DeleteFunc: func(ctx context.Context, taskID, ownerID string) error {
			deleted = true
			assert.Equal(t, "task1", taskID)
			assert.Equal(t, "user123", ownerID)
			return nil
		},
	}, &MockTagRepository{}, slog.Default())

	err := svc.Delete(context.Background(), "user123", "task1")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	svc := NewTaskService(&MockTaskRepository{
		DeleteFunc: func(ctx context.Context, taskID, ownerID string) error {
			return models.ErrNotFound
		},
	}, &MockTagRepository{}, slog.Default())

	err := svc.Delete(context.Background(), "user123", "task1")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

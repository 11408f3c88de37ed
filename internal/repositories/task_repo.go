package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/models"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
	db   *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{pool: db.Pool, db: db}
}

func scanTaskRow(scanner rowScanner) (*models.Task, error) {
	var task models.Task
	var description *string

	err := scanner.Scan(
		&task.ID, &task.UserID, &task.Title, &description,
		&task.Status, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if description != nil {
		task.Description = *description
	}
	task.Tags = []*models.Tag{}

	return &task, nil
}

func scanTaskRows(rows pgx.Rows) ([]*models.Task, error) {
	defer rows.Close()

	tasks := make([]*models.Task, 0)

	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks, err := scanTaskRows(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetByIDForOwner scopes the lookup to the owner: another user's task
// is reported as not found, never leaked.
func (r *TaskRepository) GetByIDForOwner(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTaskRow(r.pool.QueryRow(ctx, query, taskID, ownerID))
	if err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// Create inserts the task and its tag associations in one transaction.
// The caller is responsible for having resolved task.Tags to tags owned
// by task.UserID.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = uuid.New().String()

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Status == "" {
		task.Status = models.StatusTodo
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query,
			task.ID, task.UserID, task.Title, nullableString(task.Description),
			task.Status, task.CreatedAt, task.UpdatedAt,
		); err != nil {
			return database.MapPostgresError(err)
		}

		return insertTaskTags(ctx, tx, task.ID, task.Tags)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Update rewrites the task row and replaces its tag associations in one
// transaction. Returns ErrNotFound when the task does not exist or is
// owned by someone else.
func (r *TaskRepository) Update(ctx context.Context, taskID, ownerID string, task *models.Task) (*models.Task, error) {
	task.UpdatedAt = time.Now()

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4
			WHERE id = $5 AND user_id = $6
		`
		result, err := tx.Exec(ctx, query,
			task.Title, nullableString(task.Description), task.Status,
			task.UpdatedAt, taskID, ownerID,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
			return database.MapPostgresError(err)
		}

		return insertTaskTags(ctx, tx, taskID, task.Tags)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByIDForOwner(ctx, taskID, ownerID)
}

func (r *TaskRepository) Delete(ctx context.Context, taskID, ownerID string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
			return database.MapPostgresError(err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		return nil
	})
}

func insertTaskTags(ctx context.Context, tx pgx.Tx, taskID string, tags []*models.Tag) error {
	for _, tag := range tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`,
			taskID, tag.ID,
		); err != nil {
			return database.MapPostgresError(err)
		}
	}
	return nil
}

// loadTags populates the Tags slice of each task with a single join
// query over the association table.
func (r *TaskRepository) loadTags(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]string, len(tasks))
	byID := make(map[string]*models.Task, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
		byID[task.ID] = task
	}

	query := `
		SELECT tt.task_id, t.id, t.user_id, t.name, t.color, t.created_at, t.updated_at
		FROM task_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.task_id = ANY($1)
		ORDER BY t.name ASC
	`

	rows, err := r.pool.Query(ctx, query, taskIDs)
	if err != nil {
		return fmt.Errorf("failed to query task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var tag models.Tag
		if err := rows.Scan(&taskID, &tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan task tag: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, &tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

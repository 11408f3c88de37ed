package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/models"
)

const tagColumns = `id, user_id, name, color, created_at, updated_at`

type TagRepository struct {
	pool *pgxpool.Pool
	db   *database.DB
}

func NewTagRepository(db *database.DB) *TagRepository {
	return &TagRepository{pool: db.Pool, db: db}
}

func scanTagRow(scanner rowScanner) (*models.Tag, error) {
	var tag models.Tag

	err := scanner.Scan(
		&tag.ID, &tag.UserID, &tag.Name, &tag.Color,
		&tag.CreatedAt, &tag.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &tag, nil
}

func scanTagRows(rows pgx.Rows) ([]*models.Tag, error) {
	defer rows.Close()

	tags := make([]*models.Tag, 0)

	for rows.Next() {
		tag, err := scanTagRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tags, nil
}

func (r *TagRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE user_id = $1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}

	return scanTagRows(rows)
}

// GetByIDForOwner scopes the lookup to the owner: a tag belonging to a
// different user is indistinguishable from a missing one.
func (r *TagRepository) GetByIDForOwner(ctx context.Context, tagID, ownerID string) (*models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = $1 AND user_id = $2`
	return scanTagRow(r.pool.QueryRow(ctx, query, tagID, ownerID))
}

// GetByIDsForOwner returns the subset of the given tag IDs owned by
// ownerID. IDs that don't exist or belong to another user are simply
// absent from the result.
func (r *TagRepository) GetByIDsForOwner(ctx context.Context, tagIDs []string, ownerID string) ([]*models.Tag, error) {
	if len(tagIDs) == 0 {
		return []*models.Tag{}, nil
	}

	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = ANY($1) AND user_id = $2 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, tagIDs, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags by ids: %w", err)
	}

	return scanTagRows(rows)
}

func (r *TagRepository) ExistsByNameForOwner(ctx context.Context, name, ownerID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1 AND user_id = $2)`,
		name, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// escapeLike neutralizes LIKE metacharacters so the query matches them
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *TagRepository) SearchByName(ctx context.Context, ownerID, substring string) ([]*models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE user_id = $1 AND name ILIKE '%' || $2 || '%' ESCAPE '\' ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ownerID, escapeLike(substring))
	if err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}

	return scanTagRows(rows)
}

func (r *TagRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tags WHERE user_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	tag.ID = uuid.New().String()

	now := time.Now()
	tag.CreatedAt = now
	tag.UpdatedAt = now

	query := `
		INSERT INTO tags (id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + tagColumns

	return scanTagRow(r.pool.QueryRow(ctx, query,
		tag.ID, tag.UserID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt,
	))
}

func (r *TagRepository) Update(ctx context.Context, tagID, ownerID string, tag *models.Tag) (*models.Tag, error) {
	query := `
		UPDATE tags SET name = $1, color = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + tagColumns

	return scanTagRow(r.pool.QueryRow(ctx, query,
		tag.Name, tag.Color, time.Now(), tagID, ownerID,
	))
}

// Delete detaches the tag from every task of the owner that references
// it, then removes the tag, all in one transaction. A failure at either
// step rolls the whole operation back.
func (r *TagRepository) Delete(ctx context.Context, tagID, ownerID string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1 AND user_id = $2)`,
			tagID, ownerID,
		).Scan(&exists)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if !exists {
			return models.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE tag_id = $1`, tagID); err != nil {
			return database.MapPostgresError(err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, tagID, ownerID); err != nil {
			return database.MapPostgresError(err)
		}

		return nil
	})
}

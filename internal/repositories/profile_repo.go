package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/models"
)

const profileColumns = `id, user_id, first_name, last_name, email, created_at, updated_at`

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{pool: db.Pool}
}

func scanProfileRow(scanner rowScanner) (*models.Profile, error) {
	var profile models.Profile
	var firstName, lastName, email *string

	err := scanner.Scan(
		&profile.ID, &profile.UserID, &firstName, &lastName, &email,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if firstName != nil {
		profile.FirstName = *firstName
	}
	if lastName != nil {
		profile.LastName = *lastName
	}
	if email != nil {
		profile.Email = *email
	}

	return &profile, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfileRow(r.pool.QueryRow(ctx, query, userID))
}

// Upsert creates the profile on first write and updates it afterwards.
// The unique constraint on email surfaces as ErrConflict.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := time.Now()

	query := `
		INSERT INTO profiles (id, user_id, first_name, last_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    email = EXCLUDED.email,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	return scanProfileRow(r.pool.QueryRow(ctx, query,
		uuid.New().String(), profile.UserID,
		nullableString(profile.FirstName), nullableString(profile.LastName),
		nullableString(profile.Email), now,
	))
}

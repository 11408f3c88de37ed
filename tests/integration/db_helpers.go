package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/repositories"
	"github.com/nsavelev/tasktracker/pkg/auth"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("tasktracker"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         database.NewFromPool(pool, testLogger()),
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	// Suppress goose logs
	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection; use the pgx adapter
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"task_tags",
		"tasks",
		"tags",
		"profiles",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.UserRepository,
	*repositories.TaskRepository,
	*repositories.TagRepository,
	*repositories.ProfileRepository,
) {
	return repositories.NewUserRepository(db),
		repositories.NewTaskRepository(db),
		repositories.NewTagRepository(db),
		repositories.NewProfileRepository(db)
}

// SeedUser inserts a test user with hashed password
func SeedUser(ctx context.Context, pool *pgxpool.Pool, username, email, password string, enabled bool) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, role, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'USER', $5, NOW(), NOW())
		RETURNING id, username, email, password_hash, role, enabled,
		          account_non_expired, account_non_locked, credentials_non_expired,
		          created_at, updated_at
	`

	var user models.User
	err = pool.QueryRow(ctx, query, uuid.New().String(), username, email, hashedPassword, enabled).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Enabled,
		&user.AccountNonExpired,
		&user.AccountNonLocked,
		&user.CredentialsNonExpired,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedAdmin inserts an enabled admin user with hashed password
func SeedAdmin(ctx context.Context, pool *pgxpool.Pool, username, email, password string) (*models.User, error) {
	user, err := SeedUser(ctx, pool, username, email, password, true)
	if err != nil {
		return nil, err
	}

	query := `UPDATE users SET role = $1 WHERE id = $2`
	if _, err := pool.Exec(ctx, query, models.RoleAdmin, user.ID); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	user.Role = models.RoleAdmin

	return user, nil
}

// SeedTag inserts a tag owned by the given user
func SeedTag(ctx context.Context, pool *pgxpool.Pool, userID, name, color string) (string, error) {
	query := `
		INSERT INTO tags (id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`

	var id string
	if err := pool.QueryRow(ctx, query, uuid.New().String(), userID, name, color).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert tag: %w", err)
	}

	return id, nil
}

// SeedTaskTag links an existing task and tag
func SeedTaskTag(ctx context.Context, pool *pgxpool.Pool, taskID, tagID string) error {
	query := `INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`
	if _, err := pool.Exec(ctx, query, taskID, tagID); err != nil {
		return fmt.Errorf("failed to link task and tag: %w", err)
	}
	return nil
}

// SeedTask inserts a task owned by the given user
func SeedTask(ctx context.Context, pool *pgxpool.Pool, userID, title, status string) (string, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`

	var id string
	if err := pool.QueryRow(ctx, query, uuid.New().String(), userID, title, status).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert task: %w", err)
	}

	return id, nil
}

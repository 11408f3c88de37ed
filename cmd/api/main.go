package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nsavelev/tasktracker/internal/background"
	"github.com/nsavelev/tasktracker/internal/config"
	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/handlers"
	middlewareCustom "github.com/nsavelev/tasktracker/internal/middleware"
	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/repositories"
	"github.com/nsavelev/tasktracker/internal/routes"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
	pkgauth "github.com/nsavelev/tasktracker/pkg/auth"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize session layer
	sessionManager := session.NewManager(cfg.Auth.SessionTTL, cfg.Auth.MaxSessionsPerUser)
	rememberMeService := session.NewRememberMeService(cfg.Auth.SessionSecret, cfg.Auth.RememberMeValidity)
	cookieConfig := session.CookieConfig{Secure: cfg.Auth.SecureCookies}
	gate := session.NewGate(sessionManager, rememberMeService, userRepo, cookieConfig)

	// Expired session sweeper
	sweeper := background.NewSessionSweeper(sessionManager, logger, cfg.Auth.SweepInterval)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionManager, rememberMeService, logger)
	taskService := services.NewTaskService(taskRepo, tagRepo, logger)
	tagService := services.NewTagService(tagRepo, logger)
	profileService := services.NewProfileService(profileRepo, logger)
	adminService := services.NewAdminService(userRepo, sessionManager, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, cfg.Auth.RememberMeValidity)
	taskHandler := handlers.NewTaskHandler(taskService)
	tagHandler := handlers.NewTagHandler(tagService)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Bootstrap first admin user if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(ctx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, gate, authHandler, taskHandler, tagHandler, profileHandler, adminHandler)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start session sweeper
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go sweeper.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminUser creates the first admin user if ADMIN_USERNAME, ADMIN_EMAIL
// and ADMIN_PASSWORD are set
func ensureAdminUser(ctx context.Context, userRepo *repositories.UserRepository, logger *slog.Logger) error {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		logger.Info("no admin credentials configured, skipping admin user creation")
		return nil
	}

	// Check if admin already exists
	_, err := userRepo.GetByUsername(ctx, adminUsername)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	// Hash password
	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	// Create admin user
	admin := &models.User{
		Username:              adminUsername,
		Email:                 adminEmail,
		PasswordHash:          hashedPassword,
		Role:                  models.RoleAdmin,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}

	_, err = userRepo.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nsavelev/tasktracker/internal/handlers"
	"github.com/nsavelev/tasktracker/internal/middleware"
	"github.com/nsavelev/tasktracker/internal/models"
	"github.com/nsavelev/tasktracker/internal/session"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	gate *session.Gate,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	tagHandler *handlers.TagHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/api/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/api/auth/login", authHandler.Login)
	router.Post("/api/auth/logout", authHandler.Logout)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(gate.RequireAuth)

		r.Get("/api/auth/me", authHandler.Me)

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})

		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", tagHandler.ListTags)
			r.Post("/", tagHandler.CreateTag)
			// Fixed paths must be registered before the id parameter
			r.Get("/search", tagHandler.SearchTags)
			r.Get("/count", tagHandler.CountTags)
			r.Get("/{id}", tagHandler.GetTag)
			r.Put("/{id}", tagHandler.UpdateTag)
			r.Delete("/{id}", tagHandler.DeleteTag)
		})

		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetProfile)
			r.Put("/", profileHandler.UpdateProfile)
		})

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(gate.RequireRole(models.RoleAdmin))
			r.Get("/api/admin/users", adminHandler.ListUsers)
			r.Put("/api/admin/users/{id}/enable", adminHandler.ToggleUserEnabled)
		})
	})
}

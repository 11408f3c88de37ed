package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nsavelev/tasktracker/internal/config"
	"github.com/nsavelev/tasktracker/internal/database"
	"github.com/nsavelev/tasktracker/internal/handlers"
	middlewareCustom "github.com/nsavelev/tasktracker/internal/middleware"
	"github.com/nsavelev/tasktracker/internal/routes"
	"github.com/nsavelev/tasktracker/internal/services"
	"github.com/nsavelev/tasktracker/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server   *httptest.Server
	DB       *database.DB
	Sessions *session.Manager
	Config   *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server backed by a real database
func NewTestServer(db *database.DB) *TestServer {
	logger := testLogger()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionSecret:      "integration-test-signing-secret-0123456789",
			SessionTTL:         12 * time.Hour,
			RememberMeValidity: 24 * time.Hour,
			MaxSessionsPerUser: 1,
			SweepInterval:      time.Hour,
			SecureCookies:      false,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	userRepo, taskRepo, tagRepo, profileRepo := InitializeRepositories(db)

	sessionManager := session.NewManager(cfg.Auth.SessionTTL, cfg.Auth.MaxSessionsPerUser)
	rememberMe := session.NewRememberMeService(cfg.Auth.SessionSecret, cfg.Auth.RememberMeValidity)
	cookies := session.CookieConfig{Secure: cfg.Auth.SecureCookies}
	gate := session.NewGate(sessionManager, rememberMe, userRepo, cookies)

	authService := services.NewAuthService(userRepo, sessionManager, rememberMe, logger)
	taskService := services.NewTaskService(taskRepo, tagRepo, logger)
	tagService := services.NewTagService(tagRepo, logger)
	profileService := services.NewProfileService(profileRepo, logger)
	adminService := services.NewAdminService(userRepo, sessionManager, logger)

	authHandler := handlers.NewAuthHandler(authService, cookies, cfg.Auth.RememberMeValidity)
	taskHandler := handlers.NewTaskHandler(taskService)
	tagHandler := handlers.NewTagHandler(tagService)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, gate, authHandler, taskHandler, tagHandler, profileHandler, adminHandler)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:   server,
		DB:       db,
		Sessions: sessionManager,
		Config:   cfg,
		logger:   logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// NewClient returns an HTTP client with its own cookie jar, so each
// logical user in a test carries its own session cookie.
func (ts *TestServer) NewClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar}
}

// Request makes an HTTP request to the test server using the given client
func (ts *TestServer) Request(client *http.Client, method, path string, body interface{}) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return client.Do(req)
}

// Login authenticates the client's jar with a session cookie
func (ts *TestServer) Login(client *http.Client, username, password string) (*http.Response, error) {
	return ts.Request(client, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": username,
		"password": password,
	})
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// GetErrorMessage extracts the error message from an error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", fmt.Errorf("no message field in response")
}

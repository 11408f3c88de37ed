package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultAuthRateLimit returns the limit applied to the credential
// endpoints (login, registration): 5 requests per minute per client IP.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP.
// Rejections use the same JSON error envelope as the rest of the API.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		}),
	)
}

package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/nsavelev/tasktracker/internal/models"
	pkghttp "github.com/nsavelev/tasktracker/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated identity resolved once per request and
// passed down to services as an explicit owner ID. It is never a
// default: absence of a principal is an absence, not an anonymous user.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

// UserRepository is the subset of the credential store the gate needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Gate classifies requests before business logic runs: it resolves the
// session cookie (falling back to a valid remember-me token) to a
// principal, or rejects with 401. Role checks are layered on top via
// RequireRole and reject with 403.
type Gate struct {
	manager    *Manager
	rememberMe *RememberMeService
	users      UserRepository
	cookies    CookieConfig
}

func NewGate(manager *Manager, rememberMe *RememberMeService, users UserRepository, cookies CookieConfig) *Gate {
	return &Gate{
		manager:    manager,
		rememberMe: rememberMe,
		users:      users,
		cookies:    cookies,
	}
}

// RequireAuth resolves the current principal and injects it into the
// request context. Requests without a resolvable principal get 401,
// which is distinct from the 403 RequireRole produces for a valid
// principal with an insufficient role.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := g.resolve(w, r)
		if !ok {
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole enforces role-based access. Must be used inside a
// RequireAuth group.
func (g *Gate) RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			if principal.Role != role {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolve maps the request's cookies to a principal. A live session
// wins; otherwise a valid remember-me token transparently establishes a
// new session. The account state is re-checked on every request so a
// disabled account loses access immediately.
func (g *Gate) resolve(w http.ResponseWriter, r *http.Request) (*Principal, bool) {
	if sessionID, err := GetSessionCookie(r); err == nil {
		if sess, ok := g.manager.Get(sessionID); ok {
			user, err := g.users.GetByID(r.Context(), sess.UserID)
			switch {
			case err == nil && user.CanAuthenticate() == nil:
				return principalFor(user), true
			case err == nil || errors.Is(err, models.ErrNotFound):
				// Orphaned or blocked account: the session is dead weight.
				g.manager.Destroy(sessionID)
			default:
				// Transient store failure: reject the request but keep
				// the session so the user survives the blip.
				return nil, false
			}
		}
	}

	return g.resolveRememberMe(w, r)
}

func (g *Gate) resolveRememberMe(w http.ResponseWriter, r *http.Request) (*Principal, bool) {
	token, err := GetRememberMeCookie(r)
	if err != nil {
		return nil, false
	}

	userID, err := g.rememberMe.Redeem(token)
	if err != nil {
		ClearRememberMeCookie(w, g.cookies)
		return nil, false
	}

	user, err := g.users.GetByID(r.Context(), userID)
	if err != nil || user.CanAuthenticate() != nil {
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, false
		}
		ClearRememberMeCookie(w, g.cookies)
		return nil, false
	}

	// Re-establish a session from the token. The role comes from the
	// freshly loaded user, never from the token itself.
	sess, err := g.manager.Create(user.ID)
	if err != nil {
		return nil, false
	}
	SetSessionCookie(w, sess.ID, g.cookies)

	return principalFor(user), true
}

func principalFor(user *models.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// PrincipalFrom extracts the resolved principal from the request
// context. The second return value is false when no principal was
// injected; inside protected routes that indicates a programming error
// and callers must fail the request rather than assume an identity.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

// WithPrincipal returns a context carrying the given principal. Used by
// tests to exercise handlers without a full login round-trip.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

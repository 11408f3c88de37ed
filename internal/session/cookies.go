package session

import (
	"net/http"
	"time"
)

const (
	SessionCookieName    = "session_id"
	RememberMeCookieName = "remember-me"
)

// CookieConfig holds cookie attributes shared by both auth cookies.
type CookieConfig struct {
	Domain string // empty = current host only
	Secure bool   // HTTPS only
}

// SetSessionCookie writes the session identifier as an httpOnly cookie.
// No Max-Age: the cookie lives for the browser session, server-side
// expiry is authoritative.
func SetSessionCookie(w http.ResponseWriter, sessionID string, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   config.Domain,
		HttpOnly: true, // prevents JavaScript access
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRememberMeCookie writes the persistent-login token.
func SetRememberMeCookie(w http.ResponseWriter, token string, validity time.Duration, config CookieConfig) {
	maxAge := int(validity.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(validity),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearRememberMeCookie deletes the persistent-login cookie.
func ClearRememberMeCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionCookie retrieves the session ID from the request, if any.
func GetSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// GetRememberMeCookie retrieves the remember-me token from the request, if any.
func GetRememberMeCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RememberMeCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

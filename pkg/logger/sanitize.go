package logger

import (
	"strings"
)

// SanitizedUsername masks a username for logging, keeping the first
// character only.
func SanitizedUsername(username string) string {
	if len(username) <= 1 {
		return "*"
	}
	return string(username[0]) + strings.Repeat("*", len(username)-1)
}

// SanitizeQueryString reports whether a raw query string contains
// sensitive parameters and should be redacted wholesale from logs.
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"remember-me",
		"session",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

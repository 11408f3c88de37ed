package logger

import "testing"

func TestSanitizedUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"typical username", "alice", "a****"},
		{"two characters", "ab", "a*"},
		{"single character", "a", "*"},
		{"empty", "", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizedUsername(tt.username); got != tt.want {
				t.Errorf("SanitizedUsername(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     bool
	}{
		{"empty query", "", false},
		{"harmless query", "q=work&page=2", false},
		{"password param", "password=hunter2", true},
		{"token param", "token=abc123", true},
		{"remember-me param", "remember-me=true", true},
		{"case insensitive", "Password=hunter2", true},
		{"sensitive substring", "authToken=abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeQueryString(tt.rawQuery); got != tt.want {
				t.Errorf("SanitizeQueryString(%q) = %v, want %v", tt.rawQuery, got, tt.want)
			}
		})
	}
}

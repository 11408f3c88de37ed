package models

import (
	"time"
)

// Roles assignable to a user account.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID                    string
	Username              string
	Email                 string
	PasswordHash          string
	Role                  string // RoleUser or RoleAdmin
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CanAuthenticate reports whether the account state permits a login.
// It does not check the password.
func (u *User) CanAuthenticate() error {
	switch {
	case !u.Enabled:
		return ErrAccountDisabled
	case !u.AccountNonLocked:
		return ErrAccountLocked
	case !u.AccountNonExpired:
		return ErrAccountExpired
	case !u.CredentialsNonExpired:
		return ErrCredentialsExpired
	}
	return nil
}

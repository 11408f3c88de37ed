package models

import (
	"time"
)

// Profile is a one-to-one extension of a user holding display attributes.
// It is created lazily on first update; reads of a missing profile return
// an empty value rather than an error.
type Profile struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import (
	"time"
)

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#3B82F6"

// Tag is a user-owned label. The (user_id, name) pair is unique.
type Tag struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

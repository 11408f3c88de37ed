package models

import (
	"time"
)

// TaskStatus is the lifecycle state of a task. Transitions are not
// restricted: any status may be set from any other.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	Tags        []*Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

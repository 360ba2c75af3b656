package task

import "time"

// Status is the task lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is owned by exactly one user; ownership never transfers, and every
// read and write is scoped to the owner.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter is the explicit query spec for listing tasks. Zero values mean no
// filter; when both are set they combine with AND.
type Filter struct {
	Search string // case-insensitive substring match on title
	Status string // exact status match
}

// Update describes a partial task update. Nil pointer fields are left
// unchanged. SetDescription distinguishes "description key absent" from
// "description explicitly set"; with SetDescription true a nil Description
// clears the stored value.
type Update struct {
	Title          *string
	Description    *string
	SetDescription bool
	Status         *Status
}

// CreateInput carries the fields accepted when creating a task. An empty
// Status means the pending default.
type CreateInput struct {
	Title       string
	Description *string
	Status      Status
}

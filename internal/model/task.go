package model

import "time"

// Date and time-of-day layouts used for task due fields.
const (
	DueDateLayout = "2006-01-02"
	DueTimeLayout = "15:04"
)

// Task is a work item owned by the task-management subsystem.
// The reminder core reads it to derive fire times but never mutates it.
type Task struct {
	// UserID identifies the owning user.
	UserID string `json:"user_id" db:"user_id"`

	// TaskID identifies the task within the user's scope.
	TaskID string `json:"task_id" db:"task_id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// DueDate is the calendar date the task is due, in DueDateLayout,
	// or empty when the task has no due date.
	DueDate string `json:"due_date" db:"due_date"`

	// DueTime is the time of day the task is due, in DueTimeLayout.
	// Empty when the user picked a date without a time.
	DueTime string `json:"due_time" db:"due_time"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package store

import (
	"context"
	"time"

	"github.com/nhle/task-reminders/internal/model"
)

// Store defines the persistence interface for tasks and their reminders.
//
// Reminder mutations never partially update a row: ReplaceReminder deletes
// whatever exists for the task and inserts exactly one active row, so the
// single-active-reminder invariant is enforced by construction.
type Store interface {
	// === Tasks (external collaborator; read side of the reminder core) ===

	UpsertTask(ctx context.Context, task model.Task) error
	GetTask(ctx context.Context, userID, taskID string) (*model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error

	// === Reminders ===

	// ReplaceReminder atomically deletes any existing reminder rows for
	// taskID and inserts exactly one new active reminder derived from the
	// given fire time and policy.
	ReplaceReminder(ctx context.Context, taskID, userID string, fireAt time.Time, policy model.Policy) (model.Reminder, error)

	// ClearReminders deletes all reminder rows for the task.
	// Idempotent; clearing a task with no reminders is a no-op.
	ClearReminders(ctx context.Context, taskID, userID string) error

	// GetActiveReminder returns the task's active reminder, or nil when
	// the task has none.
	GetActiveReminder(ctx context.Context, taskID, userID string) (*model.Reminder, error)

	// ListActiveReminders returns every active reminder across all tasks,
	// ordered by fire time. Used for diagnostics and for re-registering
	// schedules after a process restart.
	ListActiveReminders(ctx context.Context) ([]model.Reminder, error)
}

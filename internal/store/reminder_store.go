package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/task-reminders/internal/model"
)

// ReplaceReminder atomically replaces the reminder for a task.
//
// The delete-then-insert pair runs inside one transaction so two concurrent
// replacements can never both observe "no existing reminder" and leave two
// active rows behind. The delete tolerates more than one pre-existing row
// as a repair step.
func (s *SQLiteStore) ReplaceReminder(
	ctx context.Context,
	taskID, userID string,
	fireAt time.Time,
	policy model.Policy,
) (model.Reminder, error) {
	now := time.Now().UTC()
	rem := model.Reminder{
		TaskID:    taskID,
		UserID:    userID,
		FireAt:    fireAt.UTC(),
		Policy:    policy,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM reminders WHERE task_id = ? AND user_id = ?",
		taskID, userID,
	); err != nil {
		return model.Reminder{}, fmt.Errorf("deleting old reminders for task %s: %w", taskID, err)
	}

	var policyAt *time.Time
	if rem.Policy.Kind == model.PolicyAbsolute {
		at := rem.Policy.At.UTC()
		policyAt = &at
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reminders (
			task_id, user_id, fire_at,
			policy_kind, offset_minutes, policy_at,
			active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.TaskID, rem.UserID, rem.FireAt,
		string(rem.Policy.Kind), rem.Policy.OffsetMinutes, policyAt,
		boolToInt(rem.Active), rem.CreatedAt, rem.UpdatedAt,
	); err != nil {
		return model.Reminder{}, fmt.Errorf("inserting reminder for task %s: %w", taskID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Reminder{}, fmt.Errorf("committing reminder replacement for task %s: %w", taskID, err)
	}

	return rem, nil
}

// ClearReminders deletes all reminder rows for a task. No-op if none exist.
func (s *SQLiteStore) ClearReminders(ctx context.Context, taskID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM reminders WHERE task_id = ? AND user_id = ?",
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("clearing reminders for task %s: %w", taskID, err)
	}
	return nil
}

// GetActiveReminder returns the task's active reminder, or nil when none exists.
func (s *SQLiteStore) GetActiveReminder(
	ctx context.Context,
	taskID, userID string,
) (*model.Reminder, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM reminders WHERE task_id = ? AND user_id = ? AND active = 1",
		taskID, userID,
	)

	rem, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting reminder for task %s: %w", taskID, err)
	}

	return &rem, nil
}

// ListActiveReminders returns all active reminders ordered by fire time.
func (s *SQLiteStore) ListActiveReminders(ctx context.Context) ([]model.Reminder, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM reminders WHERE active = 1 ORDER BY fire_at",
	)
	if err != nil {
		return nil, fmt.Errorf("querying active reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// scanReminder scans a reminder row from either sqlx.Rows or sqlx.Row.
func scanReminder(row interface{ Scan(dest ...interface{}) error }) (model.Reminder, error) {
	var (
		rem        model.Reminder
		policyKind string
		policyAt   *time.Time
		activeInt  int
	)

	err := row.Scan(
		&rem.TaskID, &rem.UserID, &rem.FireAt,
		&policyKind, &rem.Policy.OffsetMinutes, &policyAt,
		&activeInt, &rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, err
		}
		return model.Reminder{}, fmt.Errorf("scanning reminder row: %w", err)
	}

	rem.Policy.Kind = model.PolicyKind(policyKind)
	if policyAt != nil {
		rem.Policy.At = *policyAt
	}
	rem.Active = activeInt != 0

	return rem, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-reminders/internal/model"
)

// UpsertTask inserts or replaces a task. Generates a task ID if empty.
func (s *SQLiteStore) UpsertTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if task.UserID == "" {
		return fmt.Errorf("task user id must not be empty")
	}
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks (
			user_id, task_id, title, description,
			due_date, due_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.TaskID, task.Title, task.Description,
		task.DueDate, task.DueTime, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting task %s: %w", task.TaskID, err)
	}
	return nil
}

// GetTask retrieves a single task, or nil when it does not exist.
func (s *SQLiteStore) GetTask(
	ctx context.Context,
	userID, taskID string,
) (*model.Task, error) {
	var task model.Task
	err := s.db.QueryRowxContext(ctx,
		"SELECT * FROM tasks WHERE user_id = ? AND task_id = ?",
		userID, taskID,
	).Scan(
		&task.UserID, &task.TaskID, &task.Title, &task.Description,
		&task.DueDate, &task.DueTime, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting task %s: %w", taskID, err)
	}

	return &task, nil
}

// DeleteTask removes a task and any reminder rows hanging off it.
// Reminder cleanup runs in the same transaction so a deleted task can
// never leave an orphaned active reminder behind.
func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM reminders WHERE task_id = ? AND user_id = ?",
		taskID, userID,
	); err != nil {
		return fmt.Errorf("deleting reminders for task %s: %w", taskID, err)
	}

	result, err := tx.ExecContext(ctx,
		"DELETE FROM tasks WHERE user_id = ? AND task_id = ?",
		userID, taskID,
	)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}

	return tx.Commit()
}

// Package remind implements reminder time resolution and the reminder
// lifecycle orchestration for tasks.
package remind

import (
	"errors"
	"fmt"
	"time"

	"github.com/nhle/task-reminders/internal/model"
)

// Resolution errors. Callers match these with errors.Is.
var (
	// ErrMissingDueTime indicates an offset policy was applied to a task
	// without a due time.
	ErrMissingDueTime = errors.New("task has no due time")

	// ErrInvalidDate indicates the task's due date is absent or unparsable.
	ErrInvalidDate = errors.New("invalid due date")

	// ErrInvalidTime indicates the task's due time is unparsable.
	ErrInvalidTime = errors.New("invalid due time")

	// ErrAlreadyPassed indicates an offset policy computed a fire time
	// that is not in the future. Resolve still returns the computed
	// time alongside this error so the caller can choose to fire
	// immediately instead of rejecting.
	ErrAlreadyPassed = errors.New("fire time has already passed")
)

// Resolve converts a task's due date/time and a reminder policy into the
// absolute time at which the reminder should fire. Pure and deterministic
// given now.
//
// Offset policies require a parseable due date and time and never roll
// forward: a fire time in the past is returned together with
// ErrAlreadyPassed. Absolute policies roll forward by one calendar day
// when the requested time has already elapsed, so picking a bare clock
// time always means its next occurrence.
func Resolve(dueDate, dueTime string, policy model.Policy, now time.Time) (time.Time, error) {
	switch policy.Kind {
	case model.PolicyOffsetBefore:
		return resolveOffset(dueDate, dueTime, policy.OffsetMinutes, now)
	case model.PolicyAbsolute:
		if policy.At.After(now) {
			return policy.At, nil
		}
		return policy.At.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, fmt.Errorf("unknown reminder policy kind %q", policy.Kind)
	}
}

// resolveOffset computes dueTimestamp minus the offset, in now's location.
func resolveOffset(dueDate, dueTime string, offsetMinutes int, now time.Time) (time.Time, error) {
	if dueDate == "" {
		return time.Time{}, fmt.Errorf("due date is empty: %w", ErrInvalidDate)
	}
	if dueTime == "" {
		return time.Time{}, ErrMissingDueTime
	}

	loc := now.Location()

	date, err := time.ParseInLocation(model.DueDateLayout, dueDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing due date %q: %w", dueDate, ErrInvalidDate)
	}

	clock, err := time.Parse(model.DueTimeLayout, dueTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing due time %q: %w", dueTime, ErrInvalidTime)
	}

	due := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, loc,
	)

	fireAt := due.Add(-time.Duration(offsetMinutes) * time.Minute)
	if !fireAt.After(now) {
		return fireAt, ErrAlreadyPassed
	}

	return fireAt, nil
}

package alarm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/nhle/task-reminders/internal/model"
)

// UserAction is the explicit choice a user makes on a firing alarm.
// There is no implicit dismissal: only Stop and Snooze resolve an alarm.
type UserAction int

const (
	// ActionStop dismisses the alarm and clears the reminder.
	ActionStop UserAction = iota

	// ActionSnooze pushes the alarm out and re-enters scheduling.
	ActionSnooze
)

// Presenter shows a firing alarm full screen, over a locked or idle
// display, and blocks until the user picks an action. Implementations
// must ignore generic back/dismiss gestures.
type Presenter interface {
	Present(ctx context.Context, state model.AlarmRuntimeState) (UserAction, error)
}

// State is a task's position in the alarm lifecycle.
type State int

const (
	StateNone State = iota
	StateScheduled
	StateFiring
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateScheduled:
		return "scheduled"
	case StateFiring:
		return "firing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrAlreadyFiring indicates a fire callback arrived for a task whose
// alarm is already being presented.
var ErrAlreadyFiring = errors.New("alarm is already firing")

// Lifecycle tracks the per-task alarm state machine and owns the
// presentation of firing alarms. Valid transitions:
//
//	NONE      -> SCHEDULED            (reminder set)
//	SCHEDULED -> SCHEDULED            (reminder replaced)
//	SCHEDULED -> FIRING               (wake-up delivered)
//	FIRING    -> NONE                 (stopped, or task deleted mid-alarm)
//	FIRING    -> SCHEDULED            (snoozed)
//	SCHEDULED -> NONE, NONE -> NONE   (cancelled)
//
// While a task is in FIRING an ongoing notification is kept up under
// AlarmNoteID, so the alarm stays visible even if the full-screen view
// is pushed to the background.
type Lifecycle struct {
	presenter Presenter
	notifier  Notifier

	mu     sync.Mutex
	states map[string]State
}

// NewLifecycle creates a Lifecycle that presents alarms through p and
// posts the ongoing firing notification through n.
func NewLifecycle(p Presenter, n Notifier) *Lifecycle {
	return &Lifecycle{
		presenter: p,
		notifier:  n,
		states:    make(map[string]State),
	}
}

// State returns the task's current lifecycle state.
func (l *Lifecycle) State(taskID string) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[taskID]
}

// MarkScheduled records that the task has a pending schedule.
func (l *Lifecycle) MarkScheduled(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[taskID] = StateScheduled
}

// MarkNone records that the task has no reminder. Valid from any state;
// cancellation of an unknown task is a no-op.
func (l *Lifecycle) MarkNone(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.states, taskID)
}

// Fire transitions the task to FIRING and presents the alarm, blocking
// until the user acts. The caller applies the follow-up transition:
// MarkNone after a stop, MarkScheduled after a snooze re-schedule.
//
// A second fire for a task already in FIRING returns ErrAlreadyFiring
// without presenting. If presentation itself fails the task returns to
// SCHEDULED so the alarm is not silently lost.
func (l *Lifecycle) Fire(ctx context.Context, state model.AlarmRuntimeState) (UserAction, error) {
	l.mu.Lock()
	if l.states[state.TaskID] == StateFiring {
		l.mu.Unlock()
		return ActionStop, ErrAlreadyFiring
	}
	l.states[state.TaskID] = StateFiring
	l.mu.Unlock()

	noteID := AlarmNoteID(state.TaskID)
	if err := l.notifier.ShowOngoing(noteID, "Reminder", state.Title); err != nil {
		log.Printf("alarm: showing firing notification for task %s: %v", state.TaskID, err)
	}
	defer l.notifier.Cancel(noteID)

	action, err := l.presenter.Present(ctx, state)
	if err != nil {
		l.mu.Lock()
		l.states[state.TaskID] = StateScheduled
		l.mu.Unlock()
		return ActionStop, fmt.Errorf("presenting alarm for task %s: %w", state.TaskID, err)
	}

	return action, nil
}

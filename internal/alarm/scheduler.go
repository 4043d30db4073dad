// Package alarm wraps the OS wake-up timer and notification facilities
// behind narrow contracts and drives the firing-alarm state machine.
package alarm

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// FirePayload is the data attached to a scheduled wake-up. It carries
// enough to render the alarm immediately when the callback arrives,
// without a database round trip.
type FirePayload struct {
	TaskID      string
	UserID      string
	Title       string
	Description string
	FireAt      time.Time
}

// ErrExactSchedulingDenied is reported by WakeTimer implementations when
// the exact, wake-device-if-idle mode needs a permission the host does
// not hold. The scheduler downgrades it to best-effort delivery.
var ErrExactSchedulingDenied = errors.New("exact scheduling permission denied")

// WakeTimer is the minimal contract required from the OS one-shot
// wake-up facility.
type WakeTimer interface {
	// RegisterOneShot schedules a single wake-up at the given absolute
	// time under a cancellation key. When exact is true the facility
	// must wake an idle device; it returns ErrExactSchedulingDenied if
	// that mode needs a missing permission.
	RegisterOneShot(key string, at time.Time, payload FirePayload, exact bool) error

	// Cancel removes a pending wake-up. Cancelling an unknown key is a
	// no-op.
	Cancel(key string)
}

// Outcome reports how a schedule request landed.
type Outcome int

const (
	// OutcomeExact means the wake-up was registered in exact mode.
	OutcomeExact Outcome = iota

	// OutcomeInexact means exact mode was unavailable and the wake-up
	// was registered best-effort instead.
	OutcomeInexact
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeExact:
		return "exact"
	case OutcomeInexact:
		return "inexact"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Scheduler registers one-shot alarm wake-ups keyed by task id, with at
// most one pending schedule per task.
type Scheduler struct {
	timer WakeTimer

	mu          sync.Mutex
	pending     map[string]time.Time
	exactDenied bool
}

// NewScheduler creates a Scheduler over the given wake-up facility.
func NewScheduler(timer WakeTimer) *Scheduler {
	return &Scheduler{
		timer:   timer,
		pending: make(map[string]time.Time),
	}
}

// Schedule registers a wake-up for the payload's task at its fire time,
// replacing any pending schedule for the same task. A fire time in the
// past is passed through unchanged; facilities deliver it immediately.
//
// Permission denial for exact alarms is not an error: the wake-up is
// re-registered best-effort and the outcome reports OutcomeInexact.
func (s *Scheduler) Schedule(p FirePayload) (Outcome, error) {
	key := alarmKey(p.TaskID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cancel explicitly rather than relying on the facility's
	// re-registration semantics, which vary between overwrite and error.
	s.timer.Cancel(key)
	delete(s.pending, p.TaskID)

	err := s.timer.RegisterOneShot(key, p.FireAt, p, true)
	if errors.Is(err, ErrExactSchedulingDenied) {
		if !s.exactDenied {
			s.exactDenied = true
			log.Printf("alarm: exact scheduling unavailable, falling back to best-effort delivery")
		}
		if err := s.timer.RegisterOneShot(key, p.FireAt, p, false); err != nil {
			return OutcomeInexact, fmt.Errorf("registering inexact wake-up for task %s: %w", p.TaskID, err)
		}
		s.pending[p.TaskID] = p.FireAt
		return OutcomeInexact, nil
	}
	if err != nil {
		return OutcomeExact, fmt.Errorf("registering wake-up for task %s: %w", p.TaskID, err)
	}

	s.pending[p.TaskID] = p.FireAt
	return OutcomeExact, nil
}

// Cancel removes any pending schedule for the task. Idempotent.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer.Cancel(alarmKey(taskID))
	delete(s.pending, taskID)
}

// Pending returns the fire time of the task's pending schedule, if any.
func (s *Scheduler) Pending(taskID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.pending[taskID]
	return at, ok
}

// alarmKey derives the wake-up cancellation key for a task's real alarm.
// Lead-time pre-alerts use a separate key namespace (see upcomingKey).
func alarmKey(taskID string) string {
	return "alarm:" + taskID
}

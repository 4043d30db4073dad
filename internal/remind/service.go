package remind

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nhle/task-reminders/internal/alarm"
	"github.com/nhle/task-reminders/internal/model"
	"github.com/nhle/task-reminders/internal/store"
)

// AlarmScheduler registers the real alarm wake-up for a task.
type AlarmScheduler interface {
	Schedule(p alarm.FirePayload) (alarm.Outcome, error)
	Cancel(taskID string)
}

// LeadNotifier manages the upcoming pre-alert for a task.
type LeadNotifier interface {
	ScheduleLead(taskID, title string, fireAt time.Time) error
	Dismiss(taskID string)
}

// ErrReminderRejected indicates an offset policy computed a fire time in
// the past and the service is configured to reject rather than fire
// immediately.
var ErrReminderRejected = errors.New("reminder time has already passed")

// Options configures a Service.
type Options struct {
	// DefaultSnoozeMinutes is used when Snooze is called with a
	// non-positive duration. Zero falls back to 10.
	DefaultSnoozeMinutes int

	// FirePastDue fires offset reminders whose computed time has
	// already passed instead of rejecting them.
	FirePastDue bool

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service orchestrates the reminder lifecycle: resolving fire times,
// persisting the single active reminder per task, and registering the
// alarm and pre-alert wake-ups.
//
// All mutating operations for one task are serialized through a
// per-task mutex, so concurrent calls collapse to last-writer-wins with
// exactly one persisted and scheduled reminder. Operations on different
// tasks proceed independently.
type Service struct {
	store     store.Store
	scheduler AlarmScheduler
	upcoming  LeadNotifier
	lifecycle *alarm.Lifecycle

	snooze      time.Duration
	firePastDue bool
	now         func() time.Time

	mu        sync.Mutex
	taskLocks map[string]*sync.Mutex
}

// NewService creates a Service over the given collaborators.
func NewService(
	st store.Store,
	scheduler AlarmScheduler,
	upcoming LeadNotifier,
	lifecycle *alarm.Lifecycle,
	opts Options,
) *Service {
	snoozeMinutes := opts.DefaultSnoozeMinutes
	if snoozeMinutes <= 0 {
		snoozeMinutes = 10
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:       st,
		scheduler:   scheduler,
		upcoming:    upcoming,
		lifecycle:   lifecycle,
		snooze:      time.Duration(snoozeMinutes) * time.Minute,
		firePastDue: opts.FirePastDue,
		now:         now,
		taskLocks:   make(map[string]*sync.Mutex),
	}
}

// lockTask acquires the task's mutex and returns its unlock function.
func (s *Service) lockTask(taskID string) func() {
	s.mu.Lock()
	lock, ok := s.taskLocks[taskID]
	if !ok {
		lock = &sync.Mutex{}
		s.taskLocks[taskID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Set resolves the fire time for the task under the given policy,
// replaces the task's persisted reminder, and registers the alarm and
// pre-alert wake-ups.
//
// On a partial failure after the reminder row was written, the row is
// cleared and any registrations are cancelled before the error is
// returned, so the system never holds a reminder that is recorded but
// not scheduled.
func (s *Service) Set(ctx context.Context, task model.Task, policy model.Policy) (model.Reminder, alarm.Outcome, error) {
	unlock := s.lockTask(task.TaskID)
	defer unlock()

	return s.setLocked(ctx, task, policy)
}

// setLocked is Set without the per-task lock; callers must hold it.
func (s *Service) setLocked(ctx context.Context, task model.Task, policy model.Policy) (model.Reminder, alarm.Outcome, error) {
	now := s.now()

	fireAt, err := Resolve(task.DueDate, task.DueTime, policy, now)
	if err != nil {
		if !errors.Is(err, ErrAlreadyPassed) {
			return model.Reminder{}, alarm.OutcomeExact, err
		}
		if !s.firePastDue {
			return model.Reminder{}, alarm.OutcomeExact, ErrReminderRejected
		}
		// Past fire times pass through; the wake-up facility
		// delivers them immediately.
	}

	rem, err := s.store.ReplaceReminder(ctx, task.TaskID, task.UserID, fireAt, policy)
	if err != nil {
		return model.Reminder{}, alarm.OutcomeExact, fmt.Errorf("persisting reminder for task %s: %w", task.TaskID, err)
	}

	payload := alarm.FirePayload{
		TaskID:      task.TaskID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		FireAt:      rem.FireAt,
	}

	outcome, err := s.scheduler.Schedule(payload)
	if err != nil {
		s.rollback(ctx, task.TaskID, task.UserID)
		return model.Reminder{}, outcome, fmt.Errorf("scheduling reminder for task %s: %w", task.TaskID, err)
	}

	if err := s.upcoming.ScheduleLead(task.TaskID, task.Title, rem.FireAt); err != nil {
		s.rollback(ctx, task.TaskID, task.UserID)
		return model.Reminder{}, outcome, fmt.Errorf("scheduling pre-alert for task %s: %w", task.TaskID, err)
	}

	s.lifecycle.MarkScheduled(task.TaskID)
	return rem, outcome, nil
}

// rollback restores the no-reminder state after a partial Set failure.
func (s *Service) rollback(ctx context.Context, taskID, userID string) {
	if err := s.store.ClearReminders(ctx, taskID, userID); err != nil {
		log.Printf("remind: rolling back reminder for task %s: %v", taskID, err)
	}
	s.scheduler.Cancel(taskID)
	s.upcoming.Dismiss(taskID)
	s.lifecycle.MarkNone(taskID)
}

// Cancel clears the task's reminder, pending wake-ups, and pre-alert.
// Idempotent; cancelling a task with no reminder is a no-op.
func (s *Service) Cancel(ctx context.Context, userID, taskID string) error {
	unlock := s.lockTask(taskID)
	defer unlock()

	return s.cancelLocked(ctx, userID, taskID)
}

// cancelLocked is Cancel without the per-task lock; callers must hold it.
func (s *Service) cancelLocked(ctx context.Context, userID, taskID string) error {
	if err := s.store.ClearReminders(ctx, taskID, userID); err != nil {
		return fmt.Errorf("cancelling reminder for task %s: %w", taskID, err)
	}
	s.scheduler.Cancel(taskID)
	s.upcoming.Dismiss(taskID)
	s.lifecycle.MarkNone(taskID)
	return nil
}

// Stop resolves a firing alarm: the reminder is cleared and all
// registrations are cancelled.
func (s *Service) Stop(ctx context.Context, userID, taskID string) error {
	return s.Cancel(ctx, userID, taskID)
}

// Snooze pushes a firing reminder out by the given number of minutes
// (the configured default when minutes is non-positive) by re-entering
// Set with an absolute-time policy of now plus the snooze window.
func (s *Service) Snooze(ctx context.Context, userID, taskID string, minutes int) (model.Reminder, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	window := time.Duration(minutes) * time.Minute
	if minutes <= 0 {
		window = s.snooze
	}

	task, err := s.store.GetTask(ctx, userID, taskID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("snoozing reminder for task %s: %w", taskID, err)
	}
	if task == nil {
		// Task deleted while the alarm was up: forced stop.
		if err := s.cancelLocked(ctx, userID, taskID); err != nil {
			return model.Reminder{}, err
		}
		return model.Reminder{}, fmt.Errorf("task %s no longer exists", taskID)
	}

	rem, _, err := s.setLocked(ctx, *task, model.AtAbsoluteTime(s.now().Add(window)))
	return rem, err
}

// HandleFire processes a delivered alarm wake-up. The payload is
// reconciled against the store before anything is shown: if the reminder
// was cancelled or replaced after this wake-up was registered, the
// callback is stale and is discarded silently, with cancellation
// authoritative over scheduling.
func (s *Service) HandleFire(ctx context.Context, p alarm.FirePayload) error {
	unlock := s.lockTask(p.TaskID)
	rem, err := s.store.GetActiveReminder(ctx, p.TaskID, p.UserID)
	if err != nil {
		unlock()
		return fmt.Errorf("reconciling fire callback for task %s: %w", p.TaskID, err)
	}
	if rem == nil || !rem.FireAt.Equal(p.FireAt) {
		unlock()
		log.Printf("remind: discarding stale fire callback for task %s", p.TaskID)
		return nil
	}
	unlock()

	// The pre-alert is superseded by the alarm itself.
	s.upcoming.Dismiss(p.TaskID)

	state := model.AlarmRuntimeState{
		TaskID:      p.TaskID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		FireAt:      p.FireAt,
		StartedAt:   s.now(),
	}

	action, err := s.lifecycle.Fire(ctx, state)
	if err != nil {
		if errors.Is(err, alarm.ErrAlreadyFiring) {
			return nil
		}
		return err
	}

	switch action {
	case alarm.ActionSnooze:
		if _, err := s.Snooze(ctx, p.UserID, p.TaskID, 0); err != nil {
			return err
		}
		return nil
	default:
		return s.Stop(ctx, p.UserID, p.TaskID)
	}
}

// Rehydrate re-registers wake-ups for every active reminder after a
// process restart. Reminders whose fire time has already passed are
// scheduled as-is and deliver immediately. Individual failures are
// logged and skipped so one bad row cannot block the rest.
func (s *Service) Rehydrate(ctx context.Context) error {
	rems, err := s.store.ListActiveReminders(ctx)
	if err != nil {
		return fmt.Errorf("listing active reminders: %w", err)
	}

	for _, rem := range rems {
		unlock := s.lockTask(rem.TaskID)

		payload := alarm.FirePayload{
			TaskID: rem.TaskID,
			UserID: rem.UserID,
			FireAt: rem.FireAt,
		}
		if task, err := s.store.GetTask(ctx, rem.UserID, rem.TaskID); err == nil && task != nil {
			payload.Title = task.Title
			payload.Description = task.Description
		}

		if _, err := s.scheduler.Schedule(payload); err != nil {
			log.Printf("remind: rehydrating reminder for task %s: %v", rem.TaskID, err)
			unlock()
			continue
		}
		if err := s.upcoming.ScheduleLead(rem.TaskID, payload.Title, rem.FireAt); err != nil {
			log.Printf("remind: rehydrating pre-alert for task %s: %v", rem.TaskID, err)
		}
		s.lifecycle.MarkScheduled(rem.TaskID)

		unlock()
	}

	return nil
}

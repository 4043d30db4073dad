package alarm

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeWakeTimer records registrations and can refuse exact mode.
type fakeWakeTimer struct {
	mu         sync.Mutex
	calls      []string
	registered map[string]time.Time
	exact      map[string]bool
	denyExact  bool
	failAll    bool
}

func newFakeWakeTimer() *fakeWakeTimer {
	return &fakeWakeTimer{
		registered: make(map[string]time.Time),
		exact:      make(map[string]bool),
	}
}

func (f *fakeWakeTimer) RegisterOneShot(key string, at time.Time, payload FirePayload, exact bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		return fmt.Errorf("facility unavailable")
	}
	if exact && f.denyExact {
		return ErrExactSchedulingDenied
	}

	f.calls = append(f.calls, "register:"+key)
	f.registered[key] = at
	f.exact[key] = exact
	return nil
}

func (f *fakeWakeTimer) Cancel(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "cancel:"+key)
	delete(f.registered, key)
	delete(f.exact, key)
}

func TestSchedulerRegistersExact(t *testing.T) {
	timer := newFakeWakeTimer()
	s := NewScheduler(timer)

	fireAt := time.Now().Add(time.Hour)
	outcome, err := s.Schedule(FirePayload{TaskID: "task-1", FireAt: fireAt})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if outcome != OutcomeExact {
		t.Errorf("outcome = %v, want exact", outcome)
	}

	at, ok := s.Pending("task-1")
	if !ok || !at.Equal(fireAt) {
		t.Errorf("Pending = (%v, %v), want (%v, true)", at, ok, fireAt)
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.exact["alarm:task-1"] {
		t.Error("wake-up was not registered in exact mode")
	}
}

func TestSchedulerFallsBackWhenExactDenied(t *testing.T) {
	timer := newFakeWakeTimer()
	timer.denyExact = true
	s := NewScheduler(timer)

	outcome, err := s.Schedule(FirePayload{TaskID: "task-1", FireAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("permission denial must not surface as an error, got: %v", err)
	}
	if outcome != OutcomeInexact {
		t.Errorf("outcome = %v, want inexact", outcome)
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()
	if _, ok := timer.registered["alarm:task-1"]; !ok {
		t.Error("no best-effort wake-up registered after exact denial")
	}
	if timer.exact["alarm:task-1"] {
		t.Error("fallback registration still requested exact mode")
	}
}

func TestSchedulerCancelsBeforeRescheduling(t *testing.T) {
	timer := newFakeWakeTimer()
	s := NewScheduler(timer)

	payload := FirePayload{TaskID: "task-1", FireAt: time.Now().Add(time.Hour)}
	if _, err := s.Schedule(payload); err != nil {
		t.Fatalf("first Schedule: %v", err)
	}

	payload.FireAt = payload.FireAt.Add(time.Hour)
	if _, err := s.Schedule(payload); err != nil {
		t.Fatalf("second Schedule: %v", err)
	}

	timer.mu.Lock()
	defer timer.mu.Unlock()

	// Replacement must cancel explicitly instead of relying on the
	// facility's overwrite semantics.
	want := []string{
		"cancel:alarm:task-1", "register:alarm:task-1",
		"cancel:alarm:task-1", "register:alarm:task-1",
	}
	if len(timer.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", timer.calls, want)
	}
	for i, call := range want {
		if timer.calls[i] != call {
			t.Fatalf("calls[%d] = %q, want %q (full: %v)", i, timer.calls[i], call, timer.calls)
		}
	}
}

func TestSchedulerCancelIsIdempotent(t *testing.T) {
	timer := newFakeWakeTimer()
	s := NewScheduler(timer)

	// Cancelling with nothing pending is a no-op, not an error.
	s.Cancel("task-1")

	if _, err := s.Schedule(FirePayload{TaskID: "task-1", FireAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	s.Cancel("task-1")
	s.Cancel("task-1")

	if _, ok := s.Pending("task-1"); ok {
		t.Error("schedule still pending after cancel")
	}
}

func TestSchedulerSurfacesFacilityFailure(t *testing.T) {
	timer := newFakeWakeTimer()
	timer.failAll = true
	s := NewScheduler(timer)

	_, err := s.Schedule(FirePayload{TaskID: "task-1", FireAt: time.Now().Add(time.Hour)})
	if err == nil {
		t.Fatal("Schedule should surface non-permission facility failures")
	}
	if errors.Is(err, ErrExactSchedulingDenied) {
		t.Error("facility failure misreported as permission denial")
	}
	if _, ok := s.Pending("task-1"); ok {
		t.Error("failed schedule recorded as pending")
	}
}

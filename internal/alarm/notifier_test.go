package alarm

import (
	"sync"
	"testing"
	"time"
)

// fakeNotifier records shown and cancelled notifications.
type fakeNotifier struct {
	mu          sync.Mutex
	ongoing     []string
	dismissible []string
	cancelled   []string
}

func (f *fakeNotifier) ShowOngoing(id, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ongoing = append(f.ongoing, id)
	return nil
}

func (f *fakeNotifier) ShowDismissible(id, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissible = append(f.dismissible, id)
	return nil
}

func (f *fakeNotifier) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
}

func TestScheduleLeadRegistersWakeUpOutsideWindow(t *testing.T) {
	timer := newFakeWakeTimer()
	notes := &fakeNotifier{}
	n := NewUpcomingNotifier(timer, notes, time.Hour)

	fireAt := time.Now().Add(3 * time.Hour)
	if err := n.ScheduleLead("task-1", "Renew passport", fireAt); err != nil {
		t.Fatalf("ScheduleLead: %v", err)
	}

	timer.mu.Lock()
	at, ok := timer.registered["upcoming:task-1"]
	timer.mu.Unlock()
	if !ok {
		t.Fatal("no lead wake-up registered")
	}
	want := fireAt.Add(-time.Hour)
	if !at.Equal(want) {
		t.Errorf("lead wake-up at %v, want %v", at, want)
	}

	notes.mu.Lock()
	defer notes.mu.Unlock()
	if len(notes.dismissible) != 0 {
		t.Error("pre-alert shown immediately despite being outside the lead window")
	}
}

func TestScheduleLeadShowsImmediatelyInsideWindow(t *testing.T) {
	timer := newFakeWakeTimer()
	notes := &fakeNotifier{}
	n := NewUpcomingNotifier(timer, notes, time.Hour)

	// Only 10 minutes remain, less than the one hour lead.
	fireAt := time.Now().Add(10 * time.Minute)
	if err := n.ScheduleLead("task-1", "Renew passport", fireAt); err != nil {
		t.Fatalf("ScheduleLead: %v", err)
	}

	timer.mu.Lock()
	_, registered := timer.registered["upcoming:task-1"]
	timer.mu.Unlock()
	if registered {
		t.Error("lead wake-up registered despite being inside the window")
	}

	notes.mu.Lock()
	defer notes.mu.Unlock()
	if len(notes.dismissible) != 1 || notes.dismissible[0] != UpcomingNoteID("task-1") {
		t.Errorf("shown = %v, want immediate pre-alert %q", notes.dismissible, UpcomingNoteID("task-1"))
	}
}

func TestHandleLeadFireShowsPreAlert(t *testing.T) {
	timer := newFakeWakeTimer()
	notes := &fakeNotifier{}
	n := NewUpcomingNotifier(timer, notes, time.Hour)

	n.HandleLeadFire(FirePayload{TaskID: "task-1", Title: "Renew passport", FireAt: time.Now().Add(time.Hour)})

	notes.mu.Lock()
	defer notes.mu.Unlock()
	if len(notes.dismissible) != 1 {
		t.Fatalf("shown %d pre-alerts, want 1", len(notes.dismissible))
	}
}

func TestDismissCancelsWakeUpAndNotification(t *testing.T) {
	timer := newFakeWakeTimer()
	notes := &fakeNotifier{}
	n := NewUpcomingNotifier(timer, notes, time.Hour)

	if err := n.ScheduleLead("task-1", "Renew passport", time.Now().Add(3*time.Hour)); err != nil {
		t.Fatalf("ScheduleLead: %v", err)
	}

	n.Dismiss("task-1")
	n.Dismiss("task-1") // idempotent

	timer.mu.Lock()
	_, registered := timer.registered["upcoming:task-1"]
	timer.mu.Unlock()
	if registered {
		t.Error("lead wake-up still registered after dismiss")
	}

	notes.mu.Lock()
	defer notes.mu.Unlock()
	if len(notes.cancelled) != 2 {
		t.Errorf("cancelled %d notifications, want one per Dismiss call", len(notes.cancelled))
	}
	for _, id := range notes.cancelled {
		if id != UpcomingNoteID("task-1") {
			t.Errorf("cancelled %q, want %q", id, UpcomingNoteID("task-1"))
		}
	}
}

func TestNoteIDNamespacesAreDisjoint(t *testing.T) {
	if AlarmNoteID("task-1") == UpcomingNoteID("task-1") {
		t.Error("alarm and pre-alert notification ids collide for the same task")
	}
	if alarmKey("task-1") == upcomingKey("task-1") {
		t.Error("alarm and pre-alert wake-up keys collide for the same task")
	}
}

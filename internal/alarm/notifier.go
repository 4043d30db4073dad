package alarm

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Notifier is the minimal contract required from the OS notification
// facility. The real alarm and the upcoming pre-alert use disjoint
// notification ids (see AlarmNoteID and UpcomingNoteID) so one can be
// cancelled without touching the other.
type Notifier interface {
	// ShowOngoing displays a persistent notification the user cannot
	// swipe away.
	ShowOngoing(id, title, body string) error

	// ShowDismissible displays a normal, dismissible notification.
	ShowDismissible(id, title, body string) error

	// Cancel removes a notification. Unknown ids are a no-op.
	Cancel(id string)
}

// AlarmNoteID returns the notification id for a task's real alarm.
func AlarmNoteID(taskID string) string {
	return "note:alarm:" + taskID
}

// UpcomingNoteID returns the notification id for a task's pre-alert.
func UpcomingNoteID(taskID string) string {
	return "note:upcoming:" + taskID
}

// upcomingKey derives the wake-up cancellation key for a task's
// lead-time pre-alert.
func upcomingKey(taskID string) string {
	return "upcoming:" + taskID
}

// UpcomingNotifier shows a dismissible heads-up notification a fixed
// lead time before a task's real alarm fires.
type UpcomingNotifier struct {
	timer    WakeTimer
	notifier Notifier
	lead     time.Duration
	now      func() time.Time
}

// NewUpcomingNotifier creates an UpcomingNotifier. A non-positive lead
// falls back to one hour. The wake timer must route its deliveries to
// HandleLeadFire.
func NewUpcomingNotifier(timer WakeTimer, notifier Notifier, lead time.Duration) *UpcomingNotifier {
	if lead <= 0 {
		lead = time.Hour
	}
	return &UpcomingNotifier{
		timer:    timer,
		notifier: notifier,
		lead:     lead,
		now:      time.Now,
	}
}

// ScheduleLead arranges the pre-alert for a task whose alarm fires at
// fireAt. When more than the lead window remains, a wake-up is
// registered at fireAt minus the lead; otherwise the pre-alert is shown
// immediately. Pre-alerts never need exact delivery.
func (n *UpcomingNotifier) ScheduleLead(taskID, title string, fireAt time.Time) error {
	leadAt := fireAt.Add(-n.lead)
	if leadAt.After(n.now()) {
		payload := FirePayload{TaskID: taskID, Title: title, FireAt: fireAt}
		if err := n.timer.RegisterOneShot(upcomingKey(taskID), leadAt, payload, false); err != nil {
			return fmt.Errorf("registering pre-alert wake-up for task %s: %w", taskID, err)
		}
		return nil
	}

	return n.show(taskID, title, fireAt)
}

// HandleLeadFire shows the pre-alert for a delivered lead-time wake-up.
func (n *UpcomingNotifier) HandleLeadFire(p FirePayload) {
	if err := n.show(p.TaskID, p.Title, p.FireAt); err != nil {
		log.Printf("alarm: showing pre-alert for task %s: %v", p.TaskID, err)
	}
}

// Dismiss cancels the pending lead-time wake-up and any visible
// pre-alert for the task. Idempotent.
func (n *UpcomingNotifier) Dismiss(taskID string) {
	n.timer.Cancel(upcomingKey(taskID))
	n.notifier.Cancel(UpcomingNoteID(taskID))
}

// show displays the pre-alert notification.
func (n *UpcomingNotifier) show(taskID, title string, fireAt time.Time) error {
	body := fmt.Sprintf("%s - reminder at %s", title, fireAt.Local().Format("15:04"))
	if err := n.notifier.ShowDismissible(UpcomingNoteID(taskID), "Upcoming reminder", body); err != nil {
		return fmt.Errorf("showing pre-alert for task %s: %w", taskID, err)
	}
	return nil
}

// LogNotifier is a Notifier that writes notifications to the process
// log. Used by the headless terminal host.
type LogNotifier struct {
	mu      sync.Mutex
	visible map[string]bool
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{visible: make(map[string]bool)}
}

// ShowOngoing logs a persistent notification.
func (n *LogNotifier) ShowOngoing(id, title, body string) error {
	n.mu.Lock()
	n.visible[id] = true
	n.mu.Unlock()

	log.Printf("notification (ongoing) [%s] %s: %s", id, title, body)
	return nil
}

// ShowDismissible logs a dismissible notification.
func (n *LogNotifier) ShowDismissible(id, title, body string) error {
	n.mu.Lock()
	n.visible[id] = true
	n.mu.Unlock()

	log.Printf("notification [%s] %s: %s", id, title, body)
	return nil
}

// Cancel removes a visible notification.
func (n *LogNotifier) Cancel(id string) {
	n.mu.Lock()
	shown := n.visible[id]
	delete(n.visible, id)
	n.mu.Unlock()

	if shown {
		log.Printf("notification [%s] cancelled", id)
	}
}

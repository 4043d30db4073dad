package alarm

import (
	"fmt"
	"sync"
	"time"
)

// LocalWakeTimer is an in-process WakeTimer backed by runtime timers.
// It is the facility used by the terminal host and by tests; a mobile or
// desktop build would substitute the platform's wake-up service behind
// the same interface.
//
// Exact mode is always available in-process, so RegisterOneShot never
// reports ErrExactSchedulingDenied. Registration times in the past
// deliver immediately.
type LocalWakeTimer struct {
	deliver func(FirePayload)

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewLocalWakeTimer creates a timer facility that invokes deliver on its
// own goroutine each time a registered wake-up fires.
func NewLocalWakeTimer(deliver func(FirePayload)) *LocalWakeTimer {
	return &LocalWakeTimer{
		deliver: deliver,
		timers:  make(map[string]*time.Timer),
	}
}

// RegisterOneShot schedules a single delivery of payload at the given
// time, replacing any pending registration under the same key.
func (l *LocalWakeTimer) RegisterOneShot(key string, at time.Time, payload FirePayload, exact bool) error {
	_ = exact // in-process delivery is always exact

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("wake timer is closed")
	}

	if t, ok := l.timers[key]; ok {
		t.Stop()
	}

	d := time.Until(at)
	if d < 0 {
		d = 0
	}

	l.timers[key] = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, key)
		closed := l.closed
		l.mu.Unlock()

		if !closed {
			l.deliver(payload)
		}
	})

	return nil
}

// Cancel stops a pending wake-up. Unknown keys are a no-op.
func (l *LocalWakeTimer) Cancel(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[key]; ok {
		t.Stop()
		delete(l.timers, key)
	}
}

// Close stops all pending wake-ups and suppresses further deliveries.
func (l *LocalWakeTimer) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for key, t := range l.timers {
		t.Stop()
		delete(l.timers, key)
	}
}

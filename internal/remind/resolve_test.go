package remind

import (
	"errors"
	"testing"
	"time"

	"github.com/nhle/task-reminders/internal/model"
)

func TestResolveOffsetBefore(t *testing.T) {
	now := time.Date(2025, 9, 28, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		dueDate string
		dueTime string
		minutes int
		want    time.Time
	}{
		{
			name:    "thirty minutes before",
			dueDate: "2025-09-29",
			dueTime: "14:30",
			minutes: 30,
			want:    time.Date(2025, 9, 29, 14, 0, 0, 0, time.Local),
		},
		{
			name:    "ten minutes before",
			dueDate: "2025-09-29",
			dueTime: "14:30",
			minutes: 10,
			want:    time.Date(2025, 9, 29, 14, 20, 0, 0, time.Local),
		},
		{
			name:    "offset crosses midnight",
			dueDate: "2025-09-29",
			dueTime: "00:15",
			minutes: 30,
			want:    time.Date(2025, 9, 28, 23, 45, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.dueDate, tt.dueTime, model.FixedOffsetBefore(tt.minutes), now)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveOffsetErrors(t *testing.T) {
	now := time.Date(2025, 9, 28, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		dueDate string
		dueTime string
		wantErr error
	}{
		{"missing due time", "2025-09-29", "", ErrMissingDueTime},
		{"missing due date", "", "14:30", ErrInvalidDate},
		{"garbage due date", "next tuesday", "14:30", ErrInvalidDate},
		{"garbage due time", "2025-09-29", "half past two", ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.dueDate, tt.dueTime, model.FixedOffsetBefore(10), now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveOffsetAlreadyPassed(t *testing.T) {
	now := time.Date(2025, 9, 29, 15, 0, 0, 0, time.Local)

	// Due 14:30 today with a 10 minute offset puts the fire time at
	// 14:20, forty minutes ago. Offset policies never roll forward;
	// the past value comes back alongside ErrAlreadyPassed.
	got, err := Resolve("2025-09-29", "14:30", model.FixedOffsetBefore(10), now)
	if !errors.Is(err, ErrAlreadyPassed) {
		t.Fatalf("Resolve error = %v, want ErrAlreadyPassed", err)
	}

	want := time.Date(2025, 9, 29, 14, 20, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveAbsoluteFuture(t *testing.T) {
	now := time.Date(2025, 9, 29, 9, 0, 0, 0, time.Local)
	at := time.Date(2025, 9, 29, 10, 30, 0, 0, time.Local)

	got, err := Resolve("", "", model.AtAbsoluteTime(at), now)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !got.Equal(at) {
		t.Errorf("Resolve = %v, want %v unchanged", got, at)
	}
}

func TestResolveAbsoluteRollsForwardOneDay(t *testing.T) {
	now := time.Date(2025, 9, 29, 9, 0, 0, 0, time.Local)

	// 08:30 has already passed today, so the reminder means the next
	// occurrence of that clock time: tomorrow morning.
	at := time.Date(2025, 9, 29, 8, 30, 0, 0, time.Local)

	got, err := Resolve("", "", model.AtAbsoluteTime(at), now)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := time.Date(2025, 9, 30, 8, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveUnknownPolicy(t *testing.T) {
	now := time.Date(2025, 9, 29, 9, 0, 0, 0, time.Local)

	if _, err := Resolve("2025-09-29", "14:30", model.Policy{}, now); err == nil {
		t.Error("Resolve accepted a zero policy")
	}
}

package model

import "time"

// PolicyKind identifies which reminder policy variant produced a fire time.
type PolicyKind string

const (
	// PolicyOffsetBefore fires a fixed number of minutes before the
	// task's due date/time.
	PolicyOffsetBefore PolicyKind = "offset_before"

	// PolicyAbsolute fires at a caller-supplied absolute time.
	PolicyAbsolute PolicyKind = "absolute"
)

// Common offset choices offered by the task form.
const (
	OffsetTenMinutes    = 10
	OffsetThirtyMinutes = 30
)

// Policy is the closed set of rules for deriving a reminder's fire time.
// Construct values with FixedOffsetBefore or AtAbsoluteTime; the zero
// value is not a valid policy.
type Policy struct {
	// Kind selects the variant.
	Kind PolicyKind `json:"kind" db:"policy_kind"`

	// OffsetMinutes is the lead offset for PolicyOffsetBefore.
	OffsetMinutes int `json:"offset_minutes,omitempty" db:"offset_minutes"`

	// At is the target time for PolicyAbsolute.
	At time.Time `json:"at,omitempty" db:"policy_at"`
}

// FixedOffsetBefore returns a policy that fires the given number of
// minutes before the task's due timestamp.
func FixedOffsetBefore(minutes int) Policy {
	return Policy{Kind: PolicyOffsetBefore, OffsetMinutes: minutes}
}

// AtAbsoluteTime returns a policy that fires at the given absolute time.
func AtAbsoluteTime(at time.Time) Policy {
	return Policy{Kind: PolicyAbsolute, At: at}
}

// Reminder is the single live reminder for a task. Its identity is the
// owning TaskID, so replacing a task's reminder is a natural upsert.
// At most one active reminder exists per task at any observable instant.
type Reminder struct {
	TaskID    string    `json:"task_id" db:"task_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	FireAt    time.Time `json:"fire_at" db:"fire_at"`
	Policy    Policy    `json:"policy"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AlarmRuntimeState is the in-memory state of a currently firing alarm.
// It carries everything the presentation host needs to render immediately,
// without a database round trip, and is discarded once the user stops or
// snoozes the alarm. Never persisted.
type AlarmRuntimeState struct {
	TaskID      string
	UserID      string
	Title       string
	Description string
	FireAt      time.Time
	StartedAt   time.Time
}

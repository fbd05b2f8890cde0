package model

import (
	"time"
)

// TimeEntry is an append-only interval of tracked time. EndedAt is nil while
// the timer is running. GoalID is nil for plain context timers that are not
// tied to any goal.
type TimeEntry struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	ContextID string     `db:"context_id"`
	GoalID    *string    `db:"goal_id"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (e *TimeEntry) Running() bool {
	return e.EndedAt == nil
}

// CounterEvent is an append-only increment against a counter goal. Rapid
// increments are coalesced client-side, so ValueDelta can exceed 1.
type CounterEvent struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ContextID  string    `db:"context_id"`
	GoalID     string    `db:"goal_id"`
	OccurredAt time.Time `db:"occurred_at"`
	ValueDelta int       `db:"value_delta"`
	CreatedAt  time.Time `db:"created_at"`
}

// CheckEvent records a boolean toggle against a check goal. The most recent
// event within a period wins.
type CheckEvent struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ContextID  string    `db:"context_id"`
	GoalID     string    `db:"goal_id"`
	OccurredAt time.Time `db:"occurred_at"`
	State      bool      `db:"state"`
	CreatedAt  time.Time `db:"created_at"`
}

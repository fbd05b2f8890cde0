package model

import (
	"time"
)

// GoalPeriod is the materialized value+status of one goal in one concrete
// period instance, keyed by (goal_id, period_start, period_end). It is a
// cache: always re-derivable from the goal and its raw events, and only ever
// written by recalculation.
type GoalPeriod struct {
	GoalID       string    `db:"goal_id"`
	PeriodStart  string    `db:"period_start"`
	PeriodEnd    string    `db:"period_end"`
	ActualValue  float64   `db:"actual_value"`
	Status       string    `db:"status"`
	CalculatedAt time.Time `db:"calculated_at"`
}

package model

import (
	"time"
)

const (
	GoalTypeTime    = "time"
	GoalTypeCounter = "counter"
	GoalTypeCheck   = "check"
)

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const (
	TargetOpGte = "gte"
	TargetOpLte = "lte"
)

const (
	StatusSuccess    = "success"
	StatusFail       = "fail"
	StatusInProgress = "in_progress"
	StatusArchived   = "archived"
)

// Goal is a recurring target: spend at least/at most target_value per period.
// For time goals target_value is minutes, for counter goals a count, for
// check goals 0 or 1. StartDate and EndDate are local-midnight instants and
// the span is inclusive on both ends.
type Goal struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ContextID   string    `db:"context_id"`
	Title       string    `db:"title"`
	GoalType    string    `db:"goal_type"`
	Period      string    `db:"period"`
	TargetValue float64   `db:"target_value"`
	TargetOp    string    `db:"target_op"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	IsActive    bool      `db:"is_active"`
	IsArchived  bool      `db:"is_archived"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func ValidGoalType(t string) bool {
	return t == GoalTypeTime || t == GoalTypeCounter || t == GoalTypeCheck
}

func ValidPeriod(p string) bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

func ValidTargetOp(op string) bool {
	return op == TargetOpGte || op == TargetOpLte
}

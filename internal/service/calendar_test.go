package service

import (
	"testing"
	"time"

	"github.com/habimori/habimori/internal/model"
)

func dayGoal(id string, targetOp string, target float64) *model.Goal {
	return &model.Goal{
		ID:          id,
		UserID:      "u1",
		ContextID:   "c1",
		GoalType:    model.GoalTypeCounter,
		Period:      model.PeriodDay,
		TargetValue: target,
		TargetOp:    targetOp,
		StartDate:   localDate(2024, 1, 15),
		EndDate:     localDate(2024, 1, 16),
		IsActive:    true,
	}
}

func newCalendar(goals *fakeGoalRepo, counters *fakeCounterRepo, periods *fakePeriodRepo, now time.Time) *CalendarService {
	recalc := NewRecalcService(goals, &fakeTimeEntryRepo{}, counters, &fakeCheckRepo{}, periods,
		time.Millisecond, func() time.Time { return now })
	return NewCalendarService(goals, periods, recalc)
}

func TestDayStatusesFoldsAcrossGoals(t *testing.T) {
	// Two day goals on 2024-01-15: one met its target, one missed it. The
	// day is already over, so the fold is success+fail with no in_progress.
	goals := newFakeGoalRepo(
		dayGoal("met", model.TargetOpGte, 1),
		dayGoal("missed", model.TargetOpGte, 5),
	)
	counters := &fakeCounterRepo{events: []*model.CounterEvent{
		{ID: "e1", GoalID: "met", OccurredAt: localTime(2024, 1, 15, 10, 0), ValueDelta: 1},
	}}
	svc := newCalendar(goals, counters, newFakePeriodRepo(), localTime(2024, 1, 17, 12, 0))

	statuses, err := svc.DayStatuses("u1", []time.Time{localDate(2024, 1, 15)})
	if err != nil {
		t.Fatalf("DayStatuses() error = %v", err)
	}

	ds, ok := statuses["2024-01-15"]
	if !ok {
		t.Fatal("day 2024-01-15 missing from result")
	}
	if !ds.Success || !ds.Fail {
		t.Errorf("day status = %+v, want success and fail both set", ds)
	}
	if ds.InProgress {
		t.Errorf("day status = %+v, in_progress should not be set", ds)
	}
}

func TestDayStatusesRecalculatesMissingRows(t *testing.T) {
	goals := newFakeGoalRepo(dayGoal("g1", model.TargetOpGte, 1))
	counters := &fakeCounterRepo{events: []*model.CounterEvent{
		{ID: "e1", GoalID: "g1", OccurredAt: localTime(2024, 1, 15, 10, 0), ValueDelta: 1},
	}}
	periods := newFakePeriodRepo()
	svc := newCalendar(goals, counters, periods, localTime(2024, 1, 17, 12, 0))

	// The cache starts empty; the missing-key path must trigger
	// recalculation and still produce statuses in one call.
	statuses, err := svc.DayStatuses("u1", []time.Time{localDate(2024, 1, 15)})
	if err != nil {
		t.Fatalf("DayStatuses() error = %v", err)
	}

	if ds := statuses["2024-01-15"]; !ds.Success {
		t.Errorf("day status = %+v, want success after recalculation", ds)
	}

	rows, _ := periods.ByGoal("g1")
	if len(rows) == 0 {
		t.Error("recalculation did not populate the period cache")
	}
}

func TestDayStatusesExcludesArchived(t *testing.T) {
	goal := dayGoal("g1", model.TargetOpGte, 1)
	goal.IsArchived = true
	goals := newFakeGoalRepo(goal)
	svc := newCalendar(goals, &fakeCounterRepo{}, newFakePeriodRepo(), localTime(2024, 1, 17, 12, 0))

	statuses, err := svc.DayStatuses("u1", []time.Time{localDate(2024, 1, 15)})
	if err != nil {
		t.Fatalf("DayStatuses() error = %v", err)
	}

	if _, ok := statuses["2024-01-15"]; ok {
		t.Error("archived goal should not contribute a day status")
	}
}

func TestDayStatusesOmitsUntouchedDays(t *testing.T) {
	goals := newFakeGoalRepo(dayGoal("g1", model.TargetOpGte, 1))
	svc := newCalendar(goals, &fakeCounterRepo{}, newFakePeriodRepo(), localTime(2024, 1, 17, 12, 0))

	// 2024-02-01 is outside the goal's span.
	statuses, err := svc.DayStatuses("u1", []time.Time{localDate(2024, 2, 1)})
	if err != nil {
		t.Fatalf("DayStatuses() error = %v", err)
	}

	if len(statuses) != 0 {
		t.Errorf("got %d day entries, want 0", len(statuses))
	}
}

func TestDayStatusesWeekGoalTouchesEveryWeekday(t *testing.T) {
	goal := &model.Goal{
		ID:          "g1",
		UserID:      "u1",
		ContextID:   "c1",
		GoalType:    model.GoalTypeCounter,
		Period:      model.PeriodWeek,
		TargetValue: 1,
		TargetOp:    model.TargetOpGte,
		StartDate:   localDate(2024, 1, 15),
		EndDate:     localDate(2024, 1, 21),
		IsActive:    true,
	}
	goals := newFakeGoalRepo(goal)
	counters := &fakeCounterRepo{events: []*model.CounterEvent{
		{ID: "e1", GoalID: "g1", OccurredAt: localTime(2024, 1, 16, 10, 0), ValueDelta: 1},
	}}
	svc := newCalendar(goals, counters, newFakePeriodRepo(), localTime(2024, 1, 17, 12, 0))

	days := []time.Time{localDate(2024, 1, 15), localDate(2024, 1, 17), localDate(2024, 1, 21)}
	statuses, err := svc.DayStatuses("u1", days)
	if err != nil {
		t.Fatalf("DayStatuses() error = %v", err)
	}

	// One week period covers all three days; its success shows on each.
	for _, day := range []string{"2024-01-15", "2024-01-17", "2024-01-21"} {
		if ds := statuses[day]; !ds.Success {
			t.Errorf("day %s status = %+v, want success", day, ds)
		}
	}
}

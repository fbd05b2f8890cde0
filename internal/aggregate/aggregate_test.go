package aggregate

import (
	"testing"
	"time"

	"github.com/habimori/habimori/internal/model"
)

func ts(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func entry(start, end time.Time) *model.TimeEntry {
	return &model.TimeEntry{ID: "e", StartedAt: start, EndedAt: &end}
}

func TestOverlapClampsToRange(t *testing.T) {
	// Entry straddles midnight; only the hour before midnight counts
	// toward the earlier day.
	d := Overlap(
		ts(2024, 1, 15, 23, 0), ts(2024, 1, 16, 1, 0),
		ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0),
	)
	if d != time.Hour {
		t.Errorf("overlap = %v, want 1h", d)
	}
}

func TestOverlapDisjointIsZero(t *testing.T) {
	d := Overlap(
		ts(2024, 1, 14, 9, 0), ts(2024, 1, 14, 10, 0),
		ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0),
	)
	if d != 0 {
		t.Errorf("overlap = %v, want 0", d)
	}
}

func TestTimeActualMidnightStraddle(t *testing.T) {
	entries := []*model.TimeEntry{
		entry(ts(2024, 1, 15, 23, 0), ts(2024, 1, 16, 1, 0)),
	}
	got := TimeActual(entries, ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0))
	if got.Minutes() != 60 {
		t.Errorf("actual = %v minutes, want 60", got.Minutes())
	}
}

func TestTimeActualSkipsRunningEntries(t *testing.T) {
	entries := []*model.TimeEntry{
		entry(ts(2024, 1, 15, 9, 0), ts(2024, 1, 15, 10, 0)),
		{ID: "running", StartedAt: ts(2024, 1, 15, 11, 0)},
	}
	got := TimeActual(entries, ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0))
	if got != time.Hour {
		t.Errorf("actual = %v, want 1h (running entry excluded)", got)
	}
}

func TestTimeActualLiveIncludesRunningElapsed(t *testing.T) {
	entries := []*model.TimeEntry{
		{ID: "running", StartedAt: ts(2024, 1, 15, 11, 0)},
	}
	now := ts(2024, 1, 15, 11, 45)
	got := TimeActualLive(entries, ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0), now)
	if got != 45*time.Minute {
		t.Errorf("live actual = %v, want 45m", got)
	}
}

func TestCounterActualHalfOpenWindow(t *testing.T) {
	start := ts(2024, 1, 15, 0, 0)
	end := ts(2024, 1, 16, 0, 0)
	events := []*model.CounterEvent{
		{OccurredAt: start, ValueDelta: 2},                 // inclusive start
		{OccurredAt: ts(2024, 1, 15, 12, 0), ValueDelta: 3},
		{OccurredAt: end, ValueDelta: 5},                   // exclusive end
		{OccurredAt: ts(2024, 1, 14, 23, 59), ValueDelta: 7}, // before window
	}
	if got := CounterActual(events, start, end); got != 5 {
		t.Errorf("actual = %v, want 5", got)
	}
}

func TestCheckActualLatestEventWins(t *testing.T) {
	start := ts(2024, 1, 15, 0, 0)
	end := ts(2024, 1, 16, 0, 0)

	events := []*model.CheckEvent{
		{OccurredAt: ts(2024, 1, 15, 8, 0), State: true},
		{OccurredAt: ts(2024, 1, 15, 20, 0), State: false},
	}
	if got := CheckActual(events, start, end); got != 0 {
		t.Errorf("actual = %v, want 0 (latest toggle is off)", got)
	}

	events = append(events, &model.CheckEvent{OccurredAt: ts(2024, 1, 15, 21, 0), State: true})
	if got := CheckActual(events, start, end); got != 1 {
		t.Errorf("actual = %v, want 1", got)
	}
}

func TestCheckActualEmptyWindow(t *testing.T) {
	if got := CheckActual(nil, ts(2024, 1, 15, 0, 0), ts(2024, 1, 16, 0, 0)); got != 0 {
		t.Errorf("actual = %v, want 0", got)
	}
}

func TestResolve(t *testing.T) {
	periodEnd := ts(2024, 1, 22, 0, 0)
	before := ts(2024, 1, 17, 16, 0)
	after := ts(2024, 1, 22, 0, 0)

	gte := &model.Goal{TargetOp: model.TargetOpGte, TargetValue: 60}
	lte := &model.Goal{TargetOp: model.TargetOpLte, TargetValue: 3}
	archived := &model.Goal{TargetOp: model.TargetOpGte, TargetValue: 60, IsArchived: true}

	tests := []struct {
		name   string
		goal   *model.Goal
		actual float64
		now    time.Time
		want   string
	}{
		{"gte met exactly at boundary", gte, 60, before, model.StatusSuccess},
		{"gte exceeded", gte, 61, before, model.StatusSuccess},
		{"gte short before period end", gte, 59, before, model.StatusInProgress},
		{"gte short after period end", gte, 59, after, model.StatusFail},
		{"lte at boundary does not fail", lte, 3, before, model.StatusInProgress},
		{"lte at boundary after end succeeds", lte, 3, after, model.StatusSuccess},
		{"lte exceeded fails immediately", lte, 4, before, model.StatusFail},
		{"lte under before end", lte, 1, before, model.StatusInProgress},
		{"archived overrides success", archived, 100, before, model.StatusArchived},
		{"archived overrides fail", archived, 0, after, model.StatusArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.goal, tt.actual, periodEnd, tt.now)
			if got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

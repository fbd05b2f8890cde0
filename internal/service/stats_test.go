package service

import (
	"testing"
	"time"

	"github.com/habimori/habimori/internal/model"
)

func dayTotal(day time.Time, byCategory map[string]float64) DayTotal {
	dt := DayTotal{Day: day, ByCategory: byCategory}
	for _, v := range byCategory {
		dt.Total += v
	}
	return dt
}

func TestGroupItemsDayBuckets(t *testing.T) {
	days := []DayTotal{
		dayTotal(localDate(2024, 1, 15), map[string]float64{"Work": 90}),
		dayTotal(localDate(2024, 1, 16), map[string]float64{"Work": 30, "Sport": 45}),
		dayTotal(localDate(2024, 1, 17), nil),
		dayTotal(localDate(2024, 1, 18), map[string]float64{"Sport": 60}),
	}

	buckets := GroupItems(days)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3 (zero day dropped)", len(buckets))
	}

	wantLabels := []string{"15.01", "16.01", "18.01"}
	wantTotals := []int{90, 75, 60}
	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.Total != wantTotals[i] {
			t.Errorf("bucket %d total = %d, want %d", i, b.Total, wantTotals[i])
		}
	}
	if got := buckets[1].ByCategory["Sport"]; got != 45 {
		t.Errorf("bucket 16.01 Sport = %d, want 45", got)
	}
}

func TestGroupItemsEscalatesToWeeks(t *testing.T) {
	// 15 tracked days starting Mon 2024-01-01 span three ISO weeks, too many
	// for per-day bars.
	var days []DayTotal
	for i := 0; i < 15; i++ {
		days = append(days, dayTotal(localDate(2024, 1, 1+i), map[string]float64{"Work": 10}))
	}

	buckets := GroupItems(days)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3 weeks", len(buckets))
	}

	wantLabels := []string{"01.01-07.01", "08.01-14.01", "15.01"}
	wantTotals := []int{70, 70, 10}
	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.Total != wantTotals[i] {
			t.Errorf("bucket %d total = %d, want %d", i, b.Total, wantTotals[i])
		}
	}
}

func TestGroupItemsEscalatesToMonths(t *testing.T) {
	// One tracked day per week for twelve weeks: too many days and too many
	// weeks, so the grouping lands on months.
	var days []DayTotal
	for i := 0; i < 12; i++ {
		days = append(days, dayTotal(localDate(2024, 1, 1).AddDate(0, 0, 7*i), map[string]float64{"Work": 30}))
	}

	buckets := GroupItems(days)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3 months", len(buckets))
	}

	wantLabels := []string{"01.01-29.01", "05.02-26.02", "04.03-18.03"}
	wantTotals := []int{150, 120, 90}
	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.Total != wantTotals[i] {
			t.Errorf("bucket %d total = %d, want %d", i, b.Total, wantTotals[i])
		}
	}
}

func TestGroupItemsAllZero(t *testing.T) {
	days := []DayTotal{
		dayTotal(localDate(2024, 1, 15), nil),
		dayTotal(localDate(2024, 1, 16), nil),
	}

	buckets := GroupItems(days)
	if len(buckets) != 0 {
		t.Errorf("got %d buckets, want 0", len(buckets))
	}
}

func TestGroupItemsRoundsCategories(t *testing.T) {
	days := []DayTotal{
		dayTotal(localDate(2024, 1, 15), map[string]float64{"Work": 12.6, "Sport": 2.2}),
	}

	buckets := GroupItems(days)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	b := buckets[0]
	if b.ByCategory["Work"] != 13 || b.ByCategory["Sport"] != 2 {
		t.Errorf("by_category = %v, want Work 13, Sport 2", b.ByCategory)
	}
	if b.Total != 15 {
		t.Errorf("total = %d, want 15", b.Total)
	}
}

func TestDayTotalsSplitsByContext(t *testing.T) {
	times := &fakeTimeEntryRepo{entries: []*model.TimeEntry{
		finishedEntry("e1", "g1", localTime(2024, 1, 15, 9, 0), localTime(2024, 1, 15, 10, 30)),
		{ID: "e2", UserID: "u1", ContextID: "c2", StartedAt: localTime(2024, 1, 15, 11, 0),
			EndedAt: timePtr(localTime(2024, 1, 15, 11, 45))},
	}}
	contexts := newFakeContextRepo(
		&model.Context{ID: "c1", UserID: "u1", Name: "Work"},
		&model.Context{ID: "c2", UserID: "u1", Name: "Sport"},
	)
	svc := NewStatsService(times, contexts)

	totals, err := svc.DayTotals("u1", localDate(2024, 1, 15), localDate(2024, 1, 15), localTime(2024, 1, 16, 0, 0))
	if err != nil {
		t.Fatalf("DayTotals() error = %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("got %d day totals, want 1", len(totals))
	}

	dt := totals[0]
	if dt.Total != 135 {
		t.Errorf("total = %v, want 135", dt.Total)
	}
	if dt.ByCategory["Work"] != 90 || dt.ByCategory["Sport"] != 45 {
		t.Errorf("by_category = %v, want Work 90, Sport 45", dt.ByCategory)
	}
}

func TestDayTotalsCountsRunningEntryLive(t *testing.T) {
	times := &fakeTimeEntryRepo{entries: []*model.TimeEntry{
		{ID: "e1", UserID: "u1", ContextID: "c1", StartedAt: localTime(2024, 1, 15, 10, 0)},
	}}
	contexts := newFakeContextRepo(&model.Context{ID: "c1", UserID: "u1", Name: "Work"})
	svc := NewStatsService(times, contexts)

	totals, err := svc.DayTotals("u1", localDate(2024, 1, 15), localDate(2024, 1, 15), localTime(2024, 1, 15, 12, 0))
	if err != nil {
		t.Fatalf("DayTotals() error = %v", err)
	}

	if totals[0].Total != 120 {
		t.Errorf("total = %v, want 120 minutes of elapsed running time", totals[0].Total)
	}
}

func timePtr(t time.Time) *time.Time { return &t }

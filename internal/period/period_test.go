package period

import (
	"testing"
	"time"

	"github.com/habimori/habimori/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRangeForDay(t *testing.T) {
	r := RangeFor(model.PeriodDay, time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local))

	if !r.Start.Equal(date(2024, 1, 15)) {
		t.Errorf("start = %v, want 2024-01-15 midnight", r.Start)
	}
	if !r.End.Equal(date(2024, 1, 16)) {
		t.Errorf("end = %v, want 2024-01-16 midnight", r.End)
	}
	if r.PeriodStart != "2024-01-15" || r.PeriodEnd != "2024-01-15" {
		t.Errorf("labels = %s..%s, want 2024-01-15..2024-01-15", r.PeriodStart, r.PeriodEnd)
	}
}

func TestRangeForWeekStartsMonday(t *testing.T) {
	tests := []struct {
		name  string
		in    time.Time
		start time.Time
	}{
		{"monday maps to itself", date(2024, 1, 15), date(2024, 1, 15)},
		{"wednesday maps back", date(2024, 1, 17), date(2024, 1, 15)},
		{"sunday maps back six days", date(2024, 1, 21), date(2024, 1, 15)},
		{"next monday starts new week", date(2024, 1, 22), date(2024, 1, 22)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RangeFor(model.PeriodWeek, tt.in)
			if !r.Start.Equal(tt.start) {
				t.Errorf("start = %v, want %v", r.Start, tt.start)
			}
			if !r.End.Equal(tt.start.AddDate(0, 0, 7)) {
				t.Errorf("end = %v, want %v", r.End, tt.start.AddDate(0, 0, 7))
			}
			wantEnd := tt.start.AddDate(0, 0, 6).Format(DateFormat)
			if r.PeriodEnd != wantEnd {
				t.Errorf("period_end = %s, want %s", r.PeriodEnd, wantEnd)
			}
		})
	}
}

func TestRangeForMonth(t *testing.T) {
	r := RangeFor(model.PeriodMonth, date(2024, 2, 14))

	if !r.Start.Equal(date(2024, 2, 1)) {
		t.Errorf("start = %v, want 2024-02-01", r.Start)
	}
	if !r.End.Equal(date(2024, 3, 1)) {
		t.Errorf("end = %v, want 2024-03-01", r.End)
	}
	// 2024 is a leap year.
	if r.PeriodEnd != "2024-02-29" {
		t.Errorf("period_end = %s, want 2024-02-29", r.PeriodEnd)
	}
}

func TestRangeForMonthYearWrap(t *testing.T) {
	r := RangeFor(model.PeriodMonth, date(2023, 12, 31))

	if !r.End.Equal(date(2024, 1, 1)) {
		t.Errorf("end = %v, want 2024-01-01", r.End)
	}
	if r.PeriodEnd != "2023-12-31" {
		t.Errorf("period_end = %s, want 2023-12-31", r.PeriodEnd)
	}
}

// The union of ListRanges must cover [start, end] exactly: the first range
// contains start, the last contains end, and consecutive ranges abut.
func TestListRangesCoverage(t *testing.T) {
	start := date(2024, 1, 10)
	end := date(2024, 3, 20)

	for _, p := range []string{model.PeriodDay, model.PeriodWeek, model.PeriodMonth} {
		t.Run(p, func(t *testing.T) {
			ranges := ListRanges(p, start, end)
			if len(ranges) == 0 {
				t.Fatal("no ranges returned")
			}

			if !ranges[0].Contains(start) {
				t.Errorf("first range %v does not contain %v", ranges[0], start)
			}
			last := ranges[len(ranges)-1]
			if !last.Contains(end) {
				t.Errorf("last range %v does not contain %v", last, end)
			}
			for i := 1; i < len(ranges); i++ {
				if !ranges[i].Start.Equal(ranges[i-1].End) {
					t.Errorf("gap or overlap between range %d and %d: %v vs %v",
						i-1, i, ranges[i-1].End, ranges[i].Start)
				}
			}
			if last.Start.After(Midnight(end)) {
				t.Errorf("last range %v starts past the span end", last)
			}
		})
	}
}

func TestListRangesDayCount(t *testing.T) {
	ranges := ListRanges(model.PeriodDay, date(2024, 1, 1), date(2024, 1, 7))
	if len(ranges) != 7 {
		t.Errorf("got %d ranges, want 7", len(ranges))
	}
}

func TestListRangesSingleDaySpan(t *testing.T) {
	ranges := ListRanges(model.PeriodWeek, date(2024, 1, 17), date(2024, 1, 17))
	if len(ranges) != 1 {
		t.Fatalf("got %d ranges, want 1", len(ranges))
	}
	if ranges[0].PeriodStart != "2024-01-15" {
		t.Errorf("period_start = %s, want 2024-01-15", ranges[0].PeriodStart)
	}
}

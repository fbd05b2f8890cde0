package period

import (
	"time"

	"github.com/habimori/habimori/internal/model"
)

// DateFormat is the wire format for period_start/period_end labels.
const DateFormat = "2006-01-02"

// Range is one concrete period instance. Start is inclusive and End is
// exclusive, both local-midnight aligned. PeriodStart and PeriodEnd are the
// inclusive calendar-day labels used as part of the goal_periods key.
type Range struct {
	Start       time.Time
	End         time.Time
	PeriodStart string
	PeriodEnd   string
}

// Contains reports whether the instant falls inside [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Midnight truncates an instant to local midnight of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RangeFor returns the canonical period range covering date. Weeks start on
// Monday, months on the first. For any (period, date) there is exactly one
// covering range.
func RangeFor(p string, date time.Time) Range {
	day := Midnight(date)

	switch p {
	case model.PeriodWeek:
		// Weekday() counts from Sunday; shift so Monday is day zero.
		diff := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -diff)
		return Range{
			Start:       start,
			End:         start.AddDate(0, 0, 7),
			PeriodStart: start.Format(DateFormat),
			PeriodEnd:   start.AddDate(0, 0, 6).Format(DateFormat),
		}
	case model.PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 1, 0)
		return Range{
			Start:       start,
			End:         end,
			PeriodStart: start.Format(DateFormat),
			PeriodEnd:   end.AddDate(0, 0, -1).Format(DateFormat),
		}
	default: // model.PeriodDay
		return Range{
			Start:       day,
			End:         day.AddDate(0, 0, 1),
			PeriodStart: day.Format(DateFormat),
			PeriodEnd:   day.Format(DateFormat),
		}
	}
}

// ListRanges enumerates every period range intersecting [startDate, endDate].
// Ranges are contiguous, so the union covers the span exactly with no gaps
// or overlaps.
func ListRanges(p string, startDate, endDate time.Time) []Range {
	end := Midnight(endDate)

	var ranges []Range
	for r := RangeFor(p, startDate); !r.Start.After(end); r = RangeFor(p, r.End) {
		ranges = append(ranges, r)
	}
	return ranges
}

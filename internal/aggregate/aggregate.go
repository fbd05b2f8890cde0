// Package aggregate derives a goal's actual value from raw events and
// resolves its period status. Everything here is pure: the clock is always
// an explicit parameter.
package aggregate

import (
	"time"

	"github.com/habimori/habimori/internal/model"
)

// Overlap returns the duration the interval [entryStart, entryEnd) shares
// with [rangeStart, rangeEnd), clamped at zero.
func Overlap(entryStart, entryEnd, rangeStart, rangeEnd time.Time) time.Duration {
	start := entryStart
	if rangeStart.After(start) {
		start = rangeStart
	}
	end := entryEnd
	if rangeEnd.Before(end) {
		end = rangeEnd
	}
	if d := end.Sub(start); d > 0 {
		return d
	}
	return 0
}

// TimeActual sums the overlap of finished time entries with the range.
// Running entries (EndedAt nil) are skipped: their contribution would grow
// with the clock, so persisted sums exclude them and the live display path
// adds them via TimeActualLive.
func TimeActual(entries []*model.TimeEntry, rangeStart, rangeEnd time.Time) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if e.EndedAt == nil {
			continue
		}
		total += Overlap(e.StartedAt, *e.EndedAt, rangeStart, rangeEnd)
	}
	return total
}

// TimeActualLive is TimeActual plus running entries, using now as their
// effective end. Display only, never persisted.
func TimeActualLive(entries []*model.TimeEntry, rangeStart, rangeEnd, now time.Time) time.Duration {
	total := TimeActual(entries, rangeStart, rangeEnd)
	for _, e := range entries {
		if e.EndedAt == nil {
			total += Overlap(e.StartedAt, now, rangeStart, rangeEnd)
		}
	}
	return total
}

// CounterActual sums value deltas of events with occurred_at in
// [rangeStart, rangeEnd).
func CounterActual(events []*model.CounterEvent, rangeStart, rangeEnd time.Time) float64 {
	var total float64
	for _, e := range events {
		if !e.OccurredAt.Before(rangeStart) && e.OccurredAt.Before(rangeEnd) {
			total += float64(e.ValueDelta)
		}
	}
	return total
}

// CheckActual returns 1 if the most recent event in [rangeStart, rangeEnd)
// has state true, otherwise 0.
func CheckActual(events []*model.CheckEvent, rangeStart, rangeEnd time.Time) float64 {
	var latest *model.CheckEvent
	for _, e := range events {
		if e.OccurredAt.Before(rangeStart) || !e.OccurredAt.Before(rangeEnd) {
			continue
		}
		if latest == nil || e.OccurredAt.After(latest.OccurredAt) {
			latest = e
		}
	}
	if latest != nil && latest.State {
		return 1
	}
	return 0
}

// Resolve maps an actual value to a period status. Archived is terminal and
// overrides everything. Boundary equality counts in the goal's favor under
// both operators: actual >= target succeeds under gte, and only strictly
// exceeding the target fails under lte.
func Resolve(goal *model.Goal, actual float64, periodEnd, now time.Time) string {
	if goal.IsArchived {
		return model.StatusArchived
	}

	if goal.TargetOp == model.TargetOpLte {
		if actual > goal.TargetValue {
			return model.StatusFail
		}
		if now.Before(periodEnd) {
			return model.StatusInProgress
		}
		return model.StatusSuccess
	}

	if actual >= goal.TargetValue {
		return model.StatusSuccess
	}
	if now.Before(periodEnd) {
		return model.StatusInProgress
	}
	return model.StatusFail
}

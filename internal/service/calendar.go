package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/period"
	"github.com/habimori/habimori/internal/repository"
)

// DayStatus is the per-day presence triple shown on the calendar: whether
// any goal period touching the day carries each status.
type DayStatus struct {
	Success    bool `json:"success"`
	InProgress bool `json:"in_progress"`
	Fail       bool `json:"fail"`
}

// CalendarService folds goal-period statuses into per-day summaries.
type CalendarService struct {
	goalRepo   repository.GoalRepository
	periodRepo repository.GoalPeriodRepository
	recalc     *RecalcService
}

func NewCalendarService(
	goalRepo repository.GoalRepository,
	periodRepo repository.GoalPeriodRepository,
	recalc *RecalcService,
) *CalendarService {
	return &CalendarService{
		goalRepo:   goalRepo,
		periodRepo: periodRepo,
		recalc:     recalc,
	}
}

// DayStatuses maps each requested day to the OR-fold of statuses of all goal
// periods touching it. Archived statuses are excluded from the fold, and
// days with no touching goal periods are omitted. Missing goal_periods rows
// trigger a recalculation of the owning goal and one re-fetch.
func (s *CalendarService) DayStatuses(userID string, days []time.Time) (map[string]DayStatus, error) {
	if len(days) == 0 {
		return map[string]DayStatus{}, nil
	}

	from := period.Midnight(days[0])
	to := from
	for _, d := range days[1:] {
		d = period.Midnight(d)
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}

	goals, err := s.goalRepo.ActiveInSpan(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	// For every (goal, day) pair inside the goal's span, the covering period
	// range contributes one key. Distinct keys are fetched in one batch.
	type dayKey struct {
		day string
		key repository.PeriodKey
	}
	var touches []dayKey
	keySet := make(map[repository.PeriodKey]struct{})

	for _, goal := range goals {
		for _, d := range days {
			d = period.Midnight(d)
			if d.Before(period.Midnight(goal.StartDate)) || d.After(period.Midnight(goal.EndDate)) {
				continue
			}
			r := period.RangeFor(goal.Period, d)
			key := repository.PeriodKey{GoalID: goal.ID, PeriodStart: r.PeriodStart, PeriodEnd: r.PeriodEnd}
			touches = append(touches, dayKey{day: d.Format(period.DateFormat), key: key})
			keySet[key] = struct{}{}
		}
	}

	if len(keySet) == 0 {
		return map[string]DayStatus{}, nil
	}

	keys := make([]repository.PeriodKey, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}

	rows, err := s.fetchWithRecalc(keys)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]DayStatus)
	for _, t := range touches {
		row, ok := rows[t.key]
		if !ok || row.Status == model.StatusArchived {
			continue
		}
		ds := statuses[t.day]
		switch row.Status {
		case model.StatusSuccess:
			ds.Success = true
		case model.StatusInProgress:
			ds.InProgress = true
		case model.StatusFail:
			ds.Fail = true
		}
		statuses[t.day] = ds
	}

	return statuses, nil
}

// fetchWithRecalc batch-fetches period rows; goals with missing rows are
// recalculated once and the keys re-fetched. A key still missing after that
// is skipped by the caller rather than treated as an error.
func (s *CalendarService) fetchWithRecalc(keys []repository.PeriodKey) (map[repository.PeriodKey]*model.GoalPeriod, error) {
	rows, err := s.periodRepo.ByKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goal periods: %w", err)
	}

	found := make(map[repository.PeriodKey]*model.GoalPeriod, len(rows))
	for _, row := range rows {
		found[repository.PeriodKey{GoalID: row.GoalID, PeriodStart: row.PeriodStart, PeriodEnd: row.PeriodEnd}] = row
	}

	staleGoals := make(map[string]struct{})
	for _, key := range keys {
		if _, ok := found[key]; !ok {
			staleGoals[key.GoalID] = struct{}{}
		}
	}
	if len(staleGoals) == 0 {
		return found, nil
	}

	for goalID := range staleGoals {
		err = s.recalc.Recalc(goalID)
		if err != nil {
			// A failed recalculation only degrades that goal's days.
			slog.Error("recalculation for missing periods failed", "error", err, "goal_id", goalID)
		}
	}

	rows, err = s.periodRepo.ByKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch goal periods: %w", err)
	}
	for _, row := range rows {
		found[repository.PeriodKey{GoalID: row.GoalID, PeriodStart: row.PeriodStart, PeriodEnd: row.PeriodEnd}] = row
	}

	return found, nil
}

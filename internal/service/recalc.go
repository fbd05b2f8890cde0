package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/habimori/habimori/internal/aggregate"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/period"
	"github.com/habimori/habimori/internal/repository"
)

// RecalcService rebuilds the goal_periods cache for a goal from its raw
// events. It is the sole writer of that table; everything else treats the
// rows as a re-derivable cache.
type RecalcService struct {
	goalRepo    repository.GoalRepository
	timeRepo    repository.TimeEntryRepository
	counterRepo repository.CounterEventRepository
	checkRepo   repository.CheckEventRepository
	periodRepo  repository.GoalPeriodRepository

	debouncer *Debouncer
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRecalcService wires the recalculation service. debounce is the quiet
// delay between a mutation and the authoritative recalculation it schedules.
// now may be nil, defaulting to time.Now.
func NewRecalcService(
	goalRepo repository.GoalRepository,
	timeRepo repository.TimeEntryRepository,
	counterRepo repository.CounterEventRepository,
	checkRepo repository.CheckEventRepository,
	periodRepo repository.GoalPeriodRepository,
	debounce time.Duration,
	now func() time.Time,
) *RecalcService {
	if now == nil {
		now = time.Now
	}

	s := &RecalcService{
		goalRepo:    goalRepo,
		timeRepo:    timeRepo,
		counterRepo: counterRepo,
		checkRepo:   checkRepo,
		periodRepo:  periodRepo,
		now:         now,
		locks:       make(map[string]*sync.Mutex),
	}
	s.debouncer = NewDebouncer(debounce, func(goalID string) {
		err := s.Recalc(goalID)
		if err != nil {
			slog.Error("scheduled recalculation failed", "error", err, "goal_id", goalID)
		}
	})
	return s
}

// Schedule queues a debounced recalculation for the goal. Rapid successive
// events on the same goal trigger only one run.
func (s *RecalcService) Schedule(goalID string) {
	s.debouncer.Trigger(goalID)
}

// Flush forces a pending scheduled recalculation to run now.
func (s *RecalcService) Flush(goalID string) {
	s.debouncer.Flush(goalID)
}

// goalLock returns the per-goal mutex. Recalculation is idempotent, so the
// lock only avoids duplicate fetch+upsert work when a scheduled run races a
// manual trigger.
func (s *RecalcService) goalLock(goalID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.locks[goalID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[goalID] = mu
	}
	return mu
}

// Recalc recomputes every period row across the goal's active span and
// upserts the result. Statuses are resolved against the wall clock at
// recalculation time, so a past in_progress period flips to success/fail the
// next time recalculation runs for the goal. Running time entries are
// excluded from persisted sums; the live progress path adds them on top.
func (s *RecalcService) Recalc(goalID string) error {
	mu := s.goalLock(goalID)
	mu.Lock()
	defer mu.Unlock()

	goal, err := s.goalRepo.Load(goalID)
	if err != nil {
		return fmt.Errorf("failed to load goal: %w", err)
	}

	ranges := period.ListRanges(goal.Period, goal.StartDate, goal.EndDate)
	if len(ranges) == 0 {
		return nil
	}

	// One windowed fetch spanning all ranges; per-range values are computed
	// in memory from the same slice.
	from := ranges[0].Start
	to := ranges[len(ranges)-1].End
	now := s.now()

	actuals, err := s.actualValues(goal, ranges, from, to)
	if err != nil {
		return err
	}

	rows := make([]*model.GoalPeriod, 0, len(ranges))
	for i, r := range ranges {
		rows = append(rows, &model.GoalPeriod{
			GoalID:       goal.ID,
			PeriodStart:  r.PeriodStart,
			PeriodEnd:    r.PeriodEnd,
			ActualValue:  actuals[i],
			Status:       aggregate.Resolve(goal, actuals[i], r.End, now),
			CalculatedAt: now,
		})
	}

	err = s.periodRepo.UpsertAll(rows)
	if err != nil {
		return fmt.Errorf("failed to upsert goal periods: %w", err)
	}

	return nil
}

func (s *RecalcService) actualValues(goal *model.Goal, ranges []period.Range, from, to time.Time) ([]float64, error) {
	actuals := make([]float64, len(ranges))

	switch goal.GoalType {
	case model.GoalTypeTime:
		entries, err := s.timeRepo.ForGoalWindow(goal.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch time entries: %w", err)
		}
		for i, r := range ranges {
			actuals[i] = aggregate.TimeActual(entries, r.Start, r.End).Minutes()
		}
	case model.GoalTypeCounter:
		events, err := s.counterRepo.ForGoalWindow(goal.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch counter events: %w", err)
		}
		for i, r := range ranges {
			actuals[i] = aggregate.CounterActual(events, r.Start, r.End)
		}
	case model.GoalTypeCheck:
		events, err := s.checkRepo.ForGoalWindow(goal.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch check events: %w", err)
		}
		for i, r := range ranges {
			actuals[i] = aggregate.CheckActual(events, r.Start, r.End)
		}
	default:
		return nil, fmt.Errorf("unknown goal type %q", goal.GoalType)
	}

	return actuals, nil
}

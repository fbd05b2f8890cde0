package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habimori/habimori/internal/aggregate"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/period"
	"github.com/habimori/habimori/internal/repository"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidGoalType    = errors.New("goal type must be time, counter or check")
	ErrInvalidPeriod      = errors.New("period must be day, week or month")
	ErrInvalidTargetOp    = errors.New("target operator must be gte or lte")
	ErrTargetNegative     = errors.New("target value must not be negative")
	ErrEndDateBeforeStart = errors.New("end date must not be before start date")
	ErrWrongGoalType      = errors.New("event type does not match goal type")
	ErrGoalArchived       = errors.New("goal is archived")
)

// GoalProgress is the live view of a goal's current period: persisted events
// plus running-timer elapsed and pending counter deltas.
type GoalProgress struct {
	Goal        *model.Goal `json:"goal"`
	PeriodStart string      `json:"period_start"`
	PeriodEnd   string      `json:"period_end"`
	ActualValue float64     `json:"actual_value"`
	Status      string      `json:"status"`
}

type GoalService struct {
	goalRepo    repository.GoalRepository
	contextRepo repository.ContextRepository
	timeRepo    repository.TimeEntryRepository
	counterRepo repository.CounterEventRepository
	checkRepo   repository.CheckEventRepository
	periodRepo  repository.GoalPeriodRepository
	counters    *CounterService
	recalc      *RecalcService
	now         func() time.Time
}

func NewGoalService(
	goalRepo repository.GoalRepository,
	contextRepo repository.ContextRepository,
	timeRepo repository.TimeEntryRepository,
	counterRepo repository.CounterEventRepository,
	checkRepo repository.CheckEventRepository,
	periodRepo repository.GoalPeriodRepository,
	counters *CounterService,
	recalc *RecalcService,
	now func() time.Time,
) *GoalService {
	if now == nil {
		now = time.Now
	}
	return &GoalService{
		goalRepo:    goalRepo,
		contextRepo: contextRepo,
		timeRepo:    timeRepo,
		counterRepo: counterRepo,
		checkRepo:   checkRepo,
		periodRepo:  periodRepo,
		counters:    counters,
		recalc:      recalc,
		now:         now,
	}
}

type CreateGoalInput struct {
	ContextID   string
	Title       string
	GoalType    string
	Period      string
	TargetValue float64
	TargetOp    string
	StartDate   time.Time
	EndDate     time.Time
}

func validateGoalInput(in CreateGoalInput) error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if !model.ValidGoalType(in.GoalType) {
		return ErrInvalidGoalType
	}
	if !model.ValidPeriod(in.Period) {
		return ErrInvalidPeriod
	}
	if !model.ValidTargetOp(in.TargetOp) {
		return ErrInvalidTargetOp
	}
	if in.TargetValue < 0 {
		return ErrTargetNegative
	}
	if in.EndDate.Before(in.StartDate) {
		return ErrEndDateBeforeStart
	}
	return nil
}

func (s *GoalService) Create(userID string, in CreateGoalInput) (*model.Goal, error) {
	err := validateGoalInput(in)
	if err != nil {
		return nil, err
	}

	// Context ownership check.
	_, err = s.contextRepo.ByID(userID, in.ContextID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContextID:   in.ContextID,
		Title:       in.Title,
		GoalType:    in.GoalType,
		Period:      in.Period,
		TargetValue: in.TargetValue,
		TargetOp:    in.TargetOp,
		StartDate:   period.Midnight(in.StartDate),
		EndDate:     period.Midnight(in.EndDate),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.goalRepo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	// Seed the period cache so calendar reads don't all hit the missing-row
	// path at once.
	s.recalc.Schedule(goal.ID)

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.goalRepo.ByID(userID, goalID)
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	return s.goalRepo.Goals(userID)
}

// Update edits the narrow mutable surface of a goal: title, end date and
// target value.
func (s *GoalService) Update(userID, goalID, title string, endDate time.Time, targetValue float64) error {
	goal, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return err
	}
	if goal.IsArchived {
		return ErrGoalArchived
	}

	if title == "" {
		return ErrTitleRequired
	}
	if targetValue < 0 {
		return ErrTargetNegative
	}
	endDate = period.Midnight(endDate)
	if endDate.Before(goal.StartDate) {
		return ErrEndDateBeforeStart
	}

	goal.Title = title
	goal.EndDate = endDate
	goal.TargetValue = targetValue

	err = s.goalRepo.Update(goal)
	if err != nil {
		return err
	}

	// Span or target changed, so every cached row is suspect.
	s.recalc.Schedule(goalID)
	return nil
}

// Archive soft-deletes: the goal keeps its history but every period resolves
// to archived from now on, permanently.
func (s *GoalService) Archive(userID, goalID string) error {
	err := s.goalRepo.Archive(userID, goalID)
	if err != nil {
		return err
	}

	// Rewrite cached rows immediately so readers never see a stale
	// success/fail on an archived goal.
	return s.recalc.Recalc(goalID)
}

func (s *GoalService) Delete(userID, goalID string) error {
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	err = s.periodRepo.DeleteByGoal(goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal periods: %w", err)
	}

	return s.goalRepo.Delete(userID, goalID)
}

func (s *GoalService) SetTags(userID, goalID string, tagIDs []string) error {
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return err
	}
	return s.goalRepo.SetTags(goalID, tagIDs)
}

func (s *GoalService) Tags(userID, goalID string) ([]*model.Tag, error) {
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.goalRepo.Tags(goalID)
}

// Periods returns the cached rows for a goal, recalculating first if the
// cache is empty.
func (s *GoalService) Periods(userID, goalID string) ([]*model.GoalPeriod, error) {
	_, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	rows, err := s.periodRepo.ByGoal(goalID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	err = s.recalc.Recalc(goalID)
	if err != nil {
		return nil, err
	}
	return s.periodRepo.ByGoal(goalID)
}

// Progress computes the live value and status of the goal's current period
// directly from events: finished entries plus running-timer elapsed (time
// goals) or pending unflushed deltas (counter goals). Never persisted.
func (s *GoalService) Progress(userID, goalID string) (*GoalProgress, error) {
	goal, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	r := period.RangeFor(goal.Period, now)

	var actual float64
	switch goal.GoalType {
	case model.GoalTypeTime:
		entries, err := s.timeRepo.ForGoalWindow(goalID, r.Start, r.End)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch time entries: %w", err)
		}
		actual = aggregate.TimeActualLive(entries, r.Start, r.End, now).Minutes()
	case model.GoalTypeCounter:
		events, err := s.counterRepo.ForGoalWindow(goalID, r.Start, r.End)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch counter events: %w", err)
		}
		actual = aggregate.CounterActual(events, r.Start, r.End) + float64(s.counters.Pending(goalID))
	case model.GoalTypeCheck:
		events, err := s.checkRepo.ForGoalWindow(goalID, r.Start, r.End)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch check events: %w", err)
		}
		actual = aggregate.CheckActual(events, r.Start, r.End)
	default:
		return nil, fmt.Errorf("unknown goal type %q", goal.GoalType)
	}

	return &GoalProgress{
		Goal:        goal,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		ActualValue: actual,
		Status:      aggregate.Resolve(goal, actual, r.End, now),
	}, nil
}

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/repository"
)

// CheckService appends boolean toggle events against check goals. Toggles
// are cheap single writes, so unlike counters they persist immediately; the
// most recent event in a period wins during aggregation.
type CheckService struct {
	checkRepo repository.CheckEventRepository
	goalRepo  repository.GoalRepository
	recalc    *RecalcService
	now       func() time.Time
}

func NewCheckService(
	checkRepo repository.CheckEventRepository,
	goalRepo repository.GoalRepository,
	recalc *RecalcService,
	now func() time.Time,
) *CheckService {
	if now == nil {
		now = time.Now
	}
	return &CheckService{
		checkRepo: checkRepo,
		goalRepo:  goalRepo,
		recalc:    recalc,
		now:       now,
	}
}

func (s *CheckService) Toggle(userID, goalID string, state bool) error {
	goal, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return err
	}
	if goal.GoalType != model.GoalTypeCheck {
		return ErrWrongGoalType
	}

	event := &model.CheckEvent{
		ID:         uuid.New().String(),
		UserID:     userID,
		ContextID:  goal.ContextID,
		GoalID:     goalID,
		OccurredAt: s.now(),
		State:      state,
		CreatedAt:  s.now(),
	}

	err = s.checkRepo.Create(event)
	if err != nil {
		return fmt.Errorf("failed to create check event: %w", err)
	}

	s.recalc.Schedule(goalID)
	return nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/repository"
)

var (
	// ErrTimerRunning and ErrTimerNotRunning are conflict signals, distinct
	// from generic failures: the caller should resync its state instead of
	// retrying.
	ErrTimerRunning    = errors.New("a timer is already running")
	ErrTimerNotRunning = errors.New("no timer is running")

	ErrEndBeforeStart = errors.New("end time must be after start time")
)

// TimerService starts and stops time entries. At most one entry per user may
// be running; the repository's partial unique index backs the check here.
type TimerService struct {
	timeRepo repository.TimeEntryRepository
	goalRepo repository.GoalRepository
	recalc   *RecalcService
	now      func() time.Time
}

func NewTimerService(
	timeRepo repository.TimeEntryRepository,
	goalRepo repository.GoalRepository,
	recalc *RecalcService,
	now func() time.Time,
) *TimerService {
	if now == nil {
		now = time.Now
	}
	return &TimerService{
		timeRepo: timeRepo,
		goalRepo: goalRepo,
		recalc:   recalc,
		now:      now,
	}
}

// Start opens a new running entry. goalID may be nil for a plain context
// timer not tied to any goal.
func (s *TimerService) Start(userID, contextID string, goalID *string) (*model.TimeEntry, error) {
	if goalID != nil {
		goal, err := s.goalRepo.ByID(userID, *goalID)
		if err != nil {
			return nil, err
		}
		if goal.GoalType != model.GoalTypeTime {
			return nil, ErrWrongGoalType
		}
	}

	_, err := s.timeRepo.Running(userID)
	if err == nil {
		return nil, ErrTimerRunning
	}
	if !errors.Is(err, repository.ErrNoRunningEntry) {
		return nil, fmt.Errorf("failed to check running timer: %w", err)
	}

	entry := &model.TimeEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		ContextID: contextID,
		GoalID:    goalID,
		StartedAt: s.now(),
		CreatedAt: s.now(),
	}

	err = s.timeRepo.Create(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	// No recalculation on start: a running entry never feeds persisted sums.
	return entry, nil
}

// Stop closes the user's running entry and schedules recalculation for the
// tied goal, if any.
func (s *TimerService) Stop(userID string) (*model.TimeEntry, error) {
	entry, err := s.timeRepo.Running(userID)
	if errors.Is(err, repository.ErrNoRunningEntry) {
		return nil, ErrTimerNotRunning
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find running timer: %w", err)
	}

	endedAt := s.now()
	err = s.timeRepo.Stop(entry.ID, endedAt)
	if errors.Is(err, repository.ErrNoRunningEntry) {
		// Lost a race with another stop.
		return nil, ErrTimerNotRunning
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}
	entry.EndedAt = &endedAt

	if entry.GoalID != nil {
		s.recalc.Schedule(*entry.GoalID)
	}

	return entry, nil
}

// UpdateEntry adjusts a finished entry's start/end. The edit path is the one
// exception to time entries being immutable.
func (s *TimerService) UpdateEntry(userID, entryID string, startedAt, endedAt time.Time) error {
	if !endedAt.After(startedAt) {
		return ErrEndBeforeStart
	}

	entry, err := s.timeRepo.ByID(userID, entryID)
	if err != nil {
		return err
	}

	entry.StartedAt = startedAt
	entry.EndedAt = &endedAt

	err = s.timeRepo.Update(entry)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	if entry.GoalID != nil {
		s.recalc.Schedule(*entry.GoalID)
	}

	return nil
}

func (s *TimerService) DeleteEntry(userID, entryID string) error {
	entry, err := s.timeRepo.ByID(userID, entryID)
	if err != nil {
		return err
	}

	err = s.timeRepo.Delete(userID, entryID)
	if err != nil {
		return err
	}

	if entry.GoalID != nil {
		s.recalc.Schedule(*entry.GoalID)
	}

	return nil
}

// Running returns the user's running entry, or ErrTimerNotRunning.
func (s *TimerService) Running(userID string) (*model.TimeEntry, error) {
	entry, err := s.timeRepo.Running(userID)
	if errors.Is(err, repository.ErrNoRunningEntry) {
		return nil, ErrTimerNotRunning
	}
	return entry, err
}

// SetEntryTags reassigns an entry's tags after an ownership check.
func (s *TimerService) SetEntryTags(userID, entryID string, tagIDs []string) error {
	_, err := s.timeRepo.ByID(userID, entryID)
	if err != nil {
		return err
	}
	return s.timeRepo.SetTags(entryID, tagIDs)
}

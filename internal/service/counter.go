package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/repository"
)

var (
	ErrDeltaNotPositive = errors.New("counter delta must be positive")
)

// counterBatch is the optimistic, not-yet-persisted state for one goal.
// mutationID ties the scheduled flush to the batch that created it: a flush
// whose id was superseded finds a newer batch and discards itself.
type counterBatch struct {
	mutationID uint64
	userID     string
	contextID  string
	delta      int
	timer      *time.Timer
}

// CounterService coalesces rapid increments on the same goal into a single
// persisted event carrying the summed delta.
type CounterService struct {
	counterRepo repository.CounterEventRepository
	goalRepo    repository.GoalRepository
	recalc      *RecalcService
	window      time.Duration
	now         func() time.Time

	mu        sync.Mutex
	pending   map[string]*counterBatch
	mutations map[string]uint64
	flushErrs map[string]error
}

func NewCounterService(
	counterRepo repository.CounterEventRepository,
	goalRepo repository.GoalRepository,
	recalc *RecalcService,
	window time.Duration,
	now func() time.Time,
) *CounterService {
	if now == nil {
		now = time.Now
	}
	return &CounterService{
		counterRepo: counterRepo,
		goalRepo:    goalRepo,
		recalc:      recalc,
		window:      window,
		now:         now,
		pending:     make(map[string]*counterBatch),
		mutations:   make(map[string]uint64),
		flushErrs:   make(map[string]error),
	}
}

// Increment applies delta optimistically and schedules a coalesced write.
// The returned value is the goal's pending (unpersisted) delta so the caller
// can render it immediately.
func (s *CounterService) Increment(userID, goalID string, delta int) (int, error) {
	if delta <= 0 {
		return 0, ErrDeltaNotPositive
	}

	goal, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return 0, err
	}
	if goal.GoalType != model.GoalTypeCounter {
		return 0, ErrWrongGoalType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.pending[goalID]
	if ok {
		batch.delta += delta
		batch.timer.Reset(s.window)
		return batch.delta, nil
	}

	s.mutations[goalID]++
	mutationID := s.mutations[goalID]
	batch = &counterBatch{
		mutationID: mutationID,
		userID:     userID,
		contextID:  goal.ContextID,
		delta:      delta,
	}
	batch.timer = time.AfterFunc(s.window, func() {
		s.flush(goalID, mutationID)
	})
	s.pending[goalID] = batch

	return batch.delta, nil
}

// flush persists one batch. A stale mutation id means the batch was already
// taken over by a newer one; its effects are discarded, not rolled back.
func (s *CounterService) flush(goalID string, mutationID uint64) {
	s.mu.Lock()
	batch, ok := s.pending[goalID]
	if !ok || batch.mutationID != mutationID {
		s.mu.Unlock()
		return
	}
	delete(s.pending, goalID)
	s.mu.Unlock()

	event := &model.CounterEvent{
		ID:         uuid.New().String(),
		UserID:     batch.userID,
		ContextID:  batch.contextID,
		GoalID:     goalID,
		OccurredAt: s.now(),
		ValueDelta: batch.delta,
		CreatedAt:  s.now(),
	}

	err := s.counterRepo.Create(event)
	if err != nil {
		// The optimistic delta is gone with the batch; record the failure
		// so the next read of this goal surfaces it.
		s.mu.Lock()
		s.flushErrs[goalID] = fmt.Errorf("failed to persist counter batch: %w", err)
		s.mu.Unlock()
		slog.Error("counter batch write failed", "error", err, "goal_id", goalID, "delta", batch.delta)
		return
	}

	s.recalc.Schedule(goalID)
}

// Flush forces the pending batch for a goal to persist immediately.
func (s *CounterService) Flush(goalID string) {
	s.mu.Lock()
	batch, ok := s.pending[goalID]
	s.mu.Unlock()
	if !ok {
		return
	}

	batch.timer.Stop()
	s.flush(goalID, batch.mutationID)
}

// Pending returns the goal's optimistic unpersisted delta.
func (s *CounterService) Pending(goalID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.pending[goalID]
	if !ok {
		return 0
	}
	return batch.delta
}

// TakeFlushError pops the last batch-write failure for a goal, if any. The
// caller is expected to resync after seeing it.
func (s *CounterService) TakeFlushError(goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.flushErrs[goalID]
	delete(s.flushErrs, goalID)
	return err
}

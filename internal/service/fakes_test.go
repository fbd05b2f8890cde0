package service

import (
	"sort"
	"sync"
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/repository"
)

// In-memory repository fakes. Service tests exercise the orchestration logic
// without a database; the SQL implementations are thin enough to trust.

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[string]*model.Goal
	tags  map[string][]string
}

func newFakeGoalRepo(goals ...*model.Goal) *fakeGoalRepo {
	r := &fakeGoalRepo{goals: make(map[string]*model.Goal), tags: make(map[string][]string)}
	for _, g := range goals {
		r.goals[g.ID] = g
	}
	return r
}

func (r *fakeGoalRepo) Create(goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[goal.ID] = goal
	return nil
}

func (r *fakeGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, repository.ErrGoalNotFound
	}
	return g, nil
}

func (r *fakeGoalRepo) Load(goalID string) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	return g, nil
}

func (r *fakeGoalRepo) Goals(userID string) ([]*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGoalRepo) ActiveInSpan(userID string, from, to time.Time) ([]*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Goal
	for _, g := range r.goals {
		if g.UserID == userID && !g.StartDate.After(to) && !g.EndDate.Before(from) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGoalRepo) Update(goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[goal.ID]; !ok {
		return repository.ErrGoalNotFound
	}
	r.goals[goal.ID] = goal
	return nil
}

func (r *fakeGoalRepo) Archive(userID, goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return repository.ErrGoalNotFound
	}
	g.IsArchived = true
	g.IsActive = false
	return nil
}

func (r *fakeGoalRepo) Delete(userID, goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return repository.ErrGoalNotFound
	}
	delete(r.goals, goalID)
	return nil
}

func (r *fakeGoalRepo) SetTags(goalID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[goalID] = tagIDs
	return nil
}

func (r *fakeGoalRepo) Tags(goalID string) ([]*model.Tag, error) {
	return nil, nil
}

type fakeTimeEntryRepo struct {
	mu      sync.Mutex
	entries []*model.TimeEntry
}

func (r *fakeTimeEntryRepo) Create(entry *model.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTimeEntryRepo) ByID(userID, entryID string) (*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			return e, nil
		}
	}
	return nil, repository.ErrTimeEntryNotFound
}

func (r *fakeTimeEntryRepo) Running(userID string) (*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.EndedAt == nil {
			return e, nil
		}
	}
	return nil, repository.ErrNoRunningEntry
}

func (r *fakeTimeEntryRepo) Stop(entryID string, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == entryID && e.EndedAt == nil {
			t := endedAt
			e.EndedAt = &t
			return nil
		}
	}
	return repository.ErrNoRunningEntry
}

func (r *fakeTimeEntryRepo) Update(entry *model.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == entry.ID {
			r.entries[i] = entry
			return nil
		}
	}
	return repository.ErrTimeEntryNotFound
}

func (r *fakeTimeEntryRepo) Delete(userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrTimeEntryNotFound
}

func (r *fakeTimeEntryRepo) ForGoalWindow(goalID string, from, to time.Time) ([]*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TimeEntry
	for _, e := range r.entries {
		if e.GoalID == nil || *e.GoalID != goalID {
			continue
		}
		if e.StartedAt.Before(to) && (e.EndedAt == nil || !e.EndedAt.Before(from)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTimeEntryRepo) ForUserWindow(userID string, from, to time.Time) ([]*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TimeEntry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if e.StartedAt.Before(to) && (e.EndedAt == nil || !e.EndedAt.Before(from)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTimeEntryRepo) SetTags(entryID string, tagIDs []string) error {
	return nil
}

type fakeCounterRepo struct {
	mu     sync.Mutex
	events []*model.CounterEvent
	err    error
}

func (r *fakeCounterRepo) Create(event *model.CounterEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeCounterRepo) ForGoalWindow(goalID string, from, to time.Time) ([]*model.CounterEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CounterEvent
	for _, e := range r.events {
		if e.GoalID == goalID && !e.OccurredAt.Before(from) && e.OccurredAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeCounterRepo) all() []*model.CounterEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.CounterEvent(nil), r.events...)
}

type fakeCheckRepo struct {
	mu     sync.Mutex
	events []*model.CheckEvent
}

func (r *fakeCheckRepo) Create(event *model.CheckEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeCheckRepo) ForGoalWindow(goalID string, from, to time.Time) ([]*model.CheckEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CheckEvent
	for _, e := range r.events {
		if e.GoalID == goalID && !e.OccurredAt.Before(from) && e.OccurredAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeContextRepo struct {
	mu       sync.Mutex
	contexts map[string]*model.Context
}

func newFakeContextRepo(contexts ...*model.Context) *fakeContextRepo {
	r := &fakeContextRepo{contexts: make(map[string]*model.Context)}
	for _, c := range contexts {
		r.contexts[c.ID] = c
	}
	return r
}

func (r *fakeContextRepo) Create(c *model.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts[c.ID] = c
	return nil
}

func (r *fakeContextRepo) ByID(userID, contextID string) (*model.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[contextID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrContextNotFound
	}
	return c, nil
}

func (r *fakeContextRepo) Contexts(userID string) ([]*model.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Context
	for _, c := range r.contexts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeContextRepo) Rename(userID, contextID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[contextID]
	if !ok || c.UserID != userID {
		return repository.ErrContextNotFound
	}
	c.Name = name
	return nil
}

func (r *fakeContextRepo) Delete(userID, contextID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contexts[contextID]
	if !ok || c.UserID != userID {
		return repository.ErrContextNotFound
	}
	delete(r.contexts, contextID)
	return nil
}

type fakePeriodRepo struct {
	mu   sync.Mutex
	rows map[repository.PeriodKey]*model.GoalPeriod
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{rows: make(map[repository.PeriodKey]*model.GoalPeriod)}
}

func (r *fakePeriodRepo) UpsertAll(rows []*model.GoalPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := repository.PeriodKey{GoalID: row.GoalID, PeriodStart: row.PeriodStart, PeriodEnd: row.PeriodEnd}
		r.rows[key] = row
	}
	return nil
}

func (r *fakePeriodRepo) ByKeys(keys []repository.PeriodKey) ([]*model.GoalPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.GoalPeriod
	for _, key := range keys {
		if row, ok := r.rows[key]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakePeriodRepo) ByGoal(goalID string) ([]*model.GoalPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.GoalPeriod
	for _, row := range r.rows {
		if row.GoalID == goalID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart < out[j].PeriodStart })
	return out, nil
}

func (r *fakePeriodRepo) DeleteByGoal(goalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.rows {
		if key.GoalID == goalID {
			delete(r.rows, key)
		}
	}
	return nil
}

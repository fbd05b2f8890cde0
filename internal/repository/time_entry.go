package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrNoRunningEntry    = errors.New("no running time entry")
)

type TimeEntryRepository interface {
	Create(entry *model.TimeEntry) error
	ByID(userID, entryID string) (*model.TimeEntry, error)
	// Running returns the user's single open entry, or ErrNoRunningEntry.
	// At most one open entry per user is enforced by a partial unique index.
	Running(userID string) (*model.TimeEntry, error)
	// Stop closes an open entry. Returns ErrNoRunningEntry if the entry is
	// already closed, so a double stop is distinguishable.
	Stop(entryID string, endedAt time.Time) error
	Update(entry *model.TimeEntry) error
	Delete(userID, entryID string) error
	// ForGoalWindow returns entries of a goal intersecting [from, to):
	// started before the window end and either still running or ended at or
	// after the window start.
	ForGoalWindow(goalID string, from, to time.Time) ([]*model.TimeEntry, error)
	// ForUserWindow is the same intersection filter across all of a user's
	// entries, for statistics.
	ForUserWindow(userID string, from, to time.Time) ([]*model.TimeEntry, error)
	SetTags(entryID string, tagIDs []string) error
}

type timeEntryRepository struct {
	db *sqlx.DB
}

func NewTimeEntryRepository(db *sqlx.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) Create(entry *model.TimeEntry) error {
	query := `INSERT INTO time_entries (id, user_id, context_id, goal_id, started_at, ended_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.UserID,
		entry.ContextID,
		entry.GoalID,
		entry.StartedAt,
		entry.EndedAt,
		entry.CreatedAt,
	)

	return err
}

func (r *timeEntryRepository) ByID(userID, entryID string) (*model.TimeEntry, error) {
	entry := &model.TimeEntry{}
	query := `SELECT * FROM time_entries WHERE id = $1 AND user_id = $2`

	err := r.db.Get(entry, query, entryID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrTimeEntryNotFound
	}

	return entry, err
}

func (r *timeEntryRepository) Running(userID string) (*model.TimeEntry, error) {
	entry := &model.TimeEntry{}
	query := `SELECT * FROM time_entries WHERE user_id = $1 AND ended_at IS NULL`

	err := r.db.Get(entry, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNoRunningEntry
	}

	return entry, err
}

func (r *timeEntryRepository) Stop(entryID string, endedAt time.Time) error {
	query := `UPDATE time_entries SET ended_at = $1 WHERE id = $2 AND ended_at IS NULL`

	result, err := r.db.Exec(query, endedAt, entryID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoRunningEntry
	}

	return nil
}

func (r *timeEntryRepository) Update(entry *model.TimeEntry) error {
	query := `UPDATE time_entries SET started_at = $1, ended_at = $2, goal_id = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		entry.StartedAt,
		entry.EndedAt,
		entry.GoalID,
		entry.ID,
		entry.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTimeEntryNotFound
	}

	return nil
}

func (r *timeEntryRepository) Delete(userID, entryID string) error {
	query := `DELETE FROM time_entries WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, entryID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTimeEntryNotFound
	}

	return nil
}

func (r *timeEntryRepository) ForGoalWindow(goalID string, from, to time.Time) ([]*model.TimeEntry, error) {
	var entries []*model.TimeEntry
	query := `SELECT * FROM time_entries
	          WHERE goal_id = $1 AND started_at < $2 AND (ended_at IS NULL OR ended_at >= $3)
	          ORDER BY started_at ASC`

	err := r.db.Select(&entries, query, goalID, to, from)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *timeEntryRepository) ForUserWindow(userID string, from, to time.Time) ([]*model.TimeEntry, error) {
	var entries []*model.TimeEntry
	query := `SELECT * FROM time_entries
	          WHERE user_id = $1 AND started_at < $2 AND (ended_at IS NULL OR ended_at >= $3)
	          ORDER BY started_at ASC`

	err := r.db.Select(&entries, query, userID, to, from)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *timeEntryRepository) SetTags(entryID string, tagIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM time_entry_tags WHERE entry_id = $1`, entryID)
	if err != nil {
		return err
	}

	query := `INSERT INTO time_entry_tags (entry_id, tag_id) VALUES ($1, $2)`
	for _, tagID := range tagIDs {
		_, err = tx.Exec(query, entryID, tagID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

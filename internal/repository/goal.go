package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	// Load fetches a goal without user scoping. Recalculation is triggered
	// internally with only a goal id in hand.
	Load(goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	// ActiveInSpan returns goals whose [start_date, end_date] span
	// intersects [from, to].
	ActiveInSpan(userID string, from, to time.Time) ([]*model.Goal, error)
	Update(goal *model.Goal) error
	Archive(userID, goalID string) error
	Delete(userID, goalID string) error
	SetTags(goalID string, tagIDs []string) error
	Tags(goalID string) ([]*model.Tag, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, context_id, title, goal_type, period, target_value, target_op,
	                             start_date, end_date, is_active, is_archived, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.ContextID,
		goal.Title,
		goal.GoalType,
		goal.Period,
		goal.TargetValue,
		goal.TargetOp,
		goal.StartDate,
		goal.EndDate,
		goal.IsActive,
		goal.IsArchived,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Load(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) ActiveInSpan(userID string, from, to time.Time) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 AND start_date <= $2 AND end_date >= $3`

	err := r.db.Select(&goals, query, userID, to, from)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, end_date = $2, target_value = $3, is_active = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.EndDate,
		goal.TargetValue,
		goal.IsActive,
		time.Now(),
		goal.ID,
		goal.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Archive(userID, goalID string) error {
	query := `UPDATE goals SET is_archived = true, is_active = false, updated_at = $1
	          WHERE id = $2 AND user_id = $3`

	result, err := r.db.Exec(query, time.Now(), goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) SetTags(goalID string, tagIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goal_tags WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	query := `INSERT INTO goal_tags (goal_id, tag_id) VALUES ($1, $2)`
	for _, tagID := range tagIDs {
		_, err = tx.Exec(query, goalID, tagID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *goalRepository) Tags(goalID string) ([]*model.Tag, error) {
	var tags []*model.Tag
	query := `SELECT t.* FROM tags t
	          JOIN goal_tags gt ON gt.tag_id = t.id
	          WHERE gt.goal_id = $1 ORDER BY t.name ASC`

	err := r.db.Select(&tags, query, goalID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

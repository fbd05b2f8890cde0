package repository

import (
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

type CheckEventRepository interface {
	Create(event *model.CheckEvent) error
	// ForGoalWindow returns events with occurred_at in [from, to).
	ForGoalWindow(goalID string, from, to time.Time) ([]*model.CheckEvent, error)
}

type checkEventRepository struct {
	db *sqlx.DB
}

func NewCheckEventRepository(db *sqlx.DB) CheckEventRepository {
	return &checkEventRepository{db: db}
}

func (r *checkEventRepository) Create(event *model.CheckEvent) error {
	query := `INSERT INTO check_events (id, user_id, context_id, goal_id, occurred_at, state, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		event.ID,
		event.UserID,
		event.ContextID,
		event.GoalID,
		event.OccurredAt,
		event.State,
		event.CreatedAt,
	)

	return err
}

func (r *checkEventRepository) ForGoalWindow(goalID string, from, to time.Time) ([]*model.CheckEvent, error) {
	var events []*model.CheckEvent
	query := `SELECT * FROM check_events
	          WHERE goal_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	          ORDER BY occurred_at ASC`

	err := r.db.Select(&events, query, goalID, from, to)
	if err != nil {
		return nil, err
	}

	return events, nil
}

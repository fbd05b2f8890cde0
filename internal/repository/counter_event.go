package repository

import (
	"time"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

type CounterEventRepository interface {
	Create(event *model.CounterEvent) error
	// ForGoalWindow returns events with occurred_at in [from, to).
	ForGoalWindow(goalID string, from, to time.Time) ([]*model.CounterEvent, error)
}

type counterEventRepository struct {
	db *sqlx.DB
}

func NewCounterEventRepository(db *sqlx.DB) CounterEventRepository {
	return &counterEventRepository{db: db}
}

func (r *counterEventRepository) Create(event *model.CounterEvent) error {
	query := `INSERT INTO counter_events (id, user_id, context_id, goal_id, occurred_at, value_delta, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		event.ID,
		event.UserID,
		event.ContextID,
		event.GoalID,
		event.OccurredAt,
		event.ValueDelta,
		event.CreatedAt,
	)

	return err
}

func (r *counterEventRepository) ForGoalWindow(goalID string, from, to time.Time) ([]*model.CounterEvent, error) {
	var events []*model.CounterEvent
	query := `SELECT * FROM counter_events
	          WHERE goal_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	          ORDER BY occurred_at ASC`

	err := r.db.Select(&events, query, goalID, from, to)
	if err != nil {
		return nil, err
	}

	return events, nil
}

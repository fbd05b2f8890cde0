package repository

import (
	"fmt"
	"strings"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

// PeriodKey identifies one goal_periods row.
type PeriodKey struct {
	GoalID      string
	PeriodStart string
	PeriodEnd   string
}

// byKeysChunk bounds the parameter count of one batched key lookup
// (SQLite caps bound variables at 999; 3 params per key).
const byKeysChunk = 300

type GoalPeriodRepository interface {
	// UpsertAll overwrites rows keyed by (goal_id, period_start,
	// period_end). Recalculation is the sole writer, so last write wins.
	UpsertAll(rows []*model.GoalPeriod) error
	// ByKeys batch-fetches exactly the requested rows; missing keys are
	// simply absent from the result.
	ByKeys(keys []PeriodKey) ([]*model.GoalPeriod, error)
	ByGoal(goalID string) ([]*model.GoalPeriod, error)
	DeleteByGoal(goalID string) error
}

type goalPeriodRepository struct {
	db *sqlx.DB
}

func NewGoalPeriodRepository(db *sqlx.DB) GoalPeriodRepository {
	return &goalPeriodRepository{db: db}
}

func (r *goalPeriodRepository) UpsertAll(rows []*model.GoalPeriod) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO goal_periods (goal_id, period_start, period_end, actual_value, status, calculated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (goal_id, period_start, period_end)
	          DO UPDATE SET actual_value = excluded.actual_value,
	                        status = excluded.status,
	                        calculated_at = excluded.calculated_at`

	for _, row := range rows {
		_, err = tx.Exec(query,
			row.GoalID,
			row.PeriodStart,
			row.PeriodEnd,
			row.ActualValue,
			row.Status,
			row.CalculatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert period %s/%s: %w", row.GoalID, row.PeriodStart, err)
		}
	}

	return tx.Commit()
}

func (r *goalPeriodRepository) ByKeys(keys []PeriodKey) ([]*model.GoalPeriod, error) {
	var rows []*model.GoalPeriod

	for start := 0; start < len(keys); start += byKeysChunk {
		chunk := keys[start:min(start+byKeysChunk, len(keys))]

		groups := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*3)
		for i, key := range chunk {
			groups = append(groups, fmt.Sprintf("(goal_id = $%d AND period_start = $%d AND period_end = $%d)",
				i*3+1, i*3+2, i*3+3))
			args = append(args, key.GoalID, key.PeriodStart, key.PeriodEnd)
		}

		query := `SELECT * FROM goal_periods WHERE ` + strings.Join(groups, " OR ")

		var batch []*model.GoalPeriod
		err := r.db.Select(&batch, query, args...)
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}

	return rows, nil
}

func (r *goalPeriodRepository) ByGoal(goalID string) ([]*model.GoalPeriod, error) {
	var rows []*model.GoalPeriod
	query := `SELECT * FROM goal_periods WHERE goal_id = $1 ORDER BY period_start ASC`

	err := r.db.Select(&rows, query, goalID)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *goalPeriodRepository) DeleteByGoal(goalID string) error {
	_, err := r.db.Exec(`DELETE FROM goal_periods WHERE goal_id = $1`, goalID)
	return err
}

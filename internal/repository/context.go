package repository

import (
	"database/sql"
	"errors"

	"github.com/habimori/habimori/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrContextNotFound = errors.New("context not found")
	ErrTagNotFound     = errors.New("tag not found")
)

type ContextRepository interface {
	Create(c *model.Context) error
	ByID(userID, contextID string) (*model.Context, error)
	Contexts(userID string) ([]*model.Context, error)
	Rename(userID, contextID, name string) error
	// Delete cascades onto goals and events via foreign keys.
	Delete(userID, contextID string) error
}

type contextRepository struct {
	db *sqlx.DB
}

func NewContextRepository(db *sqlx.DB) ContextRepository {
	return &contextRepository{db: db}
}

func (r *contextRepository) Create(c *model.Context) error {
	query := `INSERT INTO contexts (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, c.ID, c.UserID, c.Name, c.CreatedAt)
	return err
}

func (r *contextRepository) ByID(userID, contextID string) (*model.Context, error) {
	c := &model.Context{}
	query := `SELECT * FROM contexts WHERE id = $1 AND user_id = $2`

	err := r.db.Get(c, query, contextID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrContextNotFound
	}

	return c, err
}

func (r *contextRepository) Contexts(userID string) ([]*model.Context, error) {
	var contexts []*model.Context
	query := `SELECT * FROM contexts WHERE user_id = $1 ORDER BY name ASC`

	err := r.db.Select(&contexts, query, userID)
	if err != nil {
		return nil, err
	}

	return contexts, nil
}

func (r *contextRepository) Rename(userID, contextID, name string) error {
	query := `UPDATE contexts SET name = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.Exec(query, name, contextID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrContextNotFound
	}

	return nil
}

func (r *contextRepository) Delete(userID, contextID string) error {
	query := `DELETE FROM contexts WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, contextID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrContextNotFound
	}

	return nil
}

type TagRepository interface {
	Create(t *model.Tag) error
	Tags(userID string) ([]*model.Tag, error)
	// Delete detaches the tag from goals and entries via join-table cascade.
	Delete(userID, tagID string) error
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(t *model.Tag) error {
	query := `INSERT INTO tags (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, t.ID, t.UserID, t.Name, t.CreatedAt)
	return err
}

func (r *tagRepository) Tags(userID string) ([]*model.Tag, error) {
	var tags []*model.Tag
	query := `SELECT * FROM tags WHERE user_id = $1 ORDER BY name ASC`

	err := r.db.Select(&tags, query, userID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *tagRepository) Delete(userID, tagID string) error {
	query := `DELETE FROM tags WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, tagID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTagNotFound
	}

	return nil
}

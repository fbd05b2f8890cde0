package model

import (
	"time"
)

// Context is a free-form bucket ("Work", "Health") that goals and events
// belong to. Deleting a context cascades onto its goals and events.
type Context struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Tag is a named label attachable to goals and time entries. Deleting a tag
// detaches it everywhere.
type Tag struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

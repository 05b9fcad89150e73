package topic

import "time"

// Topic is a lesson topic label.
type Topic struct {
	ID        int64     `db:"id"`
	Label     string    `db:"label"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	FieldLabel = "label"
	FieldID    = "id"
)

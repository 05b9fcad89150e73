package student

import (
	"database/sql"
	"time"
)

// Student is a pupil the teacher gives lessons to.
type Student struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ParentID  sql.NullInt64 `db:"parent_id"` // Telegram ID of the parent who receives reports
	CreatedAt time.Time     `db:"created_at"`
}

// HasParent reports whether reports for this student can be delivered.
func (s *Student) HasParent() bool {
	return s.ParentID.Valid
}

// Update carries the mutable fields of a Student. Nil fields are left untouched.
type Update struct {
	Name     *string
	ParentID *int64
}

const (
	FieldName = "name"
	FieldID   = "id"
)

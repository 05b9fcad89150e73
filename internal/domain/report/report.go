package report

import (
	"database/sql"
	"time"
)

// Report describes one lesson given to one student.
// Only IsSent changes after the report is saved.
type Report struct {
	ID          int64          `db:"id"`
	LessonDate  time.Time      `db:"lesson_date"`
	LessonCount int            `db:"lesson_count"` // running per-student lesson number
	TopicID     int64          `db:"topic_id"`
	StudentID   int64          `db:"student_id"`
	Homework    HomeworkStatus `db:"homework_status"`
	IsProactive bool           `db:"is_proactive"`
	IsPaid      bool           `db:"is_paid"`
	Comment     sql.NullString `db:"comment"`
	IsSent      bool           `db:"is_sent"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Card projects the report into its display form.
func (r *Report) Card() Card {
	c := Card{
		StudentID:   r.StudentID,
		TopicID:     r.TopicID,
		LessonDate:  r.LessonDate,
		LessonCount: r.LessonCount,
		Homework:    r.Homework,
		IsProactive: r.IsProactive,
		IsPaid:      r.IsPaid,
	}
	if r.Comment.Valid {
		comment := r.Comment.String
		c.Comment = &comment
	}
	return c
}

// Card is the display-oriented view shared by saved reports and wizard previews.
// Referenced student and topic are resolved by the renderer.
type Card struct {
	StudentID   int64
	TopicID     int64
	LessonDate  time.Time
	LessonCount int
	Homework    HomeworkStatus
	IsProactive bool
	IsPaid      bool
	Comment     *string
}

const (
	FieldLessonDate = "lesson_date"
	FieldID         = "id"
)

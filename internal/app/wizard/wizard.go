// Package wizard holds the report builder: a fixed, linear sequence of steps
// that fills a report draft one answer at a time.
package wizard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lessons_reporter_bot/internal/domain/report"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the DD-MM-YYYY format used for typed lesson dates and for display.
const DateLayout = "02-01-2006"

var (
	ErrIncomplete     = fmt.Errorf("report draft is incomplete")
	ErrStepNotReached = fmt.Errorf("report wizard has not reached this step")
	ErrBadDate        = fmt.Errorf("lesson date does not match DD-MM-YYYY")
	ErrBadValue       = fmt.Errorf("value is out of range for this step")
)

// Step is a wizard position. Steps are strictly ordered.
type Step int

const (
	StepIdle Step = iota
	StepDate
	StepTopic
	StepStudent
	StepHomework
	StepProactivity
	StepPayment
	StepComment
	StepPreview
)

var stepNames = map[Step]string{
	StepIdle:        "idle",
	StepDate:        "date",
	StepTopic:       "topic",
	StepStudent:     "student",
	StepHomework:    "homework",
	StepProactivity: "proactivity",
	StepPayment:     "payment",
	StepComment:     "comment",
	StepPreview:     "preview",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Draft accumulates report fields. Every field stays nil until its step is answered.
type Draft struct {
	LessonDate  *time.Time             `json:"lesson_date,omitempty" validate:"required"`
	TopicID     *int64                 `json:"topic_id,omitempty" validate:"required"`
	StudentID   *int64                 `json:"student_id,omitempty" validate:"required"`
	LessonCount *int                   `json:"lesson_count,omitempty" validate:"required,min=1"`
	Homework    *report.HomeworkStatus `json:"homework,omitempty" validate:"required,min=0,max=2"`
	IsProactive *bool                  `json:"is_proactive,omitempty" validate:"required"`
	IsPaid      *bool                  `json:"is_paid,omitempty" validate:"required"`
	Comment     *string                `json:"comment,omitempty"`
}

// LessonCounter is the read the student step performs to number the lesson.
type LessonCounter interface {
	CountByStudent(ctx context.Context, studentID int64) (int, error)
}

var validate = validator.New()

// Wizard is the per-session report builder. The zero value is idle.
// Step is the furthest step reached: answering step k moves it to k+1,
// and an answer for a step beyond Step is refused.
type Wizard struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// Start drops any previous draft and waits for the lesson date.
func (w *Wizard) Start() {
	w.Draft = Draft{}
	w.Step = StepDate
}

// Reset abandons the draft without saving it.
func (w *Wizard) Reset() {
	*w = Wizard{}
}

// Active reports whether a draft is being built.
func (w *Wizard) Active() bool {
	return w.Step != StepIdle
}

func (w *Wizard) reached(step Step) error {
	if w.Step == StepIdle || w.Step < step {
		return fmt.Errorf("%w: at %s, got answer for %s", ErrStepNotReached, w.Step, step)
	}
	return nil
}

func (w *Wizard) advance(past Step) {
	if next := past + 1; w.Step < next && next <= StepPreview {
		w.Step = next
	}
}

// SetDate stores the lesson date, truncated to the day in the date's location.
func (w *Wizard) SetDate(day time.Time) error {
	if err := w.reached(StepDate); err != nil {
		return err
	}
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	w.Draft.LessonDate = &d
	w.advance(StepDate)
	return nil
}

// SetDateText parses a DD-MM-YYYY date typed by the teacher. On ErrBadDate
// nothing changes, so the caller can simply ask again.
func (w *Wizard) SetDateText(text string, loc *time.Location) error {
	if err := w.reached(StepDate); err != nil {
		return err
	}
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(text), loc)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadDate, text)
	}
	return w.SetDate(day)
}

func (w *Wizard) SetTopic(topicID int64) error {
	if err := w.reached(StepTopic); err != nil {
		return err
	}
	w.Draft.TopicID = &topicID
	w.advance(StepTopic)
	return nil
}

// SelectStudent stores the student and numbers the lesson as the count of the
// student's saved reports plus one.
func (w *Wizard) SelectStudent(ctx context.Context, counter LessonCounter, studentID int64) error {
	if err := w.reached(StepStudent); err != nil {
		return err
	}
	prior, err := counter.CountByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("count reports of student %d: %w", studentID, err)
	}
	count := prior + 1
	w.Draft.StudentID = &studentID
	w.Draft.LessonCount = &count
	w.advance(StepStudent)
	return nil
}

func (w *Wizard) SetHomework(status report.HomeworkStatus) error {
	if err := w.reached(StepHomework); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: homework status %d", ErrBadValue, status)
	}
	w.Draft.Homework = &status
	w.advance(StepHomework)
	return nil
}

func (w *Wizard) SetProactive(v bool) error {
	if err := w.reached(StepProactivity); err != nil {
		return err
	}
	w.Draft.IsProactive = &v
	w.advance(StepProactivity)
	return nil
}

func (w *Wizard) SetPaid(v bool) error {
	if err := w.reached(StepPayment); err != nil {
		return err
	}
	w.Draft.IsPaid = &v
	w.advance(StepPayment)
	return nil
}

// SetComment stores the optional comment and moves on to the preview.
func (w *Wizard) SetComment(text string) error {
	if err := w.reached(StepComment); err != nil {
		return err
	}
	w.Draft.Comment = &text
	w.advance(StepComment)
	return nil
}

// SkipComment clears the comment and moves on to the preview.
func (w *Wizard) SkipComment() error {
	if err := w.reached(StepComment); err != nil {
		return err
	}
	w.Draft.Comment = nil
	w.advance(StepComment)
	return nil
}

// Preview materializes the draft for display. Missing fields come out as zero values.
func (w *Wizard) Preview() report.Card {
	var c report.Card
	d := w.Draft
	if d.LessonDate != nil {
		c.LessonDate = *d.LessonDate
	}
	if d.TopicID != nil {
		c.TopicID = *d.TopicID
	}
	if d.StudentID != nil {
		c.StudentID = *d.StudentID
	}
	if d.LessonCount != nil {
		c.LessonCount = *d.LessonCount
	}
	if d.Homework != nil {
		c.Homework = *d.Homework
	}
	if d.IsProactive != nil {
		c.IsProactive = *d.IsProactive
	}
	if d.IsPaid != nil {
		c.IsPaid = *d.IsPaid
	}
	if d.Comment != nil {
		comment := *d.Comment
		c.Comment = &comment
	}
	return c
}

// Build validates the draft and turns it into an unsaved Report.
// The draft is left untouched whether or not it succeeds.
func (w *Wizard) Build() (*report.Report, error) {
	if w.Step != StepPreview {
		return nil, fmt.Errorf("%w: at %s", ErrIncomplete, w.Step)
	}
	if err := validate.Struct(w.Draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed %q", ErrIncomplete, verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrIncomplete, err)
	}

	d := w.Draft
	r := &report.Report{
		LessonDate:  *d.LessonDate,
		LessonCount: *d.LessonCount,
		TopicID:     *d.TopicID,
		StudentID:   *d.StudentID,
		Homework:    *d.Homework,
		IsProactive: *d.IsProactive,
		IsPaid:      *d.IsPaid,
	}
	if d.Comment != nil {
		r.Comment = sql.NullString{String: *d.Comment, Valid: true}
	}
	return r, nil
}

// Complete is Build followed by Reset on success.
func (w *Wizard) Complete() (*report.Report, error) {
	r, err := w.Build()
	if err != nil {
		return nil, err
	}
	w.Reset()
	return r, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lessons_reporter_bot/internal/app/wizard"
	"lessons_reporter_bot/internal/domain/report"
	"lessons_reporter_bot/internal/domain/student"
	"lessons_reporter_bot/internal/domain/topic"
)

const (
	missingStudentName = "не найден"
	missingTopicLabel  = "не найдена"
)

var homeworkLabels = map[report.HomeworkStatus]string{
	report.HomeworkDone:    "выполнено",
	report.HomeworkPartial: "частично выполнено",
	report.HomeworkNotDone: "не выполнено",
}

// CardFormatter renders report cards, resolving the student and topic they reference.
type CardFormatter struct {
	students student.Repository
	topics   topic.Repository
}

func NewCardFormatter(sr student.Repository, tr topic.Repository) *CardFormatter {
	return &CardFormatter{students: sr, topics: tr}
}

// Format renders c. A student or topic deleted since the report was written
// is shown as missing; any other lookup failure is returned.
func (f *CardFormatter) Format(ctx context.Context, c report.Card) (string, error) {
	name := missingStudentName
	s, err := f.students.GetByID(ctx, c.StudentID)
	switch {
	case err == nil:
		name = s.Name
	case !errors.Is(err, student.ErrNotFound):
		return "", fmt.Errorf("get student (id: %d): %w", c.StudentID, err)
	}

	label := missingTopicLabel
	t, err := f.topics.GetByID(ctx, c.TopicID)
	switch {
	case err == nil:
		label = t.Label
	case !errors.Is(err, topic.ErrNotFound):
		return "", fmt.Errorf("get topic (id: %d): %w", c.TopicID, err)
	}

	return RenderCard(c, name, label), nil
}

// RenderCard lays out a report card with already resolved names.
func RenderCard(c report.Card, studentName, topicLabel string) string {
	homework, ok := homeworkLabels[c.Homework]
	if !ok {
		homework = homeworkLabels[report.HomeworkNotDone]
	}
	activity := "слабая"
	if c.IsProactive {
		activity = "высокая"
	}
	payment := "не оплачено"
	if c.IsPaid {
		payment = "оплачено"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ФИО: %s\n", studentName)
	fmt.Fprintf(&b, "Занятие № %d от %s\n", c.LessonCount, c.LessonDate.Format(wizard.DateLayout))
	fmt.Fprintf(&b, "Тема: %s\n", topicLabel)
	fmt.Fprintf(&b, "Д/З: %s\n", homework)
	fmt.Fprintf(&b, "Активность на занятии %s\n", activity)
	fmt.Fprintf(&b, "Занятие %s", payment)
	if c.Comment != nil {
		fmt.Fprintf(&b, "\nКомментарий:\n%s", *c.Comment)
	}
	return b.String()
}

// reportTitle is the list label of a report: its date and the student's name.
func reportTitle(r *report.Report, studentName string) string {
	return fmt.Sprintf("%s — %s", r.LessonDate.Format(wizard.DateLayout), studentName)
}

package app

import (
	"context"
	"errors"
	"fmt"

	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/report"
)

// reportList shows reports newest first, optionally only those of one student.
func (s *BotService) reportList(ctx context.Context, studentID int64, page int) ([]Screen, error) {
	order := listing.ByDesc(report.FieldLessonDate)

	var (
		all []*report.Report
		err error
	)
	if studentID != 0 {
		all, err = s.reports.ListByStudent(ctx, studentID, order)
	} else {
		all, err = s.reports.List(ctx, order)
	}
	if err != nil {
		return nil, fmt.Errorf("list reports (student: %d): %w", studentID, err)
	}

	names, err := s.studentNames(ctx)
	if err != nil {
		return nil, err
	}

	res := pagination.Paginate(all, page, s.settings.PageSize)
	buttons := make([]Button, 0, len(res.Items)+4)
	for _, r := range res.Items {
		name, ok := names[r.StudentID]
		if !ok {
			name = missingStudentName
		}
		buttons = append(buttons, button(reportTitle(r, name), action.ShowItem{
			Item: action.ItemReport, Filter: studentID, Page: page, ID: r.ID,
		}))
	}
	toPage := func(p int) action.Action {
		return action.ShowList{Item: action.ItemReport, Filter: studentID, Page: p}
	}
	buttons = append(buttons, pageButtons(res, page, toPage, toPage)...)
	if studentID != 0 {
		buttons = append(buttons, button(labelToStudents, action.ShowList{Item: action.ItemStudent, Page: pagination.FirstPage}))
	} else {
		buttons = append(buttons, button(labelSendSaved, action.SendSaved{}))
	}
	buttons = append(buttons, menuButton())

	return one(Screen{Text: textChooseReport, Buttons: buttons, RowWidth: 1}), nil
}

func (s *BotService) reportDetail(ctx context.Context, id, studentID int64, page int) ([]Screen, error) {
	back := button(labelBack, action.ShowList{Item: action.ItemReport, Filter: studentID, Page: page})

	r, err := s.reports.GetByID(ctx, id)
	if errors.Is(err, report.ErrNotFound) {
		return one(Screen{Text: textReportNotFound, Buttons: []Button{back}}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report (id: %d): %w", id, err)
	}

	text, err := s.cards.Format(ctx, r.Card())
	if err != nil {
		return nil, err
	}
	return one(Screen{Text: text, Buttons: []Button{back}}), nil
}

func (s *BotService) sendSaved(ctx context.Context) ([]Screen, error) {
	summary, err := s.delivery.SendSaved(ctx)
	if errors.Is(err, ErrSendInProgress) {
		return one(Screen{Text: textSendInProgress, Buttons: []Button{menuButton()}}), nil
	}
	if err != nil {
		return nil, err
	}
	return one(Screen{
		Text: summary.Text(),
		Buttons: []Button{
			button(labelToReports, action.ShowList{Item: action.ItemReport, Page: pagination.FirstPage}),
			menuButton(),
		},
		RowWidth: 1,
	}), nil
}

func (s *BotService) studentNames(ctx context.Context) (map[int64]string, error) {
	all, err := s.students.List(ctx, listing.Options{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	names := make(map[int64]string, len(all))
	for _, st := range all {
		names[st.ID] = st.Name
	}
	return names, nil
}

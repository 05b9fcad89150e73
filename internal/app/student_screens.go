package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
	"lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/student"
)

func (s *BotService) studentList(ctx context.Context, page int) ([]Screen, error) {
	all, err := s.students.List(ctx, listing.By(student.FieldName))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	res := pagination.Paginate(all, page, s.settings.PageSize)

	buttons := make([]Button, 0, len(res.Items)+4)
	for _, st := range res.Items {
		buttons = append(buttons, button(st.Name, action.ShowItem{Item: action.ItemStudent, Page: page, ID: st.ID}))
	}
	toPage := func(p int) action.Action { return action.ShowList{Item: action.ItemStudent, Page: p} }
	buttons = append(buttons, pageButtons(res, page, toPage, toPage)...)
	buttons = append(buttons,
		button(labelAddStudent, action.CreateStudent{Page: page}),
		menuButton(),
	)
	return one(Screen{Text: textChooseStudent, Buttons: buttons, RowWidth: 2}), nil
}

func (s *BotService) studentDetail(ctx context.Context, id int64, page int) ([]Screen, error) {
	back := button(labelBack, action.ShowList{Item: action.ItemStudent, Page: page})

	st, err := s.students.GetByID(ctx, id)
	if errors.Is(err, student.ErrNotFound) {
		return one(Screen{Text: textStudentNotFound, Buttons: []Button{back}}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student (id: %d): %w", id, err)
	}

	parent := textNoParent
	if st.HasParent() {
		parent = strconv.FormatInt(st.ParentID.Int64, 10)
	}
	return one(Screen{
		Text: fmt.Sprintf(textStudentCard, st.Name, parent),
		Buttons: []Button{
			button(labelReports, action.ShowList{Item: action.ItemReport, Filter: st.ID, Page: pagination.FirstPage}),
			button(labelDelete, action.DeleteItem{Item: action.ItemStudent, Page: page, ID: st.ID}),
			button(labelRename, action.RenameStudent{StudentID: st.ID, Page: page}),
			button(labelSetParent, action.SetParent{StudentID: st.ID, Page: page}),
			back,
		},
	}), nil
}

func (s *BotService) deleteStudent(ctx context.Context, id int64, page int) ([]Screen, error) {
	deleted, err := s.students.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete student (id: %d): %w", id, err)
	}
	text := textStudentNotFound
	if deleted {
		text = textStudentDeleted
	}
	return one(Screen{
		Text:    text,
		Buttons: []Button{button(labelBack, action.ShowList{Item: action.ItemStudent, Page: page})},
	}), nil
}

func confirmDeleteScreen(a action.DeleteItem) Screen {
	text := textConfirmTopicDelete
	if a.Item == action.ItemStudent {
		text = textConfirmStudentDelete
	}
	return Screen{
		Text: text,
		Buttons: []Button{
			button(labelDelete, action.DeleteConfirmed(a)),
			button(labelBack, action.ShowItem{Item: a.Item, Page: a.Page, ID: a.ID}),
		},
	}
}

func studentNamePrompt(page int) Screen {
	return Screen{
		Text:    textEnterStudentName,
		Buttons: []Button{button(labelBack, action.ShowList{Item: action.ItemStudent, Page: page})},
	}
}

func renamePrompt(studentID int64, page int) Screen {
	return Screen{
		Text:    textEnterRename,
		Buttons: []Button{button(labelBack, action.ShowItem{Item: action.ItemStudent, Page: page, ID: studentID})},
	}
}

func parentIDPrompt(text string, studentID int64, page int) Screen {
	return Screen{
		Text:    text,
		Buttons: []Button{button(labelBack, action.ShowItem{Item: action.ItemStudent, Page: page, ID: studentID})},
	}
}

func (s *BotService) onStudentName(ctx context.Context, sess *session.Session, p session.Pending, text string) ([]Screen, error) {
	name := NormalizeName(text)
	if name == "" {
		sess.Expect(p)
		return one(studentNamePrompt(p.Page)), nil
	}

	st := &student.Student{Name: name}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	s.logger.WithField("student_id", st.ID).Info("Student created")
	return s.studentDetail(ctx, st.ID, p.Page)
}

func (s *BotService) onStudentRename(ctx context.Context, sess *session.Session, p session.Pending, text string) ([]Screen, error) {
	name := strings.Join(strings.Fields(text), " ")
	if name == "" {
		sess.Expect(p)
		return one(renamePrompt(p.StudentID, p.Page)), nil
	}

	err := s.students.Update(ctx, p.StudentID, student.Update{Name: &name})
	if err != nil && !errors.Is(err, student.ErrNotFound) {
		return nil, fmt.Errorf("rename student (id: %d): %w", p.StudentID, err)
	}
	return s.studentDetail(ctx, p.StudentID, p.Page)
}

func (s *BotService) onParentID(ctx context.Context, sess *session.Session, p session.Pending, text string) ([]Screen, error) {
	parentID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || parentID <= 0 {
		sess.Expect(p)
		return one(parentIDPrompt(textBadParentID, p.StudentID, p.Page)), nil
	}

	err = s.students.Update(ctx, p.StudentID, student.Update{ParentID: &parentID})
	if err != nil && !errors.Is(err, student.ErrNotFound) {
		return nil, fmt.Errorf("set parent of student (id: %d): %w", p.StudentID, err)
	}
	return s.studentDetail(ctx, p.StudentID, p.Page)
}

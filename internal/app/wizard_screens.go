package app

import (
	"context"
	"errors"
	"fmt"

	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
	"lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/app/wizard"
	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/report"
	"lessons_reporter_bot/internal/domain/student"
	"lessons_reporter_bot/internal/domain/topic"

	"github.com/sirupsen/logrus"
)

// wizardAnswer converts a refused wizard answer into the "start over" screen.
// The wizard itself is left as it was.
func wizardAnswer(err error) ([]Screen, error) {
	if errors.Is(err, wizard.ErrStepNotReached) || errors.Is(err, wizard.ErrIncomplete) {
		return one(incompleteScreen()), nil
	}
	return nil, err
}

func incompleteScreen() Screen {
	return Screen{
		Text:    textIncomplete,
		Buttons: []Button{button(labelRestartReport, action.WizardStart{}), menuButton()},
	}
}

func dateScreen() Screen {
	return Screen{
		Text: textChooseDate,
		Buttons: []Button{
			button(labelToday, action.WizardDate{Day: action.Today}),
			button(labelYesterday, action.WizardDate{Day: action.Yesterday}),
			button(labelEnterDate, action.WizardDateManual{}),
			menuButton(),
		},
	}
}

func dateInputScreen(text string) Screen {
	return Screen{Text: text, Buttons: []Button{menuButton()}}
}

func homeworkScreen() Screen {
	return Screen{
		Text: textHomework,
		Buttons: []Button{
			button(labelHomeworkDone, action.WizardHomework{Status: int(report.HomeworkDone)}),
			button(labelHomeworkPart, action.WizardHomework{Status: int(report.HomeworkPartial)}),
			button(labelHomeworkNone, action.WizardHomework{Status: int(report.HomeworkNotDone)}),
			menuButton(),
		},
	}
}

func proactivityScreen() Screen {
	return Screen{
		Text: textProactivity,
		Buttons: []Button{
			button(labelStrong, action.WizardProactive{Value: true}),
			button(labelWeak, action.WizardProactive{Value: false}),
			menuButton(),
		},
	}
}

func paymentScreen() Screen {
	return Screen{
		Text: textPayment,
		Buttons: []Button{
			button(labelPaid, action.WizardPaid{Value: true}),
			button(labelNotPaid, action.WizardPaid{Value: false}),
			menuButton(),
		},
	}
}

func askCommentScreen() Screen {
	return Screen{
		Text: textAskComment,
		Buttons: []Button{
			button(labelAddComment, action.WizardComment{}),
			button(labelSkip, action.WizardPreview{}),
			menuButton(),
		},
	}
}

func (s *BotService) wizardDate(ctx context.Context, sess *session.Session, day action.LessonDay) ([]Screen, error) {
	date := s.today()
	if day == action.Yesterday {
		date = date.AddDate(0, 0, -1)
	}
	if err := sess.Wizard.SetDate(date); err != nil {
		return wizardAnswer(err)
	}
	return s.topicPicker(ctx, pagination.FirstPage)
}

func (s *BotService) wizardDateManual(sess *session.Session) ([]Screen, error) {
	if !sess.Wizard.Active() {
		return one(incompleteScreen()), nil
	}
	sess.Expect(session.Pending{Prompt: session.PromptLessonDate})
	return one(dateInputScreen(textEnterDate)), nil
}

func (s *BotService) onLessonDate(ctx context.Context, sess *session.Session, p session.Pending, text string) ([]Screen, error) {
	err := sess.Wizard.SetDateText(text, s.settings.Location)
	if errors.Is(err, wizard.ErrBadDate) {
		sess.Expect(p)
		return one(dateInputScreen(textBadDate)), nil
	}
	if err != nil {
		return wizardAnswer(err)
	}
	return s.topicPicker(ctx, pagination.FirstPage)
}

func (s *BotService) topicPicker(ctx context.Context, page int) ([]Screen, error) {
	all, err := s.topics.List(ctx, listing.By(topic.FieldLabel))
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	res := pagination.Paginate(all, page, s.settings.PageSize)

	buttons := make([]Button, 0, len(res.Items)+3)
	for _, t := range res.Items {
		buttons = append(buttons, button(t.Label, action.WizardTopic{TopicID: t.ID}))
	}
	toPage := func(p int) action.Action { return action.WizardTopicPage{Page: p} }
	buttons = append(buttons, pageButtons(res, page, toPage, toPage)...)
	buttons = append(buttons, menuButton())
	return one(Screen{Text: textChooseTopic, Buttons: buttons, RowWidth: 2}), nil
}

func (s *BotService) studentPicker(ctx context.Context, page int) ([]Screen, error) {
	all, err := s.students.List(ctx, listing.By(student.FieldName))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	res := pagination.Paginate(all, page, s.settings.PageSize)

	buttons := make([]Button, 0, len(res.Items)+3)
	for _, st := range res.Items {
		buttons = append(buttons, button(st.Name, action.WizardStudent{StudentID: st.ID}))
	}
	toPage := func(p int) action.Action { return action.WizardStudentPage{Page: p} }
	buttons = append(buttons, pageButtons(res, page, toPage, toPage)...)
	buttons = append(buttons, menuButton())
	return one(Screen{Text: textChooseStudent, Buttons: buttons}), nil
}

func (s *BotService) wizardTopicPage(ctx context.Context, sess *session.Session, page int) ([]Screen, error) {
	if !sess.Wizard.Active() || sess.Wizard.Step < wizard.StepTopic {
		return one(incompleteScreen()), nil
	}
	return s.topicPicker(ctx, page)
}

func (s *BotService) wizardTopic(ctx context.Context, sess *session.Session, topicID int64) ([]Screen, error) {
	if err := sess.Wizard.SetTopic(topicID); err != nil {
		return wizardAnswer(err)
	}
	return s.studentPicker(ctx, pagination.FirstPage)
}

func (s *BotService) wizardStudentPage(ctx context.Context, sess *session.Session, page int) ([]Screen, error) {
	if !sess.Wizard.Active() || sess.Wizard.Step < wizard.StepStudent {
		return one(incompleteScreen()), nil
	}
	return s.studentPicker(ctx, page)
}

func (s *BotService) wizardStudent(ctx context.Context, sess *session.Session, studentID int64) ([]Screen, error) {
	if err := sess.Wizard.SelectStudent(ctx, s.reports, studentID); err != nil {
		return wizardAnswer(err)
	}
	return one(homeworkScreen()), nil
}

func (s *BotService) wizardHomework(sess *session.Session, status report.HomeworkStatus) ([]Screen, error) {
	err := sess.Wizard.SetHomework(status)
	if errors.Is(err, wizard.ErrBadValue) {
		return one(homeworkScreen()), nil
	}
	if err != nil {
		return wizardAnswer(err)
	}
	return one(proactivityScreen()), nil
}

func (s *BotService) wizardProactive(sess *session.Session, v bool) ([]Screen, error) {
	if err := sess.Wizard.SetProactive(v); err != nil {
		return wizardAnswer(err)
	}
	return one(paymentScreen()), nil
}

func (s *BotService) wizardPaid(sess *session.Session, v bool) ([]Screen, error) {
	if err := sess.Wizard.SetPaid(v); err != nil {
		return wizardAnswer(err)
	}
	return one(askCommentScreen()), nil
}

func (s *BotService) wizardComment(sess *session.Session) ([]Screen, error) {
	if !sess.Wizard.Active() || sess.Wizard.Step < wizard.StepComment {
		return one(incompleteScreen()), nil
	}
	sess.Expect(session.Pending{Prompt: session.PromptComment})
	return one(Screen{
		Text:    textEnterComment,
		Buttons: []Button{button(labelSkip, action.WizardPreview{}), menuButton()},
	}), nil
}

func (s *BotService) onComment(ctx context.Context, sess *session.Session, text string) ([]Screen, error) {
	if err := sess.Wizard.SetComment(text); err != nil {
		return wizardAnswer(err)
	}
	return s.previewScreen(ctx, sess)
}

// wizardPreview skips the comment when the wizard is still waiting for one.
func (s *BotService) wizardPreview(ctx context.Context, sess *session.Session) ([]Screen, error) {
	if sess.Wizard.Step == wizard.StepComment {
		if err := sess.Wizard.SkipComment(); err != nil {
			return wizardAnswer(err)
		}
	}
	if sess.Wizard.Step != wizard.StepPreview {
		return one(incompleteScreen()), nil
	}
	return s.previewScreen(ctx, sess)
}

func (s *BotService) previewScreen(ctx context.Context, sess *session.Session) ([]Screen, error) {
	card := sess.Wizard.Preview()
	text, err := s.cards.Format(ctx, card)
	if err != nil {
		return nil, err
	}

	saveLabel := labelSaveOnly
	if _, ok, err := s.parentOf(ctx, card.StudentID); err != nil {
		return nil, err
	} else if ok {
		saveLabel = labelSaveAndSend
	}

	return one(Screen{
		Text: text,
		Buttons: []Button{
			menuButton(),
			button(labelRestartReport, action.WizardStart{}),
			button(saveLabel, action.WizardSave{}),
		},
	}), nil
}

// wizardSave stores the finished report and, when the student has a parent,
// delivers it right away. A failed delivery leaves the report queued.
func (s *BotService) wizardSave(ctx context.Context, sess *session.Session, logCtx *logrus.Entry) ([]Screen, error) {
	r, err := sess.Wizard.Build()
	if err != nil {
		return wizardAnswer(err)
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	sess.Wizard.Reset()

	logCtx = logCtx.WithFields(logrus.Fields{"report_id": r.ID, "student_id": r.StudentID})
	logCtx.Info("Report saved")

	next := []Button{button(labelRestartReport, action.WizardStart{}), menuButton()}

	parentID, ok, err := s.parentOf(ctx, r.StudentID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to look up parent of saved report")
		return one(Screen{Text: textSaved, Buttons: next}), nil
	}
	if !ok {
		return one(Screen{Text: textSaved, Buttons: next}), nil
	}

	err = s.delivery.Deliver(ctx, r, parentID)
	switch {
	case err == nil, errors.Is(err, report.ErrAlreadySent):
		return one(Screen{Text: textSavedAndSent, Buttons: next}), nil
	case errors.Is(err, ErrDeliveryInProgress):
		return one(Screen{Text: textSavedSending, Buttons: next}), nil
	case errors.Is(err, ErrNotMarkedSent):
		return one(Screen{Text: textSavedNotMarked, Buttons: next}), nil
	default:
		logCtx.WithError(err).WithField("parent_id", parentID).Warn("Saved report was not delivered")
		return one(Screen{Text: fmt.Sprintf(textSavedNotSent, deliveryFailureReason(err)), Buttons: next}), nil
	}
}

// parentOf returns the parent id of a student. A missing student has no parent.
func (s *BotService) parentOf(ctx context.Context, studentID int64) (int64, bool, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, student.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get student (id: %d): %w", studentID, err)
	}
	if !st.HasParent() {
		return 0, false, nil
	}
	return st.ParentID.Int64, true, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
	"lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/domain/report"
	"lessons_reporter_bot/internal/domain/student"
	"lessons_reporter_bot/internal/domain/topic"

	"github.com/sirupsen/logrus"
)

// BotSettings holds the tunables of the dispatcher.
type BotSettings struct {
	PageSize int
	// Location is the teacher's time zone, used for "today" and "yesterday".
	Location *time.Location
	Now      func() time.Time
}

// BotService turns button presses and free text into screens.
// Updates from one user are handled one at a time.
type BotService struct {
	access   *AccessService
	students student.Repository
	topics   topic.Repository
	reports  report.Repository
	sessions session.Store
	delivery *DeliveryService
	cards    *CardFormatter
	settings BotSettings
	locks    *userLocks
	logger   *logrus.Entry
}

func NewBotService(
	access *AccessService,
	sr student.Repository,
	tr topic.Repository,
	rr report.Repository,
	sessions session.Store,
	delivery *DeliveryService,
	settings BotSettings,
	logger *logrus.Entry,
) *BotService {
	if settings.PageSize <= 0 {
		settings.PageSize = pagination.DefaultPageSize
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &BotService{
		access:   access,
		students: sr,
		topics:   tr,
		reports:  rr,
		sessions: sessions,
		delivery: delivery,
		cards:    NewCardFormatter(sr, tr),
		settings: settings,
		locks:    newUserLocks(),
		logger:   logger.WithField("service", "bot"),
	}
}

// Welcome answers /start. Teachers get the main menu; anyone else gets their
// Telegram id to pass on to the teacher.
func (s *BotService) Welcome(ctx context.Context, userID int64) []Screen {
	if !s.access.HasAccess(userID) {
		s.logger.WithField("sender_id", userID).Info("Welcoming user without teacher access")
		return []Screen{
			{Text: fmt.Sprintf(textWelcomeID, userID), Markdown: true},
			{Text: textWelcomeFollow},
		}
	}
	return s.HandleAction(ctx, userID, action.ShowMenu{})
}

// HandleAction runs a decoded button press. Any outstanding prompt is dropped
// first; the handler may set a new one.
func (s *BotService) HandleAction(ctx context.Context, userID int64, a action.Action) []Screen {
	logCtx := s.logger.WithFields(logrus.Fields{
		"sender_id": userID,
		"action":    action.Tag(a),
	})
	if !s.access.HasAccess(userID) {
		logCtx.Warn("Ignoring action from user without access")
		return nil
	}
	if _, ok := a.(action.Noop); ok || a == nil {
		logCtx.Debug("Ignoring stale or malformed action")
		return nil
	}

	return s.withSession(ctx, userID, logCtx, func(sess *session.Session) ([]Screen, error) {
		sess.ClearPending()
		return s.dispatch(ctx, sess, a, logCtx)
	})
}

// HandleText routes free text to the prompt the user was asked. Without an
// outstanding prompt the main menu is shown.
func (s *BotService) HandleText(ctx context.Context, userID int64, text string) []Screen {
	logCtx := s.logger.WithField("sender_id", userID)
	if !s.access.HasAccess(userID) {
		logCtx.Warn("Ignoring text from user without access")
		return nil
	}

	return s.withSession(ctx, userID, logCtx, func(sess *session.Session) ([]Screen, error) {
		p := sess.TakePending()
		logCtx = logCtx.WithField("prompt", p.Prompt.String())

		switch p.Prompt {
		case session.PromptTopicName:
			return s.onTopicName(ctx, sess, p, text)
		case session.PromptStudentName:
			return s.onStudentName(ctx, sess, p, text)
		case session.PromptStudentRename:
			return s.onStudentRename(ctx, sess, p, text)
		case session.PromptParentID:
			return s.onParentID(ctx, sess, p, text)
		case session.PromptLessonDate:
			return s.onLessonDate(ctx, sess, p, text)
		case session.PromptComment:
			return s.onComment(ctx, sess, text)
		default:
			logCtx.Debug("No prompt outstanding, showing main menu")
			return one(mainMenuScreen()), nil
		}
	})
}

// withSession loads the session under the user's lock, runs fn and saves the
// session, or drops it once it is idle.
// Errors are logged and rendered as the generic error screen.
func (s *BotService) withSession(
	ctx context.Context,
	userID int64,
	logCtx *logrus.Entry,
	fn func(sess *session.Session) ([]Screen, error),
) []Screen {
	unlock := s.locks.lock(userID)
	defer unlock()

	sess, err := s.sessions.Load(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load session")
		return one(errorScreen())
	}

	screens, err := fn(sess)
	if err != nil {
		logCtx.WithError(err).Error("Failed to handle update")
		screens = one(errorScreen())
	}

	if sess.Idle() {
		if err := s.sessions.Delete(ctx, userID); err != nil {
			logCtx.WithError(err).Error("Failed to drop idle session")
			return one(errorScreen())
		}
		return screens
	}

	sess.UpdatedAt = s.settings.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		logCtx.WithError(err).Error("Failed to save session")
		return one(errorScreen())
	}
	return screens
}

func (s *BotService) dispatch(ctx context.Context, sess *session.Session, a action.Action, logCtx *logrus.Entry) ([]Screen, error) {
	switch a := a.(type) {
	case action.ShowMenu:
		sess.Wizard.Reset()
		return one(mainMenuScreen()), nil

	case action.ShowList:
		switch a.Item {
		case action.ItemStudent:
			return s.studentList(ctx, a.Page)
		case action.ItemTopic:
			return s.topicList(ctx, a.Page)
		case action.ItemReport:
			return s.reportList(ctx, a.Filter, a.Page)
		}
	case action.ShowItem:
		switch a.Item {
		case action.ItemStudent:
			return s.studentDetail(ctx, a.ID, a.Page)
		case action.ItemTopic:
			return s.topicDetail(ctx, a.ID, a.Page)
		case action.ItemReport:
			return s.reportDetail(ctx, a.ID, a.Filter, a.Page)
		}
	case action.DeleteItem:
		switch a.Item {
		case action.ItemStudent, action.ItemTopic:
			return one(confirmDeleteScreen(a)), nil
		}
	case action.DeleteConfirmed:
		switch a.Item {
		case action.ItemStudent:
			return s.deleteStudent(ctx, a.ID, a.Page)
		case action.ItemTopic:
			return s.deleteTopic(ctx, a.ID, a.Page)
		}

	case action.CreateStudent:
		sess.Expect(session.Pending{Prompt: session.PromptStudentName, Page: a.Page})
		return one(studentNamePrompt(a.Page)), nil
	case action.CreateTopic:
		sess.Expect(session.Pending{Prompt: session.PromptTopicName, Page: a.Page})
		return one(topicNamePrompt(a.Page)), nil
	case action.RenameStudent:
		sess.Expect(session.Pending{Prompt: session.PromptStudentRename, StudentID: a.StudentID, Page: a.Page})
		return one(renamePrompt(a.StudentID, a.Page)), nil
	case action.SetParent:
		sess.Expect(session.Pending{Prompt: session.PromptParentID, StudentID: a.StudentID, Page: a.Page})
		return one(parentIDPrompt(textEnterParentID, a.StudentID, a.Page)), nil

	case action.WizardStart:
		sess.Wizard.Start()
		return one(dateScreen()), nil
	case action.WizardDate:
		return s.wizardDate(ctx, sess, a.Day)
	case action.WizardDateManual:
		return s.wizardDateManual(sess)
	case action.WizardTopicPage:
		return s.wizardTopicPage(ctx, sess, a.Page)
	case action.WizardTopic:
		return s.wizardTopic(ctx, sess, a.TopicID)
	case action.WizardStudentPage:
		return s.wizardStudentPage(ctx, sess, a.Page)
	case action.WizardStudent:
		return s.wizardStudent(ctx, sess, a.StudentID)
	case action.WizardHomework:
		return s.wizardHomework(sess, report.HomeworkStatus(a.Status))
	case action.WizardProactive:
		return s.wizardProactive(sess, a.Value)
	case action.WizardPaid:
		return s.wizardPaid(sess, a.Value)
	case action.WizardComment:
		return s.wizardComment(sess)
	case action.WizardPreview:
		return s.wizardPreview(ctx, sess)
	case action.WizardSave:
		return s.wizardSave(ctx, sess, logCtx)

	case action.SendSaved:
		return s.sendSaved(ctx)
	}

	logCtx.WithField("action_value", fmt.Sprintf("%+v", a)).Warn("Unhandled action")
	return nil, nil
}

func (s *BotService) today() time.Time {
	return s.settings.Now().In(s.settings.Location)
}

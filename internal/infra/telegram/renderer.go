package telegram

import (
	"sync"

	"lessons_reporter_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Messenger is the part of *telebot.Bot used to render screens.
type Messenger interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	EditReplyMarkup(msg telebot.Editable, markup *telebot.ReplyMarkup) (*telebot.Message, error)
}

// Renderer sends screens and keeps at most one live keyboard per user:
// before new screens go out, the buttons of the previous ones are removed.
type Renderer struct {
	bot Messenger
	kb  *Keyboard

	mu   sync.Mutex
	live map[int64][]telebot.StoredMessage
}

func NewRenderer(bot Messenger, kb *Keyboard) *Renderer {
	return &Renderer{bot: bot, kb: kb, live: make(map[int64][]telebot.StoredMessage)}
}

// Render clears the keyboards left on earlier screens of userID, including
// tapped when the update came from a button, then sends screens to to.
func (r *Renderer) Render(to telebot.Recipient, userID int64, tapped *telebot.Message, screens []app.Screen, logCtx *logrus.Entry) error {
	stale := r.take(userID)
	if tapped != nil && tapped.Chat != nil {
		stale = appendUnique(stale, stored(tapped))
	}
	for _, msg := range stale {
		if _, err := r.bot.EditReplyMarkup(msg, nil); err != nil {
			logCtx.WithError(err).WithField("message_id", msg.MessageID).Debug("Failed to clear keyboard")
		}
	}

	var withButtons []telebot.StoredMessage
	defer func() { r.keep(userID, withButtons) }()

	for _, s := range screens {
		opts := r.kb.Options(s)
		msg, err := r.bot.Send(to, s.Text, opts)
		if err != nil {
			logCtx.WithError(err).Error("Failed to send screen")
			return err
		}
		if opts.ReplyMarkup != nil && msg != nil && msg.Chat != nil {
			withButtons = append(withButtons, stored(msg))
		}
	}
	return nil
}

func (r *Renderer) take(userID int64) []telebot.StoredMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.live[userID]
	delete(r.live, userID)
	return msgs
}

func (r *Renderer) keep(userID int64, msgs []telebot.StoredMessage) {
	if len(msgs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[userID] = append(r.live[userID], msgs...)
}

func stored(m *telebot.Message) telebot.StoredMessage {
	id, chatID := m.MessageSig()
	return telebot.StoredMessage{MessageID: id, ChatID: chatID}
}

func appendUnique(msgs []telebot.StoredMessage, m telebot.StoredMessage) []telebot.StoredMessage {
	for _, have := range msgs {
		if have == m {
			return msgs
		}
	}
	return append(msgs, m)
}

package telegram

import (
	"errors"
	"fmt"
	"net/http"

	domainTelegram "lessons_reporter_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// Sender is the part of *telebot.Bot the adapter needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot Sender
}

func NewTelebotAdapter(b Sender) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain text message to the specified chat.
// Chats that do not exist or refuse the bot come back as ErrRecipientUnreachable.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string) error {
	recipient := &telebot.User{ID: recipientChatID} // parents are private chats
	if _, err := tba.bot.Send(recipient, text); err != nil {
		if unreachable(err) {
			return fmt.Errorf("%w: chat %d: %v", domainTelegram.ErrRecipientUnreachable, recipientChatID, err)
		}
		return fmt.Errorf("send message to chat %d: %w", recipientChatID, err)
	}
	return nil
}

func unreachable(err error) bool {
	switch {
	case errors.Is(err, telebot.ErrChatNotFound),
		errors.Is(err, telebot.ErrBadUserID),
		errors.Is(err, telebot.ErrBlockedByUser),
		errors.Is(err, telebot.ErrNotStartedByUser),
		errors.Is(err, telebot.ErrUserIsDeactivated):
		return true
	}
	var apiErr *telebot.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden
}

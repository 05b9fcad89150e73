package telegram

import "fmt"

// ErrRecipientUnreachable is returned when the recipient chat does not exist,
// never started the bot or blocked it. Callers treat it as a per-message failure.
var ErrRecipientUnreachable = fmt.Errorf("telegram recipient is unreachable")

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string) error
}

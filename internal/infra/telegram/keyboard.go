package telegram

import (
	"lessons_reporter_bot/internal/app"
	"lessons_reporter_bot/internal/app/action"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Keyboard renders screens into telebot messages.
type Keyboard struct {
	codec  *action.Codec
	logger *logrus.Entry
}

func NewKeyboard(codec *action.Codec, logger *logrus.Entry) *Keyboard {
	return &Keyboard{codec: codec, logger: logger}
}

// Markup lays the screen's buttons out in rows of the screen's width.
// A button whose action cannot be encoded is logged and left out.
// Screens without buttons get a nil markup.
func (k *Keyboard) Markup(s app.Screen) *telebot.ReplyMarkup {
	if len(s.Buttons) == 0 {
		return nil
	}
	width := s.Width()
	var (
		rows [][]telebot.InlineButton
		row  []telebot.InlineButton
	)
	for _, b := range s.Buttons {
		token, err := k.codec.Encode(b.Action)
		if err != nil {
			k.logger.WithError(err).WithField("label", b.Label).Error("Dropping button with unencodable action")
			continue
		}
		row = append(row, telebot.InlineButton{Text: b.Label, Data: token})
		if len(row) == width {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// Options returns the send options for the screen.
func (k *Keyboard) Options(s app.Screen) *telebot.SendOptions {
	opts := &telebot.SendOptions{ReplyMarkup: k.Markup(s)}
	if s.Markdown {
		opts.ParseMode = telebot.ModeMarkdown
	}
	return opts
}

package telegram

import (
	"context"

	"lessons_reporter_bot/internal/app"
	"lessons_reporter_bot/internal/app/action"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotHandlers wires commands, button presses and free text to the bot service.
func RegisterBotHandlers(
	ctx context.Context,
	b *telebot.Bot,
	botService *app.BotService,
	codec *action.Codec,
	baseLogger *logrus.Entry,
) {
	renderer := NewRenderer(b, NewKeyboard(codec, baseLogger.WithField("component", "keyboard")))

	render := func(c telebot.Context, tapped *telebot.Message, screens []app.Screen, logCtx *logrus.Entry) error {
		if len(screens) == 0 {
			return nil
		}
		return renderer.Render(c.Recipient(), c.Sender().ID, tapped, screens, logCtx)
	}

	welcome := func(command string) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			senderID := c.Sender().ID
			logCtx := baseLogger.WithFields(logrus.Fields{"handler": command, "sender_id": senderID})
			logCtx.Info("Processing command")
			return render(c, nil, botService.Welcome(ctx, senderID), logCtx)
		}
	}
	b.Handle("/start", welcome("/start"))
	b.Handle("/help", welcome("/help"))

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "callback", "sender_id": senderID})

		a, err := codec.Parse(c.Callback().Data)
		if err != nil {
			logCtx.WithError(err).Debug("Undecodable callback token, treating as no-op")
		}
		logCtx = logCtx.WithField("action", action.Tag(a))

		// Ack first so the client stops showing the spinner.
		if err := c.Respond(); err != nil {
			logCtx.WithError(err).Warn("Failed to answer callback query")
		}

		return render(c, c.Message(), botService.HandleAction(ctx, senderID, a), logCtx)
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "text", "sender_id": senderID})
		return render(c, nil, botService.HandleText(ctx, senderID, c.Text()), logCtx)
	})
}

package telegram

import (
	"fmt"
	"testing"

	domainTelegram "lessons_reporter_bot/internal/domain/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeSender struct {
	err  error
	to   []telebot.Recipient
	what []interface{}
}

func (f *fakeSender) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	f.to = append(f.to, to)
	f.what = append(f.what, what)
	if f.err != nil {
		return nil, f.err
	}
	return &telebot.Message{}, nil
}

func TestTelebotAdapter_SendMessage(t *testing.T) {
	s := &fakeSender{}
	a := NewTelebotAdapter(s)

	require.NoError(t, a.SendMessage(555, "hello"))
	require.Len(t, s.to, 1)
	assert.Equal(t, "555", s.to[0].Recipient())
	assert.Equal(t, "hello", s.what[0])
}

func TestTelebotAdapter_SendMessage_Unreachable(t *testing.T) {
	cases := map[string]error{
		"chat not found":    telebot.ErrChatNotFound,
		"blocked":           telebot.ErrBlockedByUser,
		"not started":       telebot.ErrNotStartedByUser,
		"deactivated":       telebot.ErrUserIsDeactivated,
		"bad user id":       telebot.ErrBadUserID,
		"wrapped":           fmt.Errorf("telegram: %w", telebot.ErrBlockedByUser),
		"unknown forbidden": telebot.NewError(403, "Forbidden: something new"),
	}
	for name, sendErr := range cases {
		t.Run(name, func(t *testing.T) {
			a := NewTelebotAdapter(&fakeSender{err: sendErr})
			err := a.SendMessage(1, "x")
			assert.ErrorIs(t, err, domainTelegram.ErrRecipientUnreachable)
		})
	}
}

func TestTelebotAdapter_SendMessage_OtherError(t *testing.T) {
	sendErr := fmt.Errorf("connection reset")
	a := NewTelebotAdapter(&fakeSender{err: sendErr})

	err := a.SendMessage(1, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainTelegram.ErrRecipientUnreachable)
	assert.ErrorIs(t, err, sendErr)
}

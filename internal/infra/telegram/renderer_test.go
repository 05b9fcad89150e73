package telegram

import (
	"errors"
	"strconv"
	"testing"

	"lessons_reporter_bot/internal/app"
	"lessons_reporter_bot/internal/app/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeMessenger struct {
	nextID  int
	sendErr error
	sent    []*telebot.Message
	cleared []string
}

func (f *fakeMessenger) Send(to telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	chatID, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	f.nextID++
	msg := &telebot.Message{ID: f.nextID, Chat: &telebot.Chat{ID: chatID}, Text: what.(string)}
	f.sent = append(f.sent, msg)
	return msg, nil
}

func (f *fakeMessenger) EditReplyMarkup(msg telebot.Editable, markup *telebot.ReplyMarkup) (*telebot.Message, error) {
	id, _ := msg.MessageSig()
	if markup == nil {
		f.cleared = append(f.cleared, id)
	}
	return nil, nil
}

func newTestRenderer(t *testing.T) (*Renderer, *fakeMessenger) {
	t.Helper()
	kb, _ := newTestKeyboard(t, "1")
	m := &fakeMessenger{}
	return NewRenderer(m, kb), m
}

func menuScreen(text string) app.Screen {
	return app.Screen{Text: text, Buttons: []app.Button{{Label: "В меню", Action: action.ShowMenu{}}}}
}

func TestRenderer_ClearsPreviousKeyboardOnTextReply(t *testing.T) {
	r, m := newTestRenderer(t)
	user := &telebot.User{ID: 100}

	require.NoError(t, r.Render(user, 100, nil, []app.Screen{menuScreen("Введите ФИО студента:")}, quietEntry()))
	assert.Empty(t, m.cleared)

	// typed answer: no tapped message, the prompt's buttons still go away
	require.NoError(t, r.Render(user, 100, nil, []app.Screen{menuScreen("Студент добавлен")}, quietEntry()))
	assert.Equal(t, []string{"1"}, m.cleared)

	require.NoError(t, r.Render(user, 100, nil, []app.Screen{menuScreen("Главное меню:")}, quietEntry()))
	assert.Equal(t, []string{"1", "2"}, m.cleared)
}

func TestRenderer_ClearsTappedMessageOnce(t *testing.T) {
	r, m := newTestRenderer(t)
	user := &telebot.User{ID: 100}

	require.NoError(t, r.Render(user, 100, nil, []app.Screen{menuScreen("Главное меню:")}, quietEntry()))
	tapped := m.sent[0]

	require.NoError(t, r.Render(user, 100, tapped, []app.Screen{menuScreen("Выберите студента:")}, quietEntry()))
	assert.Equal(t, []string{"1"}, m.cleared)

	// an older message tapped after the bot moved on
	old := &telebot.Message{ID: 77, Chat: &telebot.Chat{ID: 100}}
	require.NoError(t, r.Render(user, 100, old, []app.Screen{menuScreen("Выберите тему:")}, quietEntry()))
	assert.ElementsMatch(t, []string{"1", "2", "77"}, m.cleared)
}

func TestRenderer_PlainScreensLeaveNothingToClear(t *testing.T) {
	r, m := newTestRenderer(t)
	user := &telebot.User{ID: 5}

	require.NoError(t, r.Render(user, 5, nil, []app.Screen{{Text: "`5`", Markdown: true}, {Text: "Спасибо!"}}, quietEntry()))
	require.NoError(t, r.Render(user, 5, nil, []app.Screen{{Text: "ещё"}}, quietEntry()))
	assert.Empty(t, m.cleared)
}

func TestRenderer_KeyboardsArePerUser(t *testing.T) {
	r, m := newTestRenderer(t)

	require.NoError(t, r.Render(&telebot.User{ID: 100}, 100, nil, []app.Screen{menuScreen("a")}, quietEntry()))
	require.NoError(t, r.Render(&telebot.User{ID: 200}, 200, nil, []app.Screen{menuScreen("b")}, quietEntry()))
	assert.Empty(t, m.cleared)
}

func TestRenderer_SendError(t *testing.T) {
	r, m := newTestRenderer(t)
	m.sendErr = errors.New("network down")

	err := r.Render(&telebot.User{ID: 100}, 100, nil, []app.Screen{menuScreen("a")}, quietEntry())
	assert.ErrorIs(t, err, m.sendErr)
}

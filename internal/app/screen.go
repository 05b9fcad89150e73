package app

import (
	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
)

// DefaultRowWidth is the number of buttons per keyboard row when a screen does not say.
const DefaultRowWidth = 2

// Button is an inline keyboard button carrying an action.
type Button struct {
	Label  string
	Action action.Action
}

// Screen is one outgoing message with its inline keyboard.
type Screen struct {
	Text     string
	Buttons  []Button
	RowWidth int
	// Markdown enables Telegram Markdown parsing of Text.
	Markdown bool
}

// Width returns RowWidth, falling back to DefaultRowWidth.
func (s Screen) Width() int {
	if s.RowWidth <= 0 {
		return DefaultRowWidth
	}
	return s.RowWidth
}

func button(label string, a action.Action) Button {
	return Button{Label: label, Action: a}
}

func menuButton() Button {
	return button(labelMenu, action.ShowMenu{})
}

func one(s Screen) []Screen {
	return []Screen{s}
}

// pageButtons returns the "back" and "forward" buttons a page needs.
// prev and next build the action for a given page number.
func pageButtons[T any](res pagination.Result[T], page int, prev, next func(page int) action.Action) []Button {
	var buttons []Button
	if !res.IsFirst {
		buttons = append(buttons, button(labelBack, prev(page-1)))
	}
	if !res.IsLast {
		buttons = append(buttons, button(labelForward, next(page+1)))
	}
	return buttons
}

func mainMenuScreen() Screen {
	return Screen{
		Text: textMainMenu,
		Buttons: []Button{
			button(labelStudents, action.ShowList{Item: action.ItemStudent, Page: pagination.FirstPage}),
			button(labelTopics, action.ShowList{Item: action.ItemTopic, Page: pagination.FirstPage}),
			button(labelReports, action.ShowList{Item: action.ItemReport, Page: pagination.FirstPage}),
			button(labelNewReport, action.WizardStart{}),
		},
	}
}

func errorScreen() Screen {
	return Screen{Text: textGenericError, Buttons: []Button{menuButton()}}
}

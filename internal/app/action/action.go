// Package action defines the closed set of requests a button can carry and
// the codec that turns them into callback tokens and back.
package action

import "strconv"

// ItemType discriminates the three record kinds shown in lists.
type ItemType string

const (
	ItemStudent ItemType = "S"
	ItemTopic   ItemType = "T"
	ItemReport  ItemType = "R"
)

// LessonDay is a relative lesson date offered as a button.
type LessonDay string

const (
	Today     LessonDay = "today"
	Yesterday LessonDay = "yesterday"
)

// Action is a decoded button press. The set of implementations is closed:
// only types in this package satisfy the interface.
type Action interface {
	tag() string
	fields() []string
}

// Tag returns the short wire name of a, useful as a log field.
func Tag(a Action) string {
	if a == nil {
		return Noop{}.tag()
	}
	return a.tag()
}

// Noop is what every undecodable or stale token turns into.
type Noop struct{}

// ShowMenu returns to the main menu and abandons any wizard in progress.
type ShowMenu struct{}

// ShowList renders a page of students, topics or reports.
// Filter restricts reports to one student; zero means no filter.
type ShowList struct {
	Item   ItemType
	Filter int64
	Page   int
}

// ShowItem renders one record with its action buttons.
type ShowItem struct {
	Item   ItemType
	Filter int64
	Page   int
	ID     int64
}

// DeleteItem asks for a confirmation before deleting.
type DeleteItem struct {
	Item ItemType
	Page int
	ID   int64
}

// DeleteConfirmed performs the deletion.
type DeleteConfirmed struct {
	Item ItemType
	Page int
	ID   int64
}

type CreateStudent struct{ Page int }

type CreateTopic struct{ Page int }

type RenameStudent struct {
	StudentID int64
	Page      int
}

type SetParent struct {
	StudentID int64
	Page      int
}

// WizardStart clears the report draft and asks for the lesson date.
type WizardStart struct{}

type WizardDate struct{ Day LessonDay }

// WizardDateManual asks for the lesson date as free text.
type WizardDateManual struct{}

type WizardTopicPage struct{ Page int }

type WizardTopic struct{ TopicID int64 }

type WizardStudentPage struct{ Page int }

type WizardStudent struct{ StudentID int64 }

type WizardHomework struct{ Status int }

type WizardProactive struct{ Value bool }

type WizardPaid struct{ Value bool }

// WizardComment asks for the optional comment as free text.
type WizardComment struct{}

// WizardPreview shows the assembled report. It doubles as "skip comment".
type WizardPreview struct{}

type WizardSave struct{}

// SendSaved delivers every unsent report to its parent.
type SendSaved struct{}

func (Noop) tag() string              { return "-" }
func (ShowMenu) tag() string          { return "m" }
func (ShowList) tag() string          { return "l" }
func (ShowItem) tag() string          { return "i" }
func (DeleteItem) tag() string        { return "d" }
func (DeleteConfirmed) tag() string   { return "dc" }
func (CreateStudent) tag() string     { return "cs" }
func (CreateTopic) tag() string       { return "ct" }
func (RenameStudent) tag() string     { return "rs" }
func (SetParent) tag() string         { return "sp" }
func (WizardStart) tag() string       { return "w1" }
func (WizardDate) tag() string        { return "w1d" }
func (WizardDateManual) tag() string  { return "w1m" }
func (WizardTopicPage) tag() string   { return "w2p" }
func (WizardTopic) tag() string       { return "w2" }
func (WizardStudentPage) tag() string { return "w3p" }
func (WizardStudent) tag() string     { return "w3" }
func (WizardHomework) tag() string    { return "w4" }
func (WizardProactive) tag() string   { return "w5" }
func (WizardPaid) tag() string        { return "w6" }
func (WizardComment) tag() string     { return "w7" }
func (WizardPreview) tag() string     { return "w8" }
func (WizardSave) tag() string        { return "ws" }
func (SendSaved) tag() string         { return "ss" }

func (Noop) fields() []string             { return nil }
func (ShowMenu) fields() []string         { return nil }
func (WizardStart) fields() []string      { return nil }
func (WizardDateManual) fields() []string { return nil }
func (WizardComment) fields() []string    { return nil }
func (WizardPreview) fields() []string    { return nil }
func (WizardSave) fields() []string       { return nil }
func (SendSaved) fields() []string        { return nil }

func (a ShowList) fields() []string {
	return []string{string(a.Item), fmtID(a.Filter), fmtInt(a.Page)}
}

func (a ShowItem) fields() []string {
	return []string{string(a.Item), fmtID(a.Filter), fmtInt(a.Page), fmtID(a.ID)}
}

func (a DeleteItem) fields() []string {
	return []string{string(a.Item), fmtInt(a.Page), fmtID(a.ID)}
}

func (a DeleteConfirmed) fields() []string {
	return []string{string(a.Item), fmtInt(a.Page), fmtID(a.ID)}
}

func (a CreateStudent) fields() []string     { return []string{fmtInt(a.Page)} }
func (a CreateTopic) fields() []string       { return []string{fmtInt(a.Page)} }
func (a RenameStudent) fields() []string     { return []string{fmtID(a.StudentID), fmtInt(a.Page)} }
func (a SetParent) fields() []string         { return []string{fmtID(a.StudentID), fmtInt(a.Page)} }
func (a WizardDate) fields() []string        { return []string{string(a.Day)} }
func (a WizardTopicPage) fields() []string   { return []string{fmtInt(a.Page)} }
func (a WizardTopic) fields() []string       { return []string{fmtID(a.TopicID)} }
func (a WizardStudentPage) fields() []string { return []string{fmtInt(a.Page)} }
func (a WizardStudent) fields() []string     { return []string{fmtID(a.StudentID)} }
func (a WizardHomework) fields() []string    { return []string{fmtInt(a.Status)} }
func (a WizardProactive) fields() []string   { return []string{fmtBool(a.Value)} }
func (a WizardPaid) fields() []string        { return []string{fmtBool(a.Value)} }

func fmtInt(v int) string  { return strconv.Itoa(v) }
func fmtID(v int64) string { return strconv.FormatInt(v, 10) }
func fmtBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

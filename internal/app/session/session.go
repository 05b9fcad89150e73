// Package session keeps the per-user conversation state: the report wizard
// and the free-text prompt the user is expected to answer next.
package session

import (
	"context"
	"fmt"
	"time"

	"lessons_reporter_bot/internal/app/wizard"
)

// Prompt names the kind of free text a user is expected to send.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptTopicName
	PromptStudentName
	PromptStudentRename
	PromptParentID
	PromptLessonDate
	PromptComment
)

var promptNames = map[Prompt]string{
	PromptNone:          "none",
	PromptTopicName:     "topic_name",
	PromptStudentName:   "student_name",
	PromptStudentRename: "student_rename",
	PromptParentID:      "parent_id",
	PromptLessonDate:    "lesson_date",
	PromptComment:       "comment",
}

func (p Prompt) String() string {
	if name, ok := promptNames[p]; ok {
		return name
	}
	return fmt.Sprintf("prompt(%d)", int(p))
}

// Pending is an outstanding prompt together with what its answer needs:
// the student being edited and the list page to return to.
type Pending struct {
	Prompt    Prompt `json:"prompt"`
	StudentID int64  `json:"student_id,omitempty"`
	Page      int    `json:"page,omitempty"`
}

// Session is everything the bot remembers about one user between updates.
type Session struct {
	UserID    int64         `json:"user_id"`
	Wizard    wizard.Wizard `json:"wizard"`
	Pending   Pending       `json:"pending"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func New(userID int64) *Session {
	return &Session{UserID: userID}
}

// Expect replaces the outstanding prompt. A user has at most one.
// Idle reports whether the session holds nothing worth keeping: no report
// being built and no question waiting for an answer.
func (s *Session) Idle() bool {
	return !s.Wizard.Active() && s.Pending.Prompt == PromptNone
}

func (s *Session) Expect(p Pending) {
	s.Pending = p
}

func (s *Session) ClearPending() {
	s.Pending = Pending{}
}

// TakePending returns the outstanding prompt and clears it.
func (s *Session) TakePending() Pending {
	p := s.Pending
	s.Pending = Pending{}
	return p
}

// Store persists sessions keyed by Telegram user id.
type Store interface {
	// Load returns the user's session, creating an empty one on first use.
	Load(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID int64) error
}

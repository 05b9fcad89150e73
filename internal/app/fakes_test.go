package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/report"
	"lessons_reporter_bot/internal/domain/student"
	domainTelegram "lessons_reporter_bot/internal/domain/telegram"
	"lessons_reporter_bot/internal/domain/topic"

	"github.com/sirupsen/logrus"
)

type fakeStudents struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*student.Student
	err    error
}

func newFakeStudents() *fakeStudents {
	return &fakeStudents{items: make(map[int64]*student.Student)}
}

func (f *fakeStudents) add(name string, parentID int64) *student.Student {
	s := &student.Student{Name: name}
	if parentID != 0 {
		s.ParentID = sql.NullInt64{Int64: parentID, Valid: true}
	}
	_ = f.Create(context.Background(), s)
	return s
}

func (f *fakeStudents) Create(_ context.Context, s *student.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.items[id]
	if !ok {
		return nil, student.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudents) List(_ context.Context, opts listing.Options) ([]*student.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*student.Student, 0, len(f.items))
	for _, s := range f.items {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.OrderBy == student.FieldName && out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStudents) Update(_ context.Context, id int64, upd student.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	s, ok := f.items[id]
	if !ok {
		return student.ErrNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.ParentID != nil {
		s.ParentID = sql.NullInt64{Int64: *upd.ParentID, Valid: true}
	}
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

type fakeTopics struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*topic.Topic
}

func newFakeTopics() *fakeTopics {
	return &fakeTopics{items: make(map[int64]*topic.Topic)}
}

func (f *fakeTopics) add(label string) *topic.Topic {
	t := &topic.Topic{Label: label}
	_ = f.Create(context.Background(), t)
	return t
}

func (f *fakeTopics) Create(_ context.Context, t *topic.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTopics) GetByID(_ context.Context, id int64) (*topic.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, topic.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTopics) List(_ context.Context, opts listing.Options) ([]*topic.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*topic.Topic, 0, len(f.items))
	for _, t := range f.items {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.OrderBy == topic.FieldLabel && out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeTopics) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

type fakeReports struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*report.Report
	// markErr fails MarkSent, leaving the report unsent.
	markErr error
}

func newFakeReports() *fakeReports {
	return &fakeReports{items: make(map[int64]*report.Report)}
}

func (f *fakeReports) add(r report.Report) *report.Report {
	_ = f.Create(context.Background(), &r)
	return &r
}

func (f *fakeReports) get(id int64) report.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.items[id]
}

func (f *fakeReports) all() []report.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]report.Report, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeReports) Create(_ context.Context, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeReports) GetByID(_ context.Context, id int64) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, report.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReports) filter(keep func(*report.Report) bool, newestFirst bool) []*report.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*report.Report
	for _, r := range f.items {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LessonDate.Equal(out[j].LessonDate) {
			if newestFirst {
				return out[i].LessonDate.After(out[j].LessonDate)
			}
			return out[i].LessonDate.Before(out[j].LessonDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeReports) List(_ context.Context, opts listing.Options) ([]*report.Report, error) {
	return f.filter(func(*report.Report) bool { return true }, opts.Descending), nil
}

func (f *fakeReports) ListByStudent(_ context.Context, studentID int64, opts listing.Options) ([]*report.Report, error) {
	return f.filter(func(r *report.Report) bool { return r.StudentID == studentID }, opts.Descending), nil
}

func (f *fakeReports) ListUnsent(context.Context) ([]*report.Report, error) {
	return f.filter(func(r *report.Report) bool { return !r.IsSent }, false), nil
}

func (f *fakeReports) CountByStudent(_ context.Context, studentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.items {
		if r.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeReports) MarkSent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	r, ok := f.items[id]
	if !ok {
		return report.ErrNotFound
	}
	if r.IsSent {
		return report.ErrAlreadySent
	}
	r.IsSent = true
	return nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeClient struct {
	mu          sync.Mutex
	sent        []sentMessage
	unreachable map[int64]bool
	// onSend runs after a message is recorded, outside the lock.
	onSend func(chatID int64)
}

func (c *fakeClient) SendMessage(chatID int64, text string) error {
	c.mu.Lock()
	if c.unreachable[chatID] {
		c.mu.Unlock()
		return fmt.Errorf("send to %d: %w", chatID, domainTelegram.ErrRecipientUnreachable)
	}
	c.sent = append(c.sent, sentMessage{ChatID: chatID, Text: text})
	hook := c.onSend
	c.mu.Unlock()

	if hook != nil {
		hook(chatID)
	}
	return nil
}

func (c *fakeClient) sentTo(chatID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.sent {
		if m.ChatID == chatID {
			n++
		}
	}
	return n
}

type fakeSessions struct {
	mu      sync.Mutex
	items   map[int64]*session.Session
	deletes int
}

func (f *fakeSessions) Load(_ context.Context, userID int64) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.items[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return session.New(userID), nil
}

func (f *fakeSessions) Save(_ context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.items[s.UserID] = &cp
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[userID]; ok {
		f.deletes++
	}
	delete(f.items, userID)
	return nil
}

func (f *fakeSessions) get(userID int64) *session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[userID]
}

const teacherID int64 = 100

var fixedNow = time.Date(2024, time.March, 5, 15, 30, 0, 0, time.UTC)

type testEnv struct {
	bot      *BotService
	students *fakeStudents
	topics   *fakeTopics
	reports  *fakeReports
	client   *fakeClient
	sessions *fakeSessions
	delivery *DeliveryService
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		students: newFakeStudents(),
		topics:   newFakeTopics(),
		reports:  newFakeReports(),
		client:   &fakeClient{unreachable: map[int64]bool{}},
		sessions: &fakeSessions{items: map[int64]*session.Session{}},
	}
	logger := discardLogger()
	cards := NewCardFormatter(env.students, env.topics)
	env.delivery = NewDeliveryService(env.reports, env.students, cards, env.client, logger)
	env.bot = NewBotService(
		NewAccessService([]int64{teacherID}),
		env.students,
		env.topics,
		env.reports,
		env.sessions,
		env.delivery,
		BotSettings{
			PageSize: 10,
			Location: time.UTC,
			Now:      func() time.Time { return fixedNow },
		},
		logger,
	)
	return env
}

var defaultListing = listing.Options{}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/report"
	"lessons_reporter_bot/internal/domain/student"
	domainTelegram "lessons_reporter_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

var (
	ErrSendInProgress     = fmt.Errorf("sending saved reports is already in progress")
	ErrDeliveryInProgress = fmt.Errorf("report is being delivered by another run")
	ErrNotMarkedSent      = fmt.Errorf("report delivered but not marked sent")
)

// DeliveryOutcome is the result of sending one saved report.
type DeliveryOutcome struct {
	ReportID int64
	Title    string
	ParentID int64
	Err      error
}

// DeliverySummary collects the outcomes of one "send saved reports" run.
type DeliverySummary struct {
	Outcomes []DeliveryOutcome
	// Skipped counts unsent reports whose student has no parent id.
	Skipped int
}

// Reached reports whether the message got to the parent, even if the sent
// flag could not be stored afterwards.
func (o DeliveryOutcome) Reached() bool {
	return o.Err == nil || errors.Is(o.Err, ErrNotMarkedSent)
}

// Delivered returns the number of reports that reached a parent.
func (s *DeliverySummary) Delivered() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Reached() {
			n++
		}
	}
	return n
}

// Text renders one line per attempted report and a total.
func (s *DeliverySummary) Text() string {
	if len(s.Outcomes) == 0 {
		if s.Skipped > 0 {
			return fmt.Sprintf("%s\nОтчётов без id родителя: %d.", textNothingToSend, s.Skipped)
		}
		return textNothingToSend
	}

	var b strings.Builder
	for _, o := range s.Outcomes {
		switch {
		case o.Err == nil:
			fmt.Fprintf(&b, "Отправлен: %s\n", o.Title)
			continue
		case o.Reached():
			fmt.Fprintf(&b, "Отправлен, но не отмечен: %s\n", o.Title)
			continue
		}
		fmt.Fprintf(&b, "Не отправлен: %s (%s)\n", o.Title, deliveryFailureReason(o.Err))
	}
	fmt.Fprintf(&b, "Отправлено: %d из %d.", s.Delivered(), len(s.Outcomes))
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "\nОтчётов без id родителя: %d.", s.Skipped)
	}
	return b.String()
}

func deliveryFailureReason(err error) string {
	if errors.Is(err, domainTelegram.ErrRecipientUnreachable) {
		return "родитель недоступен"
	}
	return "ошибка отправки"
}

// DeliveryService sends saved reports to parents and marks them sent.
// A report is claimed for the whole send-and-mark so overlapping runs
// never message a parent twice about it.
type DeliveryService struct {
	reports  report.Repository
	students student.Repository
	cards    *CardFormatter
	client   domainTelegram.Client
	logger   *logrus.Entry

	runMu    sync.Mutex
	claimMu  sync.Mutex
	inFlight map[int64]struct{}
}

func NewDeliveryService(
	rr report.Repository,
	sr student.Repository,
	cards *CardFormatter,
	tc domainTelegram.Client,
	logger *logrus.Entry,
) *DeliveryService {
	return &DeliveryService{
		reports:  rr,
		students: sr,
		cards:    cards,
		client:   tc,
		logger:   logger.WithField("service", "delivery"),
		inFlight: make(map[int64]struct{}),
	}
}

func (s *DeliveryService) claim(id int64) bool {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *DeliveryService) release(id int64) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()
	delete(s.inFlight, id)
}

// Deliver sends one report to parentID and marks it sent on success.
// It returns ErrDeliveryInProgress when another run holds the report,
// report.ErrAlreadySent when it went out meanwhile and ErrNotMarkedSent
// when the parent got the message but the flag could not be stored.
func (s *DeliveryService) Deliver(ctx context.Context, r *report.Report, parentID int64) error {
	if !s.claim(r.ID) {
		return fmt.Errorf("%w (id: %d)", ErrDeliveryInProgress, r.ID)
	}
	defer s.release(r.ID)

	current, err := s.reports.GetByID(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("reload report (id: %d): %w", r.ID, err)
	}
	if current.IsSent {
		r.IsSent = true
		return fmt.Errorf("%w (id: %d)", report.ErrAlreadySent, r.ID)
	}

	text, err := s.cards.Format(ctx, r.Card())
	if err != nil {
		return fmt.Errorf("format report (id: %d): %w", r.ID, err)
	}
	if err := s.client.SendMessage(parentID, text); err != nil {
		return fmt.Errorf("send report (id: %d) to parent %d: %w", r.ID, parentID, err)
	}

	err = s.reports.MarkSent(ctx, r.ID)
	switch {
	case err == nil:
		r.IsSent = true
		return nil
	case errors.Is(err, report.ErrAlreadySent):
		s.logger.WithField("report_id", r.ID).Warn("Report was marked sent by someone else while delivering")
		r.IsSent = true
		return nil
	default:
		s.logger.WithError(err).WithField("report_id", r.ID).Error("Report delivered but not marked sent, it may go out again")
		return fmt.Errorf("%w (id: %d): %w", ErrNotMarkedSent, r.ID, err)
	}
}

// SendSaved delivers every unsent report whose student has a parent id.
// A failed delivery is recorded and the run goes on with the next report.
// Only one run goes at a time; a second one gets ErrSendInProgress.
func (s *DeliveryService) SendSaved(ctx context.Context) (*DeliverySummary, error) {
	if !s.runMu.TryLock() {
		return nil, ErrSendInProgress
	}
	defer s.runMu.Unlock()

	unsent, err := s.reports.ListUnsent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unsent reports: %w", err)
	}
	summary := &DeliverySummary{}
	if len(unsent) == 0 {
		return summary, nil
	}

	all, err := s.students.List(ctx, listing.Options{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	byID := make(map[int64]*student.Student, len(all))
	for _, st := range all {
		byID[st.ID] = st
	}

	for _, r := range unsent {
		st, ok := byID[r.StudentID]
		if !ok || !st.HasParent() {
			summary.Skipped++
			continue
		}

		parentID := st.ParentID.Int64
		outcome := DeliveryOutcome{
			ReportID: r.ID,
			Title:    reportTitle(r, st.Name),
			ParentID: parentID,
		}
		logCtx := s.logger.WithFields(logrus.Fields{"report_id": r.ID, "parent_id": parentID})

		err := s.Deliver(ctx, r, parentID)
		if errors.Is(err, ErrDeliveryInProgress) || errors.Is(err, report.ErrAlreadySent) {
			logCtx.WithError(err).Debug("Report handled by another run")
			continue
		}
		outcome.Err = err
		switch {
		case err == nil:
			logCtx.Info("Report delivered")
		case errors.Is(err, ErrNotMarkedSent):
			// Deliver has logged it
		case errors.Is(err, domainTelegram.ErrRecipientUnreachable):
			logCtx.WithError(err).Warn("Parent is unreachable, report stays unsent")
		default:
			logCtx.WithError(err).Error("Failed to deliver report")
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.logger.WithFields(logrus.Fields{
		"delivered": summary.Delivered(),
		"attempted": len(summary.Outcomes),
		"skipped":   summary.Skipped,
	}).Info("Finished sending saved reports")
	return summary, nil
}

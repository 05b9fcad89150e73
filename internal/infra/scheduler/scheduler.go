package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lessons_reporter_bot/internal/app"
	domainTelegram "lessons_reporter_bot/internal/domain/telegram"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	autoSendTimeout = 5 * time.Minute
	sweepTimeout    = 1 * time.Minute
)

// SavedReportSender is the batch the auto-send job runs.
type SavedReportSender interface {
	SendSaved(ctx context.Context) (*app.DeliverySummary, error)
}

// SessionSweeper drops idle sessions. Stores with native expiry do not need one.
type SessionSweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// Config names the cron specs. An empty spec disables its job.
type Config struct {
	AutoSendSpec string
	SweepSpec    string
	SessionTTL   time.Duration
	Location     *time.Location
}

type Scheduler struct {
	cronEngine *cron.Cron
	sender     SavedReportSender
	client     domainTelegram.Client
	teacherIDs []int64
	sweeper    SessionSweeper
	cfg        Config
	logger     *logrus.Entry
}

// New builds a scheduler. sweeper may be nil.
func New(
	sender SavedReportSender,
	client domainTelegram.Client,
	teacherIDs []int64,
	sweeper SessionSweeper,
	cfg Config,
	logger *logrus.Entry,
) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	logger = logger.WithField("component", "scheduler")
	return &Scheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		sender:     sender,
		client:     client,
		teacherIDs: teacherIDs,
		sweeper:    sweeper,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the enabled jobs and starts the cron engine.
func (s *Scheduler) Start() error {
	if s.cfg.AutoSendSpec != "" {
		if _, err := s.cronEngine.AddFunc(s.cfg.AutoSendSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), autoSendTimeout)
			defer cancel()
			s.runAutoSend(ctx)
		}); err != nil {
			return fmt.Errorf("add auto-send job (spec: %s): %w", s.cfg.AutoSendSpec, err)
		}
		s.logger.WithField("spec", s.cfg.AutoSendSpec).Info("Auto-send job registered")
	}

	if s.cfg.SweepSpec != "" && s.sweeper != nil {
		if _, err := s.cronEngine.AddFunc(s.cfg.SweepSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			defer cancel()
			s.runSweep(ctx)
		}); err != nil {
			return fmt.Errorf("add session sweep job (spec: %s): %w", s.cfg.SweepSpec, err)
		}
		s.logger.WithField("spec", s.cfg.SweepSpec).Info("Session sweep job registered")
	}

	s.cronEngine.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// runAutoSend delivers saved reports and tells every teacher what happened.
// Teachers are only bothered when something was attempted.
func (s *Scheduler) runAutoSend(ctx context.Context) {
	logCtx := s.logger.WithField("job", "auto_send")
	logCtx.Info("Cron job triggered")

	summary, err := s.sender.SendSaved(ctx)
	if errors.Is(err, app.ErrSendInProgress) {
		logCtx.Info("A send is already running, skipping this tick")
		return
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to send saved reports")
		return
	}
	if len(summary.Outcomes) == 0 {
		logCtx.Debug("No reports to deliver")
		return
	}

	text := "Автоматическая отправка отчётов:\n" + summary.Text()
	for _, teacherID := range s.teacherIDs {
		if err := s.client.SendMessage(teacherID, text); err != nil {
			logCtx.WithError(err).WithField("teacher_id", teacherID).Warn("Failed to send auto-send summary")
		}
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	logCtx := s.logger.WithField("job", "session_sweep")

	dropped, err := s.sweeper.Sweep(ctx, s.cfg.SessionTTL)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sweep sessions")
		return
	}
	logCtx.WithField("dropped", dropped).Debug("Idle sessions swept")
}

// Stop stops the engine and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	<-s.cronEngine.Stop().Done()
	s.logger.Info("Scheduler gracefully stopped")
}

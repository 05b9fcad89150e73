package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"lessons_reporter_bot/internal/app"
	"lessons_reporter_bot/internal/app/action"
	appsession "lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/infra/config"
	idb "lessons_reporter_bot/internal/infra/database"
	"lessons_reporter_bot/internal/infra/logger"
	"lessons_reporter_bot/internal/infra/scheduler"
	"lessons_reporter_bot/internal/infra/session"
	"lessons_reporter_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"teachers":      len(cfg.TeacherIDs),
		"session_store": cfg.SessionStore,
		"location":      cfg.Location.String(),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	if err := idb.Migrate(db); err != nil {
		mainLogger.WithError(err).Fatal("Could not apply database migrations")
	}
	mainLogger.Info("Database connection established and migrated")

	studentRepo := idb.NewPostgresStudentRepository(db)
	topicRepo := idb.NewPostgresTopicRepository(db)
	reportRepo := idb.NewPostgresReportRepository(db)

	var (
		sessions appsession.Store
		sweeper  scheduler.SessionSweeper
	)
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to redis")
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	default:
		mem := session.NewMemoryStore()
		sessions = mem
		sweeper = mem
	}
	mainLogger.WithField("store", cfg.SessionStore).Info("Session store initialized")

	codec, err := action.NewCodec(cfg.CallbackVersion)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create callback codec")
	}

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	client := telegram.NewTelebotAdapter(bot)

	access := app.NewAccessService(cfg.TeacherIDs)
	cards := app.NewCardFormatter(studentRepo, topicRepo)
	delivery := app.NewDeliveryService(reportRepo, studentRepo, cards, client, logger.Component("app"))
	botService := app.NewBotService(
		access,
		studentRepo,
		topicRepo,
		reportRepo,
		sessions,
		delivery,
		app.BotSettings{PageSize: cfg.PageSize, Location: cfg.Location},
		logger.Component("app"),
	)

	telegram.RegisterBotHandlers(ctx, bot, botService, codec, logger.Component("telegram"))
	mainLogger.Info("Bot handlers registered")

	jobs := scheduler.New(
		delivery,
		client,
		access.TeacherIDs(),
		sweeper,
		scheduler.Config{
			AutoSendSpec: cfg.CronSpecAutoSend,
			SweepSpec:    cfg.CronSpecSessionSweep,
			SessionTTL:   cfg.SessionTTL,
			Location:     cfg.Location,
		},
		logger.Component("jobs"),
	)
	if err := jobs.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	go bot.Start()
	mainLogger.Info("Bot and scheduler are running")

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	jobs.Stop()
	mainLogger.Info("Application shut down gracefully")
}

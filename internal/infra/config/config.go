package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken  string  `validate:"required"`
	DatabaseURL    string  `validate:"required"`
	TeacherIDs     []int64 `validate:"min=1,dive,gt=0"`
	LogLevel       string
	Environment    string
	DBMaxOpenConns int `validate:"min=1"`

	CallbackVersion string         `validate:"required,excludesall=0x7C,max=8"`
	PageSize        int            `validate:"min=1,max=50"`
	Location        *time.Location `validate:"required"`

	SessionStore string        `validate:"oneof=memory redis"`
	RedisURL     string        `validate:"required_if=SessionStore redis"`
	SessionTTL   time.Duration `validate:"gt=0"`

	CronSpecAutoSend     string // empty disables the job
	CronSpecSessionSweep string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.TeacherIDs, err = parseIDs(os.Getenv("TEACHER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEACHER_IDS: %w", err)
	}

	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))

	if cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}

	cfg.CallbackVersion = envOr("CALLBACK_VERSION", "1")
	if cfg.PageSize, err = envInt("PAGE_SIZE", 10); err != nil {
		return nil, err
	}

	tz := envOr("TIMEZONE", "Local")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.SessionStore = strings.ToLower(envOr("SESSION_STORE", SessionStoreMemory))
	cfg.RedisURL = os.Getenv("REDIS_URL")
	ttl := envOr("SESSION_TTL", "24h")
	cfg.SessionTTL, err = time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
	}

	cfg.CronSpecAutoSend = os.Getenv("CRON_SPEC_AUTO_SEND")
	cfg.CronSpecSessionSweep = envOr("CRON_SPEC_SESSION_SWEEP", "*/30 * * * *")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseIDs reads a comma separated list of Telegram user ids.
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://bot@localhost/lessons?sslmode=disable")
	t.Setenv("TEACHER_IDS", "100, 200")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{100, 200}, cfg.TeacherIDs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, "1", cfg.CallbackVersion)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.CronSpecAutoSend)
	assert.Equal(t, "*/30 * * * *", cfg.CronSpecSessionSweep)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("CALLBACK_VERSION", "2")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CRON_SPEC_AUTO_SEND", "0 20 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "2", cfg.CallbackVersion)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "0 20 * * *", cfg.CronSpecAutoSend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"TELEGRAM_TOKEN": ""}},
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"no teachers", map[string]string{"TEACHER_IDS": " , "}},
		{"bad teacher id", map[string]string{"TEACHER_IDS": "100,abc"}},
		{"negative teacher id", map[string]string{"TEACHER_IDS": "-5"}},
		{"bad page size", map[string]string{"PAGE_SIZE": "0"}},
		{"page size not a number", map[string]string{"PAGE_SIZE": "ten"}},
		{"version with separator", map[string]string{"CALLBACK_VERSION": "1|2"}},
		{"unknown session store", map[string]string{"SESSION_STORE": "memcached"}},
		{"redis without url", map[string]string{"SESSION_STORE": "redis"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 1,2 ,, 3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

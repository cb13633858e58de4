package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("ADMIN_TELEGRAM_ID", "12345")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_REMINDER_CHECK", "")
	t.Setenv("SEND_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", cfg.TelegramToken)
	assert.Equal(t, int64(12345), cfg.AdminTelegramID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0 * * * *", cfg.CronSpecReminderCheck)
	assert.Equal(t, 15, cfg.SendTimeoutSeconds)
}

func TestLoadRequiredVariables(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"telegram token", "TELEGRAM_TOKEN"},
		{"database url", "DATABASE_URL"},
		{"admin id", "ADMIN_TELEGRAM_ID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			assert.ErrorContains(t, err, tc.unset)
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_TELEGRAM_ID", "not-a-number")
	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_TELEGRAM_ID")

	setRequiredEnv(t)
	t.Setenv("SEND_TIMEOUT_SECONDS", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "SEND_TIMEOUT_SECONDS")
}

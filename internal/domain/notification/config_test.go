package notification_test

import (
	"testing"

	"subscription_reminder_bot/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelIsKnown(t *testing.T) {
	for _, ch := range notification.AllChannels {
		assert.True(t, ch.IsKnown())
	}
	assert.False(t, notification.Channel("pigeon").IsKnown())
	assert.False(t, notification.Channel("").IsKnown())
}

func TestConfigChannelEnabled(t *testing.T) {
	cfg := notification.DefaultConfig()
	for _, ch := range notification.AllChannels {
		assert.False(t, cfg.ChannelEnabled(ch))
	}

	cfg.Email.Enabled = true
	cfg.Bark.Enabled = true
	assert.True(t, cfg.ChannelEnabled(notification.ChannelEmail))
	assert.True(t, cfg.ChannelEnabled(notification.ChannelBark))
	assert.False(t, cfg.ChannelEnabled(notification.ChannelTelegram))
	assert.False(t, cfg.ChannelEnabled(notification.ChannelWebhook))
}

func TestConfigValidateSkipsDisabledChannels(t *testing.T) {
	// A disabled channel may be incomplete.
	cfg := notification.DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateEnabledChannels(t *testing.T) {
	cfg := notification.DefaultConfig()
	cfg.Telegram.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = "123:abc"
	assert.Error(t, cfg.Validate())

	cfg.Telegram.ChatID = "42"
	assert.NoError(t, cfg.Validate())

	cfg.Email.Enabled = true
	cfg.Email.Host = "smtp.example.com"
	cfg.Email.Port = 587
	cfg.Email.From = "bot@example.com"
	assert.Error(t, cfg.Validate()) // recipient still missing

	cfg.Email.To = "me@example.com"
	assert.NoError(t, cfg.Validate())
}

func TestDefaultSettings(t *testing.T) {
	s := notification.DefaultSettings()
	assert.False(t, s.ShowLunarDate)
	assert.False(t, s.DailyReminder)
	assert.Equal(t, 7, s.DefaultReminderDays)
	assert.Equal(t, 20, s.PageSize)
}

func TestNormalizePageSize(t *testing.T) {
	for _, size := range notification.PageSizes {
		assert.Equal(t, size, notification.NormalizePageSize(size))
	}
	assert.Equal(t, 20, notification.NormalizePageSize(0))
	assert.Equal(t, 20, notification.NormalizePageSize(33))
	assert.Equal(t, 20, notification.NormalizePageSize(-5))
}

func TestSettingsNormalize(t *testing.T) {
	s := &notification.Settings{DefaultReminderDays: -3, PageSize: 15}
	s.Normalize()
	assert.Equal(t, 7, s.DefaultReminderDays)
	assert.Equal(t, 20, s.PageSize)
}

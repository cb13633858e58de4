// internal/infra/channel/senders.go
package channel

import "subscription_reminder_bot/internal/domain/notification"

// Senders returns one sender per supported channel, keyed by channel id.
func Senders() map[notification.Channel]notification.Sender {
	return map[notification.Channel]notification.Sender{
		notification.ChannelTelegram: NewTelegramSender(),
		notification.ChannelEmail:    NewEmailSender(),
		notification.ChannelWebhook:  NewWebhookSender(),
		notification.ChannelBark:     NewBarkSender(),
	}
}

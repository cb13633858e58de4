// internal/domain/notification/channel.go
package notification

// Channel identifies a notification delivery mechanism.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelEmail    Channel = "email"
	ChannelWebhook  Channel = "webhook"
	ChannelBark     Channel = "bark"
)

// AllChannels lists every channel the system knows about, in a stable order.
var AllChannels = []Channel{ChannelTelegram, ChannelEmail, ChannelWebhook, ChannelBark}

// IsKnown reports whether ch is one of the four supported channels.
func (ch Channel) IsKnown() bool {
	switch ch {
	case ChannelTelegram, ChannelEmail, ChannelWebhook, ChannelBark:
		return true
	default:
		return false
	}
}

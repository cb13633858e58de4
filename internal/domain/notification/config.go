// internal/domain/notification/config.go
package notification

import "fmt"

// TelegramConfig holds the credentials for the Telegram bot channel.
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken"`
	ChatID   string `json:"chatId"`
}

// EmailConfig holds the SMTP settings for the email channel.
type EmailConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// WebhookConfig holds the target for the generic webhook channel.
type WebhookConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
}

// BarkConfig holds the settings for the Bark push channel.
type BarkConfig struct {
	Enabled   bool   `json:"enabled"`
	ServerURL string `json:"serverUrl"`
	DeviceKey string `json:"deviceKey"`
	Sound     string `json:"sound"`
}

// Config is the complete per-channel notification configuration. All four
// channel sub-configs are always present; a channel that is not in use is
// carried with Enabled=false rather than omitted.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Email    EmailConfig    `json:"email"`
	Webhook  WebhookConfig  `json:"webhook"`
	Bark     BarkConfig     `json:"bark"`
}

// DefaultConfig returns a complete config with every channel disabled.
func DefaultConfig() *Config {
	return &Config{
		Bark: BarkConfig{ServerURL: "https://api.day.app"},
	}
}

// ChannelEnabled reports whether the given channel is switched on in this config.
func (c *Config) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelTelegram:
		return c.Telegram.Enabled
	case ChannelEmail:
		return c.Email.Enabled
	case ChannelWebhook:
		return c.Webhook.Enabled
	case ChannelBark:
		return c.Bark.Enabled
	default:
		return false
	}
}

func (c *TelegramConfig) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("telegram: bot token is not set")
	}
	if c.ChatID == "" {
		return fmt.Errorf("telegram: chat ID is not set")
	}
	return nil
}

func (c *EmailConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("email: SMTP host is not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("email: invalid SMTP port %d", c.Port)
	}
	if c.From == "" {
		return fmt.Errorf("email: sender address is not set")
	}
	if c.To == "" {
		return fmt.Errorf("email: recipient address is not set")
	}
	return nil
}

func (c *WebhookConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("webhook: URL is not set")
	}
	return nil
}

func (c *BarkConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("bark: server URL is not set")
	}
	if c.DeviceKey == "" {
		return fmt.Errorf("bark: device key is not set")
	}
	return nil
}

// Validate checks every enabled channel's credentials. Disabled channels are
// allowed to be incomplete.
func (c *Config) Validate() error {
	if c.Telegram.Enabled {
		if err := c.Telegram.Validate(); err != nil {
			return err
		}
	}
	if c.Email.Enabled {
		if err := c.Email.Validate(); err != nil {
			return err
		}
	}
	if c.Webhook.Enabled {
		if err := c.Webhook.Validate(); err != nil {
			return err
		}
	}
	if c.Bark.Enabled {
		if err := c.Bark.Validate(); err != nil {
			return err
		}
	}
	return nil
}

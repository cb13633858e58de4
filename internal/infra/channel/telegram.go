// internal/infra/channel/telegram.go
package channel

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"subscription_reminder_bot/internal/domain/notification"

	"gopkg.in/telebot.v3"
)

// TelegramSender delivers reminders as Telegram bot messages. The bot token
// lives in the notification config, not the environment: the user configures
// the reminder channel independently of the interactive bot. Bot instances are
// built offline (no getMe round-trip) and cached per token.
type TelegramSender struct {
	mu   sync.Mutex
	bots map[string]*telebot.Bot
}

func NewTelegramSender() *TelegramSender {
	return &TelegramSender{bots: make(map[string]*telebot.Bot)}
}

func (s *TelegramSender) Send(_ context.Context, content notification.Content, cfg *notification.Config) error {
	tc := cfg.Telegram
	if err := tc.Validate(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(tc.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ID %q: %w", tc.ChatID, err)
	}

	bot, err := s.botFor(tc.BotToken)
	if err != nil {
		return fmt.Errorf("telegram: failed to create bot: %w", err)
	}

	text := fmt.Sprintf("*%s*\n\n%s", content.Title, content.Body)
	_, err = bot.Send(telebot.ChatID(chatID), text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		return fmt.Errorf("telegram: send failed: %w", err)
	}
	return nil
}

func (s *TelegramSender) botFor(token string) (*telebot.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bot, ok := s.bots[token]; ok {
		return bot, nil
	}
	bot, err := telebot.NewBot(telebot.Settings{Token: token, Offline: true})
	if err != nil {
		return nil, err
	}
	s.bots[token] = bot
	return bot, nil
}

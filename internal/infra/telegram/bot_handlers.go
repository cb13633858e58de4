// internal/infra/telegram/bot_handlers.go
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"subscription_reminder_bot/internal/app"
	"subscription_reminder_bot/internal/domain/subscription"
	"subscription_reminder_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotHandlers registers the interactive bot commands. Everything
// except /start and /help is admin-only: the tracker is a single-user system
// and the admin is its user.
func RegisterBotHandlers(
	ctx context.Context,
	b *telebot.Bot,
	cfg *config.AppConfig,
	subService *app.SubscriptionService,
	reminderService *app.ReminderService,
	transferService *app.TransferService,
	baseLogger *logrus.Entry,
) {
	b.Handle("/start", func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{
			"handler":   "/start",
			"sender_id": c.Sender().ID,
		})
		logCtx.Info("Command received")

		if c.Sender().ID == cfg.AdminTelegramID {
			return c.Send(fmt.Sprintf("Hi, %s! I track your subscriptions and remind you before they expire. Use /help for the command list.", c.Sender().FirstName))
		}
		logCtx.Warn("Unknown user")
		return c.Send("Hi! I'm a private subscription reminder bot. I only talk to my owner.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{
			"handler":   "/help",
			"sender_id": c.Sender().ID,
		})
		logCtx.Info("Command received")

		if c.Sender().ID != cfg.AdminTelegramID {
			return c.Send("No commands are available for you.")
		}

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/list`\n - Show all subscriptions, most urgent first.\n\n")
		helpText.WriteString("`/check_now`\n - Run one reminder cycle immediately.\n\n")
		helpText.WriteString("`/export`\n - Export all subscriptions and settings as a JSON backup.\n\n")
		helpText.WriteString("`/help`\n - Show this help message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/list", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != cfg.AdminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to use this command.")
		}

		now := time.Now()
		subs, err := subService.List(ctx, now)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list subscriptions")
			return c.Send(fmt.Sprintf("Failed to list subscriptions: %s", err.Error()))
		}
		if len(subs) == 0 {
			return c.Send("No subscriptions tracked yet.")
		}

		handlerLogger.WithField("count", len(subs)).Info("Sending subscription list")

		var response strings.Builder
		response.WriteString(fmt.Sprintf("Tracked subscriptions (%d):\n", len(subs)))
		for _, sub := range subs {
			response.WriteString(formatSubscriptionLine(sub, now))
		}
		return c.Send(response.String())
	})

	b.Handle("/check_now", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/check_now",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != cfg.AdminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to use this command.")
		}

		jobCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		report, err := reminderService.RunCycle(jobCtx, time.Now())
		if err != nil {
			handlerLogger.WithError(err).Error("Manual reminder cycle failed")
			return c.Send(fmt.Sprintf("Reminder cycle failed: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("Reminder cycle done. Evaluated: %d, notified: %d, channel failures: %d.",
			report.Evaluated, report.Notified, report.ChannelFailures))
	})

	b.Handle("/export", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/export",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != cfg.AdminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to use this command.")
		}

		now := time.Now()
		data, err := transferService.ExportJSON(ctx, now)
		if err != nil {
			handlerLogger.WithError(err).Error("Export failed")
			return c.Send(fmt.Sprintf("Export failed: %s", err.Error()))
		}

		doc := &telebot.Document{
			File:     telebot.FromReader(bytes.NewReader(data)),
			FileName: fmt.Sprintf("subscriptions_backup_%s.json", now.Format("2006-01-02")),
			MIME:     "application/json",
		}
		handlerLogger.WithField("bytes", len(data)).Info("Sending export document")
		return c.Send(doc)
	})
}

func formatSubscriptionLine(sub *subscription.Subscription, now time.Time) string {
	var state string
	switch sub.Status(now) {
	case subscription.StatusDisabled:
		state = "disabled"
	case subscription.StatusExpired:
		state = fmt.Sprintf("expired %d day(s) ago", -subscription.RemainingDays(sub.ExpiryDate, now))
	default:
		remaining := subscription.RemainingDays(sub.ExpiryDate, now)
		if remaining == 0 {
			state = "expires today"
		} else {
			state = fmt.Sprintf("%d day(s) left", remaining)
		}
	}
	return fmt.Sprintf("- %s [%s, %s]: %s (expires %s)\n",
		sub.Name, sub.Type, sub.Cycle, state, sub.ExpiryDate.In(now.Location()).Format("2006-01-02"))
}

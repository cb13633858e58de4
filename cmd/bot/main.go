package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription_reminder_bot/internal/app"
	"subscription_reminder_bot/internal/infra/channel"
	"subscription_reminder_bot/internal/infra/config"
	idb "subscription_reminder_bot/internal/infra/database"
	"subscription_reminder_bot/internal/infra/logger"
	"subscription_reminder_bot/internal/infra/scheduler"
	"subscription_reminder_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Subscription Reminder Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	subRepo := idb.NewPostgresSubscriptionRepository(db)
	settingsRepo := idb.NewPostgresSettingsRepository(db)
	mainLogger.Info("Repositories initialized.")

	// Initialize Services
	subService := app.NewSubscriptionService(subRepo, settingsRepo, log.WithField("service", "subscription"))
	dispatcher := app.NewDispatcher(
		channel.Senders(),
		time.Duration(cfg.SendTimeoutSeconds)*time.Second,
		log.WithField("service", "dispatcher"),
	)
	reminderService := app.NewReminderService(subRepo, settingsRepo, dispatcher, log.WithField("service", "reminder"))
	transferService := app.NewTransferService(subRepo, settingsRepo, log.WithField("service", "transfer"))
	mainLogger.Info("Application services initialized.")

	// Initialize ReminderScheduler
	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		log.WithField("component", "scheduler"),
		cfg.CronSpecReminderCheck,
	)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	// Register Handlers
	handlerCtx, cancelHandlers := context.WithCancel(context.Background())
	defer cancelHandlers()
	telegram.RegisterBotHandlers(handlerCtx, bot, cfg, subService, reminderService, transferService, log.WithField("component", "handlers"))
	mainLogger.Info("Bot command handlers registered.")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	reminderScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully.")
}

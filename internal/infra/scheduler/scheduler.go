package scheduler

import (
	"context"
	"time"

	"subscription_reminder_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds one wake-up cycle. Cycles are short; this is a safety net
// against a storage layer that stops answering.
const jobTimeout = 5 * time.Minute

// ReminderScheduler is the external wake-up trigger: it invokes one scheduling
// cycle per cron tick with now = the current instant. Ticks may be delayed or
// coalesced by the host; the driver's dedup markers make replays harmless.
type ReminderScheduler struct {
	cronEngine      *cron.Cron
	reminderService *app.ReminderService
	logger          *logrus.Entry
	cronSpec        string
}

func NewReminderScheduler(
	reminderService *app.ReminderService,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 * * * *" (top of every hour)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reminderService: reminderService,
		logger:          logger,
		cronSpec:        cronSpec,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for reminder check.")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		report, err := s.reminderService.RunCycle(ctx, time.Now())
		if err != nil {
			s.logger.WithError(err).Error("Reminder cycle ended with error")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"evaluated":        report.Evaluated,
			"notified":         report.Notified,
			"channel_failures": report.ChannelFailures,
		}).Info("Reminder cycle finished")
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Reminder scheduler started.")
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reminder scheduler gracefully stopped.")
}

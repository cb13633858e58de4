// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

// CycleReport summarizes one wake-up cycle of the scheduling driver.
type CycleReport struct {
	Evaluated       int
	Notified        int
	ChannelFailures int
}

// ReminderService is the scheduling driver. The external wake-up trigger
// invokes RunCycle at arbitrary, possibly coalesced intervals; no in-memory
// state survives between invocations, so all dedup bookkeeping lives in the
// per-record LastNotifiedAt marker persisted at the end of each cycle.
type ReminderService struct {
	subRepo    subscription.Repository
	notifRepo  notification.Repository
	dispatcher *Dispatcher
	logger     *logrus.Entry
}

func NewReminderService(
	sr subscription.Repository,
	nr notification.Repository,
	dispatcher *Dispatcher,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		subRepo:    sr,
		notifRepo:  nr,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RunCycle executes one full wake-up cycle with the given reference time:
// load, evaluate, dedup, dispatch, persist markers. It is idempotent under
// immediate re-invocation with the same now and state: the marker written in
// step 5 suppresses duplicates, which matters because the host trigger can
// fire more often than configured or replay after a crash.
//
// Storage failures abort the remainder of the cycle (already-dispatched
// notifications stand); channel failures never do.
func (s *ReminderService) RunCycle(ctx context.Context, now time.Time) (*CycleReport, error) {
	settings, err := s.notifRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg, err := s.notifRepo.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification config: %w", err)
	}

	// Disabled records are skipped at the storage layer; they need no evaluation.
	subs, err := s.subRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled subscriptions: %w", err)
	}

	report := &CycleReport{Evaluated: len(subs)}
	for _, sub := range subs {
		if !sub.ShouldRemind(now) {
			continue
		}
		if !shouldNotify(sub, settings, now) {
			s.logger.WithFields(logrus.Fields{
				"subscription_id":   sub.ID,
				"subscription_name": sub.Name,
			}).Debug("Reminder suppressed by last-notified marker")
			continue
		}

		results := s.dispatcher.Dispatch(ctx, sub, cfg, now)
		report.Notified++
		for _, res := range results {
			if !res.Success {
				report.ChannelFailures++
			}
		}

		// The marker is written after the dispatch attempt regardless of
		// per-channel success: a fully-failed dispatch must still not spam
		// every wake-up. Failures are surfaced via the report and the log.
		if err := s.subRepo.MarkNotified(ctx, sub.ID, now); err != nil {
			s.logger.WithError(err).WithField("subscription_id", sub.ID).
				Error("Failed to persist last-notified marker; aborting cycle")
			return report, fmt.Errorf("failed to persist last-notified marker for %s: %w", sub.ID, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"evaluated":        report.Evaluated,
		"notified":         report.Notified,
		"channel_failures": report.ChannelFailures,
	}).Info("Reminder cycle complete")
	return report, nil
}

// shouldNotify applies the dedup decision for a record that is already inside
// its reminder window.
//
// Daily-reminder mode fires at most once per calendar day (in now's location):
// the setting is named "daily", and the host trigger may wake sub-day or
// replay after a crash, so firing on every wake-up would turn a short cron
// interval into spam.
//
// Otherwise the record fires at most once per window: the marker suppresses
// re-firing while it lies inside the current window. A renewal moves the
// window start past the marker, which re-arms the reminder.
func shouldNotify(sub *subscription.Subscription, settings *notification.Settings, now time.Time) bool {
	if !sub.LastNotifiedAt.Valid {
		return true
	}
	last := sub.LastNotifiedAt.Time

	if settings.DailyReminder {
		ly, lm, ld := last.In(now.Location()).Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd
	}

	return last.Before(sub.WindowStart(now))
}

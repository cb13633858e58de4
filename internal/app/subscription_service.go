// internal/app/subscription_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the subscription service.
var ErrRenewOneTime = fmt.Errorf("one-time subscriptions cannot be renewed")

// InvalidInputError carries every field-level problem found on a record, so
// the caller can surface a complete report instead of the first failure.
type InvalidInputError struct {
	Problems []string
}

func (e *InvalidInputError) Error() string {
	return "invalid subscription: " + strings.Join(e.Problems, "; ")
}

// SubscriptionService implements the user-facing record operations: add, edit,
// renew, toggle, delete, list. It owns identity assignment and validation;
// persistence stays behind the repository.
type SubscriptionService struct {
	subRepo   subscription.Repository
	notifRepo notification.Repository
	logger    *logrus.Entry
}

func NewSubscriptionService(sr subscription.Repository, nr notification.Repository, logger *logrus.Entry) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   sr,
		notifRepo: nr,
		logger:    logger,
	}
}

// Add validates the record, assigns a fresh identity and timestamps, and
// persists it. A negative ReminderDays asks for the configured default.
func (s *SubscriptionService) Add(ctx context.Context, sub *subscription.Subscription, now time.Time) (*subscription.Subscription, error) {
	if sub.ReminderDays < 0 {
		settings, err := s.notifRepo.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings for default reminder days: %w", err)
		}
		sub.ReminderDays = settings.DefaultReminderDays
	}

	if problems := sub.Validate(); len(problems) > 0 {
		return nil, &InvalidInputError{Problems: problems}
	}

	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"subscription_id":   sub.ID,
		"subscription_name": sub.Name,
	}).Info("Subscription added")
	return sub, nil
}

// Update validates and persists an edited record, touching UpdatedAt. The
// record must already exist; the repository reports an unknown id.
func (s *SubscriptionService) Update(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	if problems := sub.Validate(); len(problems) > 0 {
		return &InvalidInputError{Problems: problems}
	}
	sub.UpdatedAt = now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", sub.ID, err)
	}
	s.logger.WithField("subscription_id", sub.ID).Info("Subscription updated")
	return nil
}

// Renew advances the expiry date by one cycle. Renewing a one-time
// subscription is refused here, at the call site, rather than silently
// returning the same date.
func (s *SubscriptionService) Renew(ctx context.Context, id string, now time.Time) (*subscription.Subscription, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Cycle == subscription.CycleOneTime {
		return nil, ErrRenewOneTime
	}

	sub.ExpiryDate = subscription.NextExpiry(sub.ExpiryDate, sub.Cycle)
	sub.UpdatedAt = now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to persist renewal of subscription %s: %w", id, err)
	}

	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"new_expiry":      sub.ExpiryDate.Format("2006-01-02"),
	}).Info("Subscription renewed")
	return sub, nil
}

// ToggleEnabled flips the enabled flag. Disabling suppresses all notification
// activity for the record without losing its state.
func (s *SubscriptionService) ToggleEnabled(ctx context.Context, id string, now time.Time) (*subscription.Subscription, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.IsEnabled = !sub.IsEnabled
	sub.UpdatedAt = now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to toggle subscription %s: %w", id, err)
	}
	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"is_enabled":      sub.IsEnabled,
	}).Info("Subscription toggled")
	return sub, nil
}

// Delete removes a record permanently.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.subRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("subscription_id", id).Info("Subscription deleted")
	return nil
}

// Get fetches a single record.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.subRepo.GetByID(ctx, id)
}

// List returns all records sorted most-urgent-first at the given reference
// time: expired, then expiring soon, then the rest, each by ascending expiry.
func (s *SubscriptionService) List(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subscription.SortByUrgency(subs, now)
	return subs, nil
}

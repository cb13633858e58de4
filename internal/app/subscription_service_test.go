package app

import (
	"context"
	"testing"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionService() (*SubscriptionService, *memSubscriptionRepo, *memNotifRepo) {
	subRepo := newMemSubscriptionRepo()
	notifRepo := newMemNotifRepo()
	return NewSubscriptionService(subRepo, notifRepo, testLogger()), subRepo, notifRepo
}

func draftSub(name string) *subscription.Subscription {
	return &subscription.Subscription{
		Name:         name,
		Type:         subscription.TypeVideo,
		Cycle:        subscription.CycleMonthly,
		ExpiryDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReminderDays: 7,
		Channels:     []notification.Channel{notification.ChannelTelegram},
		IsEnabled:    true,
	}
}

func TestAddAssignsIdentityAndTimestamps(t *testing.T) {
	svc, repo, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	created, err := svc.Add(context.Background(), draftSub("Netflix"), now)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", stored.Name)
}

func TestAddAppliesDefaultReminderDays(t *testing.T) {
	svc, _, notifRepo := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	settings := notification.DefaultSettings()
	settings.DefaultReminderDays = 14
	require.NoError(t, notifRepo.SaveSettings(context.Background(), settings))

	sub := draftSub("Netflix")
	sub.ReminderDays = -1 // ask for the configured default
	created, err := svc.Add(context.Background(), sub, now)
	require.NoError(t, err)
	assert.Equal(t, 14, created.ReminderDays)
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	svc, repo, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	bad := draftSub("  ")
	bad.Type = "gym"
	_, err := svc.Add(context.Background(), bad, now)

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Problems, 2, "every problem is collected, not just the first")

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestRenewAdvancesOneCycle(t *testing.T) {
	svc, _, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	sub := draftSub("Netflix")
	sub.Cycle = subscription.CycleQuarterly
	created, err := svc.Add(context.Background(), sub, now)
	require.NoError(t, err)

	renewed, err := svc.Renew(context.Background(), created.ID, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), renewed.ExpiryDate)
}

func TestRenewRefusesOneTime(t *testing.T) {
	svc, _, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	sub := draftSub("Domain")
	sub.Cycle = subscription.CycleOneTime
	created, err := svc.Add(context.Background(), sub, now)
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), created.ID, now)
	assert.ErrorIs(t, err, ErrRenewOneTime)
}

func TestToggleEnabledFlips(t *testing.T) {
	svc, _, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	created, err := svc.Add(context.Background(), draftSub("Netflix"), now)
	require.NoError(t, err)
	require.True(t, created.IsEnabled)

	toggled, err := svc.ToggleEnabled(context.Background(), created.ID, now)
	require.NoError(t, err)
	assert.False(t, toggled.IsEnabled)

	toggled, err = svc.ToggleEnabled(context.Background(), created.ID, now)
	require.NoError(t, err)
	assert.True(t, toggled.IsEnabled)
}

func TestListSortsByUrgency(t *testing.T) {
	svc, _, _ := newSubscriptionService()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	later := draftSub("Later")
	later.ExpiryDate = now.AddDate(0, 6, 0)
	expired := draftSub("Expired")
	expired.ExpiryDate = now.AddDate(0, 0, -10)
	soon := draftSub("Soon")
	soon.ExpiryDate = now.AddDate(0, 0, 3)

	for _, sub := range []*subscription.Subscription{later, expired, soon} {
		_, err := svc.Add(context.Background(), sub, now)
		require.NoError(t, err)
	}

	subs, err := svc.List(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "Expired", subs[0].Name)
	assert.Equal(t, "Soon", subs[1].Name)
	assert.Equal(t, "Later", subs[2].Name)
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _, _ := newSubscriptionService()
	assert.Error(t, svc.Delete(context.Background(), "missing"))
}

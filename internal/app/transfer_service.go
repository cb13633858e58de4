// internal/app/transfer_service.go
package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BundleVersion is the fixed version tag written to every exported bundle.
const BundleVersion = "1.0.0"

// Custom application-level errors for the transfer service.
var ErrImportFormat = fmt.Errorf("import bundle is not valid JSON or is structurally invalid")
var ErrImportValidation = fmt.Errorf("import bundle failed validation")

// ImportMode selects the conflict-resolution strategy of an import.
type ImportMode string

const (
	ImportOverwrite ImportMode = "overwrite" // clear everything, then insert
	ImportMerge     ImportMode = "merge"     // append, skipping name collisions
)

// Bundle is the versioned export/import document. Field names and the version
// string are the bit-exact wire contract; instants are millisecond epochs.
type Bundle struct {
	Version            string                    `json:"version"`
	ExportedAt         int64                     `json:"exportedAt"`
	Subscriptions      []BundleSubscription      `json:"subscriptions"`
	NotificationConfig *BundleNotificationConfig `json:"notificationConfig,omitempty"`
	Settings           *notification.Settings    `json:"settings,omitempty"`
}

// BundleSubscription is the wire shape of one record.
type BundleSubscription struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	CustomType   string   `json:"customType,omitempty"`
	Cycle        string   `json:"cycle"`
	ExpiryDate   int64    `json:"expiryDate"`
	ReminderDays int      `json:"reminderDays"`
	Channels     []string `json:"notificationChannels"`
	IsEnabled    bool     `json:"isEnabled"`
	URL          string   `json:"url,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	CreatedAt    int64    `json:"createdAt,omitempty"`
	UpdatedAt    int64    `json:"updatedAt,omitempty"`
}

// BundleNotificationConfig carries the four channel configs. Pointers detect
// a structurally incomplete config: when the object is present at all, every
// channel must be present. There is no partial-config defaulting.
type BundleNotificationConfig struct {
	Telegram *notification.TelegramConfig `json:"telegram"`
	Email    *notification.EmailConfig    `json:"email"`
	Webhook  *notification.WebhookConfig  `json:"webhook"`
	Bark     *notification.BarkConfig     `json:"bark"`
}

// ImportReport summarizes the outcome of one import.
type ImportReport struct {
	Imported       int
	Skipped        int
	VersionWarning string
	Errors         []string
}

// TransferService implements config import/export as a versioned bundle.
type TransferService struct {
	subRepo   subscription.Repository
	notifRepo notification.Repository
	logger    *logrus.Entry
}

func NewTransferService(sr subscription.Repository, nr notification.Repository, logger *logrus.Entry) *TransferService {
	return &TransferService{
		subRepo:   sr,
		notifRepo: nr,
		logger:    logger,
	}
}

// Export assembles the full configuration into a bundle.
func (s *TransferService) Export(ctx context.Context, now time.Time) (*Bundle, error) {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for export: %w", err)
	}
	cfg, err := s.notifRepo.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification config for export: %w", err)
	}
	settings, err := s.notifRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for export: %w", err)
	}

	bundle := &Bundle{
		Version:       BundleVersion,
		ExportedAt:    now.UnixMilli(),
		Subscriptions: make([]BundleSubscription, 0, len(subs)),
		NotificationConfig: &BundleNotificationConfig{
			Telegram: &cfg.Telegram,
			Email:    &cfg.Email,
			Webhook:  &cfg.Webhook,
			Bark:     &cfg.Bark,
		},
		Settings: settings,
	}
	for _, sub := range subs {
		bundle.Subscriptions = append(bundle.Subscriptions, toBundleSubscription(sub))
	}
	return bundle, nil
}

// ExportJSON renders the bundle as indented JSON, ready to hand to the user.
func (s *TransferService) ExportJSON(ctx context.Context, now time.Time) ([]byte, error) {
	bundle, err := s.Export(ctx, now)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export bundle: %w", err)
	}
	return data, nil
}

// Import runs parse -> structural validation -> semantic validation ->
// (merge | overwrite). Validation is exhaustive: every violation across every
// record is collected, and nothing is written unless all records pass. Within
// merge mode, name collisions are skipped and counted, not errored. A version
// mismatch is a warning only, since the record shape is validated field by
// field anyway.
func (s *TransferService) Import(ctx context.Context, raw []byte, mode ImportMode, now time.Time) (*ImportReport, error) {
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	if err := validateBundleStructure(&bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	report := &ImportReport{}
	if bundle.Version != BundleVersion {
		report.VersionWarning = fmt.Sprintf("bundle version %q differs from current %q; proceeding", bundle.Version, BundleVersion)
		s.logger.Warn(report.VersionWarning)
	}

	// Semantic validation over every record before anything is written.
	for i, bs := range bundle.Subscriptions {
		for _, problem := range validateBundleSubscription(&bs) {
			report.Errors = append(report.Errors, fmt.Sprintf("subscriptions[%d] (%s): %s", i, bs.Name, problem))
		}
	}
	if len(report.Errors) > 0 {
		return report, ErrImportValidation
	}

	switch mode {
	case ImportOverwrite:
		if err := s.importOverwrite(ctx, &bundle, report, now); err != nil {
			return report, err
		}
	case ImportMerge:
		if err := s.importMerge(ctx, &bundle, report, now); err != nil {
			return report, err
		}
	default:
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	// Config and settings fully replace the current ones in both modes. An
	// absent config leaves the current one untouched; absent settings are
	// replaced with the defaults.
	if bundle.NotificationConfig != nil {
		cfg := &notification.Config{
			Telegram: *bundle.NotificationConfig.Telegram,
			Email:    *bundle.NotificationConfig.Email,
			Webhook:  *bundle.NotificationConfig.Webhook,
			Bark:     *bundle.NotificationConfig.Bark,
		}
		if err := s.notifRepo.SaveConfig(ctx, cfg); err != nil {
			return report, fmt.Errorf("failed to save imported notification config: %w", err)
		}
	}
	settings := bundle.Settings
	if settings == nil {
		settings = notification.DefaultSettings()
	}
	settings.Normalize()
	if err := s.notifRepo.SaveSettings(ctx, settings); err != nil {
		return report, fmt.Errorf("failed to save imported settings: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"mode":     mode,
		"imported": report.Imported,
		"skipped":  report.Skipped,
	}).Info("Import complete")
	return report, nil
}

// importOverwrite clears all existing records and inserts every imported one
// under a fresh identity. Imported ids are never trusted: reusing them could
// collide with retained external references.
func (s *TransferService) importOverwrite(ctx context.Context, bundle *Bundle, report *ImportReport, now time.Time) error {
	subs := make([]*subscription.Subscription, 0, len(bundle.Subscriptions))
	for _, bs := range bundle.Subscriptions {
		subs = append(subs, fromBundleSubscription(&bs, now))
	}
	if err := s.subRepo.ReplaceAll(ctx, subs); err != nil {
		return fmt.Errorf("failed to replace subscriptions: %w", err)
	}
	report.Imported = len(subs)
	return nil
}

// importMerge appends imported records to the existing set, skipping any whose
// name matches an existing record case-insensitively.
func (s *TransferService) importMerge(ctx context.Context, bundle *Bundle, report *ImportReport, now time.Time) error {
	existing, err := s.subRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list existing subscriptions: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, sub := range existing {
		taken[normalizeName(sub.Name)] = true
	}

	var toCreate []*subscription.Subscription
	for _, bs := range bundle.Subscriptions {
		key := normalizeName(bs.Name)
		if taken[key] {
			report.Skipped++
			continue
		}
		taken[key] = true
		toCreate = append(toCreate, fromBundleSubscription(&bs, now))
	}

	if len(toCreate) > 0 {
		if err := s.subRepo.BulkCreate(ctx, toCreate); err != nil {
			return fmt.Errorf("failed to insert merged subscriptions: %w", err)
		}
	}
	report.Imported = len(toCreate)
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateBundleStructure(bundle *Bundle) error {
	if strings.TrimSpace(bundle.Version) == "" {
		return fmt.Errorf("missing version tag")
	}
	if bundle.ExportedAt == 0 {
		return fmt.Errorf("missing export instant")
	}
	if bundle.Subscriptions == nil {
		return fmt.Errorf("missing subscriptions array")
	}
	if nc := bundle.NotificationConfig; nc != nil {
		if nc.Telegram == nil {
			return fmt.Errorf("notificationConfig is missing the telegram channel")
		}
		if nc.Email == nil {
			return fmt.Errorf("notificationConfig is missing the email channel")
		}
		if nc.Webhook == nil {
			return fmt.Errorf("notificationConfig is missing the webhook channel")
		}
		if nc.Bark == nil {
			return fmt.Errorf("notificationConfig is missing the bark channel")
		}
	}
	return nil
}

// validateBundleSubscription collects every field-level violation on one wire
// record by converting it and running the domain validation. A zero or absent
// expiryDate converts to the zero time and is reported there.
func validateBundleSubscription(bs *BundleSubscription) []string {
	return fromBundleSubscription(bs, time.UnixMilli(0)).Validate()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toBundleSubscription(sub *subscription.Subscription) BundleSubscription {
	channels := make([]string, 0, len(sub.Channels))
	for _, ch := range sub.Channels {
		channels = append(channels, string(ch))
	}
	return BundleSubscription{
		ID:           sub.ID,
		Name:         sub.Name,
		Type:         string(sub.Type),
		CustomType:   sub.CustomType.String,
		Cycle:        string(sub.Cycle),
		ExpiryDate:   sub.ExpiryDate.UnixMilli(),
		ReminderDays: sub.ReminderDays,
		Channels:     channels,
		IsEnabled:    sub.IsEnabled,
		URL:          sub.URL.String,
		Notes:        sub.Notes.String,
		CreatedAt:    sub.CreatedAt.UnixMilli(),
		UpdatedAt:    sub.UpdatedAt.UnixMilli(),
	}
}

// fromBundleSubscription converts a wire record into a domain record with a
// fresh identity. UpdatedAt is stamped with now; CreatedAt is preserved when
// the bundle carries one and defaults to now otherwise.
func fromBundleSubscription(bs *BundleSubscription, now time.Time) *subscription.Subscription {
	channels := make([]notification.Channel, 0, len(bs.Channels))
	for _, ch := range bs.Channels {
		channels = append(channels, notification.Channel(ch))
	}
	createdAt := now
	if bs.CreatedAt > 0 {
		createdAt = time.UnixMilli(bs.CreatedAt)
	}
	var expiry time.Time
	if bs.ExpiryDate != 0 {
		expiry = time.UnixMilli(bs.ExpiryDate)
	}
	return &subscription.Subscription{
		ID:           uuid.NewString(),
		Name:         bs.Name,
		Type:         subscription.Type(bs.Type),
		CustomType:   nullString(bs.CustomType),
		Cycle:        subscription.Cycle(bs.Cycle),
		ExpiryDate:   expiry,
		ReminderDays: bs.ReminderDays,
		Channels:     channels,
		IsEnabled:    bs.IsEnabled,
		URL:          nullString(bs.URL),
		Notes:        nullString(bs.Notes),
		CreatedAt:    createdAt,
		UpdatedAt:    now,
	}
}

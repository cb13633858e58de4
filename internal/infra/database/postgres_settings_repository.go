// internal/infra/database/postgres_settings_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"subscription_reminder_bot/internal/domain/notification"
)

// Keys of the single-object documents in the app_state table.
const (
	stateKeyNotificationConfig = "notification_config"
	stateKeySettings           = "settings"
)

// PostgresSettingsRepository persists the notification config and the global
// settings as JSONB documents in a small key-value table. A missing row is not
// an error: the defaults apply until something has been saved.
type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) GetConfig(ctx context.Context) (*notification.Config, error) {
	cfg := notification.DefaultConfig()
	if err := r.getState(ctx, stateKeyNotificationConfig, cfg); err != nil {
		return nil, fmt.Errorf("error loading notification config: %w", err)
	}
	return cfg, nil
}

func (r *PostgresSettingsRepository) SaveConfig(ctx context.Context, cfg *notification.Config) error {
	if err := r.putState(ctx, stateKeyNotificationConfig, cfg); err != nil {
		return fmt.Errorf("error saving notification config: %w", err)
	}
	return nil
}

func (r *PostgresSettingsRepository) GetSettings(ctx context.Context) (*notification.Settings, error) {
	settings := notification.DefaultSettings()
	if err := r.getState(ctx, stateKeySettings, settings); err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

func (r *PostgresSettingsRepository) SaveSettings(ctx context.Context, settings *notification.Settings) error {
	if err := r.putState(ctx, stateKeySettings, settings); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}
	return nil
}

// getState unmarshals the stored document for key into dest, leaving dest
// untouched when no row exists.
func (r *PostgresSettingsRepository) getState(ctx context.Context, key string, dest any) error {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (r *PostgresSettingsRepository) putState(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO app_state (key, value) VALUES ($1, $2)
               ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, raw)
	return err
}

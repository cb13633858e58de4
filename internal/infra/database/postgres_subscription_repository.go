// internal/infra/database/postgres_subscription_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// Custom errors specific to the subscription repository.
var ErrSubscriptionNotFound = fmt.Errorf("subscription not found")

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

const subscriptionColumns = `id, name, type, custom_type, cycle, expiry_date, reminder_days, channels, is_enabled, url, notes, last_notified_at, created_at, updated_at`

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `INSERT INTO subscriptions (id, name, type, custom_type, cycle, expiry_date, reminder_days, channels, is_enabled, url, notes, last_notified_at, created_at, updated_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.Name, sub.Type, sub.CustomType, sub.Cycle, sub.ExpiryDate,
		sub.ReminderDays, pq.Array(channelStrings(sub.Channels)), sub.IsEnabled,
		sub.URL, sub.Notes, sub.LastNotifiedAt, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	sub, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error getting subscription by ID: %w", err)
	}
	return sub, nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `UPDATE subscriptions
               SET name = $1, type = $2, custom_type = $3, cycle = $4, expiry_date = $5,
                   reminder_days = $6, channels = $7, is_enabled = $8, url = $9, notes = $10,
                   last_notified_at = $11, updated_at = $12
               WHERE id = $13`
	res, err := r.db.ExecContext(ctx, query,
		sub.Name, sub.Type, sub.CustomType, sub.Cycle, sub.ExpiryDate,
		sub.ReminderDays, pq.Array(channelStrings(sub.Channels)), sub.IsEnabled,
		sub.URL, sub.Notes, sub.LastNotifiedAt, sub.UpdatedAt, sub.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating subscription: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subscription: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresSubscriptionRepository) List(ctx context.Context) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying subscriptions: %w", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (r *PostgresSubscriptionRepository) ListEnabled(ctx context.Context) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE is_enabled = TRUE ORDER BY expiry_date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying enabled subscriptions: %w", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (r *PostgresSubscriptionRepository) BulkCreate(ctx context.Context, subs []*subscription.Subscription) error {
	if len(subs) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for bulk create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if err := bulkInsertSubscriptions(ctx, txn, subs); err != nil {
		return err
	}
	return txn.Commit()
}

func (r *PostgresSubscriptionRepository) ReplaceAll(ctx context.Context, subs []*subscription.Subscription) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for replace all: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("error clearing subscriptions: %w", err)
	}
	if err := bulkInsertSubscriptions(ctx, txn, subs); err != nil {
		return err
	}
	return txn.Commit()
}

func (r *PostgresSubscriptionRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE subscriptions SET last_notified_at = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("error updating last-notified marker: %w", err)
	}
	return requireRowAffected(res)
}

func bulkInsertSubscriptions(ctx context.Context, txn *sql.Tx, subs []*subscription.Subscription) error {
	stmt, err := txn.PrepareContext(ctx, `INSERT INTO subscriptions (id, name, type, custom_type, cycle, expiry_date, reminder_days, channels, is_enabled, url, notes, last_notified_at, created_at, updated_at)
                                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for bulk insert: %w", err)
	}
	defer stmt.Close()

	for _, sub := range subs {
		_, err := stmt.ExecContext(ctx,
			sub.ID, sub.Name, sub.Type, sub.CustomType, sub.Cycle, sub.ExpiryDate,
			sub.ReminderDays, pq.Array(channelStrings(sub.Channels)), sub.IsEnabled,
			sub.URL, sub.Notes, sub.LastNotifiedAt, sub.CreatedAt, sub.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error inserting subscription %q: %w", sub.Name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	sub := subscription.Subscription{}
	var channels pq.StringArray
	err := row.Scan(
		&sub.ID, &sub.Name, &sub.Type, &sub.CustomType, &sub.Cycle, &sub.ExpiryDate,
		&sub.ReminderDays, &channels, &sub.IsEnabled, &sub.URL, &sub.Notes,
		&sub.LastNotifiedAt, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Channels = make([]notification.Channel, 0, len(channels))
	for _, ch := range channels {
		sub.Channels = append(sub.Channels, notification.Channel(ch))
	}
	return &sub, nil
}

func scanSubscriptions(rows *sql.Rows) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subscription row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func channelStrings(channels []notification.Channel) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, string(ch))
	}
	return out
}

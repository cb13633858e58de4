// internal/domain/subscription/repository.go
package subscription

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving
// Subscription records. The engine operates on values handed to it and
// returns values to be persisted; this interface is its sole durable-state
// boundary.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Subscription, error)
	ListEnabled(ctx context.Context) ([]*Subscription, error)

	// BulkCreate inserts a batch of new records (merge import).
	BulkCreate(ctx context.Context, subs []*Subscription) error
	// ReplaceAll atomically clears the store and inserts the given records
	// (overwrite import).
	ReplaceAll(ctx context.Context, subs []*Subscription) error

	// MarkNotified persists the last-notified marker for a record. It is the
	// scheduling driver's end-of-cycle bookkeeping write.
	MarkNotified(ctx context.Context, id string, at time.Time) error
}

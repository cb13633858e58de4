// internal/domain/notification/repository.go
package notification

import "context"

// Repository defines the persistence operations for the notification config
// and the global settings. Both are single-object documents: a save replaces
// the stored object wholesale, and a get on an empty store returns the
// defaults rather than an error.
type Repository interface {
	GetConfig(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, cfg *Config) error

	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error
}

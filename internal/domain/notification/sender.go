// internal/domain/notification/sender.go
package notification

import "context"

// Content is the rendered reminder message handed to channel senders. Senders
// add channel-specific addressing around it but never change it.
type Content struct {
	Title string
	Body  string
}

// Sender delivers one notification over a single channel. Implementations pick
// their own sub-config out of cfg and must honor ctx cancellation for their
// network calls; the caller enforces an overall time bound regardless.
// This interface decouples the engine from the channel wire formats.
type Sender interface {
	Send(ctx context.Context, content Content, cfg *Config) error
}

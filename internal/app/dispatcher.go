// internal/app/dispatcher.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

// ChannelResult reports the outcome of one channel send for one record.
type ChannelResult struct {
	Channel notification.Channel
	Success bool
	Err     error
}

// Dispatcher fans one reminder out to every channel that is both selected on
// the record and enabled in the global config. Channel sends are isolated: a
// failure, panic or hang on one channel never prevents the others, and every
// outcome is reported individually. The dispatcher performs no retries; retry
// is the next wake-up naturally re-evaluating the record.
type Dispatcher struct {
	senders     map[notification.Channel]notification.Sender
	sendTimeout time.Duration
	logger      *logrus.Entry
}

func NewDispatcher(senders map[notification.Channel]notification.Sender, sendTimeout time.Duration, logger *logrus.Entry) *Dispatcher {
	return &Dispatcher{
		senders:     senders,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// BuildContent renders the reminder message for a record at the given
// reference time. Channel senders receive this content as-is.
func BuildContent(sub *subscription.Subscription, now time.Time) notification.Content {
	remaining := subscription.RemainingDays(sub.ExpiryDate, now)
	expiryStr := sub.ExpiryDate.In(now.Location()).Format("2006-01-02")

	var when string
	switch {
	case remaining > 0:
		when = fmt.Sprintf("expires in %d day(s)", remaining)
	case remaining == 0:
		when = "expires today"
	default:
		when = fmt.Sprintf("expired %d day(s) ago", -remaining)
	}

	return notification.Content{
		Title: fmt.Sprintf("Subscription reminder: %s", sub.Name),
		Body:  fmt.Sprintf("%s %s (expiry date: %s).", sub.Name, when, expiryStr),
	}
}

// Dispatch sends the reminder for sub over every selected-and-enabled channel
// and returns one result per attempted channel. Sends run concurrently; each
// is bounded by the dispatcher's send timeout regardless of how the sender
// behaves.
func (d *Dispatcher) Dispatch(ctx context.Context, sub *subscription.Subscription, cfg *notification.Config, now time.Time) []ChannelResult {
	content := BuildContent(sub, now)

	var targets []notification.Channel
	for _, ch := range notification.AllChannels {
		if sub.HasChannel(ch) && cfg.ChannelEnabled(ch) {
			targets = append(targets, ch)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	results := make([]ChannelResult, len(targets))
	var wg sync.WaitGroup
	for i, ch := range targets {
		wg.Add(1)
		go func(i int, ch notification.Channel) {
			defer wg.Done()
			results[i] = d.sendOne(ctx, ch, content, cfg)
		}(i, ch)
	}
	wg.Wait()

	for _, res := range results {
		logCtx := d.logger.WithFields(logrus.Fields{
			"subscription_id":   sub.ID,
			"subscription_name": sub.Name,
			"channel":           res.Channel,
		})
		if res.Success {
			logCtx.Info("Notification sent")
		} else {
			logCtx.WithError(res.Err).Error("Notification failed")
		}
	}
	return results
}

// sendOne invokes a single sender under the send timeout. The sender runs in
// its own goroutine so a hanging network call cannot block the rest of the
// dispatch; a panicking sender is converted into a failure result.
func (d *Dispatcher) sendOne(ctx context.Context, ch notification.Channel, content notification.Content, cfg *notification.Config) ChannelResult {
	sender, ok := d.senders[ch]
	if !ok {
		return ChannelResult{Channel: ch, Err: fmt.Errorf("no sender registered for channel %q", ch)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("sender for channel %q panicked: %v", ch, r)
			}
		}()
		done <- sender.Send(sendCtx, content, cfg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return ChannelResult{Channel: ch, Err: err}
		}
		return ChannelResult{Channel: ch, Success: true}
	case <-sendCtx.Done():
		return ChannelResult{Channel: ch, Err: fmt.Errorf("send on channel %q timed out: %w", ch, sendCtx.Err())}
	}
}

package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
	"subscription_reminder_bot/internal/domain/subscription"

	"github.com/sirupsen/logrus"
)

var errNotFound = fmt.Errorf("subscription not found")

// memSubscriptionRepo is an in-memory subscription.Repository for tests.
type memSubscriptionRepo struct {
	mu              sync.Mutex
	subs            map[string]*subscription.Subscription
	order           []string
	failMarkNotify  bool
	replaceAllCalls int
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]*subscription.Subscription)}
}

func (r *memSubscriptionRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs[sub.ID] = &cp
	r.order = append(r.order, sub.ID)
	return nil
}

func (r *memSubscriptionRepo) GetByID(_ context.Context, id string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memSubscriptionRepo) Update(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return errNotFound
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *memSubscriptionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return errNotFound
	}
	delete(r.subs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memSubscriptionRepo) List(_ context.Context) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.subs[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSubscriptionRepo) ListEnabled(ctx context.Context) ([]*subscription.Subscription, error) {
	all, _ := r.List(ctx)
	out := make([]*subscription.Subscription, 0, len(all))
	for _, sub := range all {
		if sub.IsEnabled {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) BulkCreate(ctx context.Context, subs []*subscription.Subscription) error {
	for _, sub := range subs {
		if err := r.Create(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *memSubscriptionRepo) ReplaceAll(ctx context.Context, subs []*subscription.Subscription) error {
	r.mu.Lock()
	r.subs = make(map[string]*subscription.Subscription)
	r.order = nil
	r.replaceAllCalls++
	r.mu.Unlock()
	return r.BulkCreate(ctx, subs)
}

func (r *memSubscriptionRepo) MarkNotified(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMarkNotify {
		return fmt.Errorf("storage unavailable")
	}
	sub, ok := r.subs[id]
	if !ok {
		return errNotFound
	}
	sub.LastNotifiedAt = sql.NullTime{Time: at, Valid: true}
	return nil
}

// memNotifRepo is an in-memory notification.Repository for tests.
type memNotifRepo struct {
	mu       sync.Mutex
	cfg      *notification.Config
	settings *notification.Settings
}

func newMemNotifRepo() *memNotifRepo {
	return &memNotifRepo{}
}

func (r *memNotifRepo) GetConfig(_ context.Context) (*notification.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return notification.DefaultConfig(), nil
	}
	cp := *r.cfg
	return &cp, nil
}

func (r *memNotifRepo) SaveConfig(_ context.Context, cfg *notification.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.cfg = &cp
	return nil
}

func (r *memNotifRepo) GetSettings(_ context.Context) (*notification.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return notification.DefaultSettings(), nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *memNotifRepo) SaveSettings(_ context.Context, settings *notification.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings = &cp
	return nil
}

// fakeSender records sends and can be told to fail, hang or panic.
type fakeSender struct {
	mu     sync.Mutex
	sent   []notification.Content
	err    error
	block  time.Duration
	panics bool
}

func (s *fakeSender) Send(ctx context.Context, content notification.Content, _ *notification.Config) error {
	if s.panics {
		panic("sender exploded")
	}
	if s.block > 0 {
		select {
		case <-time.After(s.block):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, content)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

// internal/domain/subscription/subscription.go
package subscription

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
)

// Type classifies what kind of service a subscription pays for.
type Type string

const (
	TypeVideo    Type = "video"
	TypeMusic    Type = "music"
	TypeCloud    Type = "cloud"
	TypeSoftware Type = "software"
	TypeDomain   Type = "domain"
	TypeServer   Type = "server"
	TypeOther    Type = "other"
)

// IsKnown reports whether t is one of the supported subscription types.
func (t Type) IsKnown() bool {
	switch t {
	case TypeVideo, TypeMusic, TypeCloud, TypeSoftware, TypeDomain, TypeServer, TypeOther:
		return true
	default:
		return false
	}
}

// Cycle is the renewal period class of a subscription.
type Cycle string

const (
	CycleMonthly    Cycle = "monthly"
	CycleQuarterly  Cycle = "quarterly"
	CycleSemiAnnual Cycle = "semi-annual"
	CycleAnnual     Cycle = "annual"
	CycleOneTime    Cycle = "one-time"
)

// IsKnown reports whether c is one of the supported cycles.
func (c Cycle) IsKnown() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleSemiAnnual, CycleAnnual, CycleOneTime:
		return true
	default:
		return false
	}
}

// Status is the derived lifecycle state of a subscription. It is recomputed
// from IsEnabled, ExpiryDate and the reference time on every read and is
// never persisted.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
	StatusExpired  Status = "expired"
)

// Subscription represents one tracked subscription.
// LastNotifiedAt is the only mutable scheduling state: the instant the last
// reminder for this record was dispatched, persisted so that reminder dedup
// survives process suspension between wake-ups.
type Subscription struct {
	ID             string
	Name           string
	Type           Type
	CustomType     sql.NullString // free-text label, used when Type is "other"
	Cycle          Cycle
	ExpiryDate     time.Time
	ReminderDays   int
	Channels       []notification.Channel
	IsEnabled      bool
	URL            sql.NullString
	Notes          sql.NullString
	LastNotifiedAt sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasChannel reports whether the record selects the given channel. The channel
// list is a set: order and duplicates are insignificant.
func (s *Subscription) HasChannel(ch notification.Channel) bool {
	for _, c := range s.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// Validate collects every field-level problem on the record. An empty result
// means the record is valid. Callers at entry points (add, edit, import) must
// reject records with a non-empty result; the engine itself assumes validity.
func (s *Subscription) Validate() []string {
	var problems []string
	if strings.TrimSpace(s.Name) == "" {
		problems = append(problems, "name must not be blank")
	}
	if !s.Type.IsKnown() {
		problems = append(problems, fmt.Sprintf("unknown type %q", s.Type))
	}
	if s.Type == TypeOther && strings.TrimSpace(s.CustomType.String) == "" {
		problems = append(problems, "type \"other\" requires a custom label")
	}
	if !s.Cycle.IsKnown() {
		problems = append(problems, fmt.Sprintf("unknown cycle %q", s.Cycle))
	}
	if s.ExpiryDate.IsZero() {
		problems = append(problems, "expiry date must be set")
	}
	if s.ReminderDays < 0 {
		problems = append(problems, fmt.Sprintf("reminder days must be >= 0, got %d", s.ReminderDays))
	}
	for _, ch := range s.Channels {
		if !ch.IsKnown() {
			problems = append(problems, fmt.Sprintf("unknown notification channel %q", ch))
		}
	}
	return problems
}

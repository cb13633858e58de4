// internal/domain/subscription/evaluate.go
package subscription

import (
	"math"
	"sort"
	"time"
)

// The evaluator is a set of pure functions of (record, reference instant).
// All calendar-day truncation happens in the location carried by the reference
// instant; that location is the single timezone-sensitive point of the engine.

// dayStart truncates t to midnight in loc.
func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// RemainingDays returns the number of calendar days between now and expiry:
// positive for days until expiry, zero when the expiry falls on today, negative
// for days overdue. Both instants are truncated to day granularity in now's
// location first, and the division rounds to nearest so a DST-shortened or
// DST-stretched day cannot shift the result. The difference is taken in unix
// seconds rather than time.Duration, which would saturate a few centuries out.
func RemainingDays(expiry, now time.Time) int {
	loc := now.Location()
	secs := dayStart(expiry, loc).Unix() - dayStart(now, loc).Unix()
	return int(math.Round(float64(secs) / (24 * 60 * 60)))
}

// Status derives the lifecycle state at the given reference time. Expiry is an
// exact-instant comparison, unlike RemainingDays which is a day-granularity
// display concept.
func (s *Subscription) Status(now time.Time) Status {
	if !s.IsEnabled {
		return StatusDisabled
	}
	if s.ExpiryDate.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// IsExpiringSoon reports whether the record sits inside its reminder window:
// 0 <= remaining days <= reminder days. Disabled records are never expiring
// soon. ReminderDays of zero means the window is exactly the expiry day.
func (s *Subscription) IsExpiringSoon(now time.Time) bool {
	if !s.IsEnabled {
		return false
	}
	remaining := RemainingDays(s.ExpiryDate, now)
	return remaining >= 0 && remaining <= s.ReminderDays
}

// ShouldRemind reports whether a reminder is due for the record at the given
// reference time. Disabling a record suppresses all notification activity,
// even inside the window.
func (s *Subscription) ShouldRemind(now time.Time) bool {
	return s.IsEnabled && s.IsExpiringSoon(now)
}

// WindowStart returns the first instant of the record's reminder window:
// midnight, ReminderDays calendar days before the expiry day, in now's
// location. Used by the scheduling driver to decide whether a stored
// last-notified marker belongs to the current window.
func (s *Subscription) WindowStart(now time.Time) time.Time {
	return dayStart(s.ExpiryDate, now.Location()).AddDate(0, 0, -s.ReminderDays)
}

// SortPriority buckets a record by urgency: expired first, then expiring soon,
// then everything else.
func (s *Subscription) SortPriority(now time.Time) int {
	switch {
	case s.Status(now) == StatusExpired:
		return 0
	case s.IsExpiringSoon(now):
		return 1
	default:
		return 2
	}
}

// SortByUrgency orders records most-urgent-first: by priority bucket, then by
// ascending expiry date within a bucket. The sort is stable so records with
// identical urgency keep their incoming order.
func SortByUrgency(subs []*Subscription, now time.Time) {
	sort.SliceStable(subs, func(i, j int) bool {
		pi, pj := subs[i].SortPriority(now), subs[j].SortPriority(now)
		if pi != pj {
			return pi < pj
		}
		return subs[i].ExpiryDate.Before(subs[j].ExpiryDate)
	})
}

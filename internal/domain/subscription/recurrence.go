// internal/domain/subscription/recurrence.go
package subscription

import "time"

// NextExpiry computes the expiry date after one renewal of the given cycle,
// using calendar-month arithmetic rather than fixed day offsets: Mar 15 plus
// one month is Apr 15 regardless of month length. Dates that do not exist in
// the target month normalize forward per the calendar (Jan 31 plus one month
// lands in early March), matching time.Time.AddDate.
//
// One-time subscriptions never renew: the input is returned unchanged, and
// callers must refuse a renew action on them instead of invoking this as a
// silent no-op.
func NextExpiry(current time.Time, cycle Cycle) time.Time {
	var months int
	switch cycle {
	case CycleMonthly:
		months = 1
	case CycleQuarterly:
		months = 3
	case CycleSemiAnnual:
		months = 6
	case CycleAnnual:
		months = 12
	default: // one-time or unknown
		return current
	}
	return current.AddDate(0, months, 0)
}

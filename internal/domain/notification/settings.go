// internal/domain/notification/settings.go
package notification

// Settings holds the global behavior flags of the tracker.
type Settings struct {
	ShowLunarDate       bool `json:"showLunarDate"`
	DefaultReminderDays int  `json:"defaultReminderDays"`
	DailyReminder       bool `json:"dailyReminder"`
	PageSize            int  `json:"pageSize"`
}

// PageSizes is the fixed set of allowed page sizes.
var PageSizes = []int{10, 20, 50, 100}

const defaultPageSize = 20

// DefaultSettings returns the settings applied when none have been stored yet,
// or when an imported bundle carries no settings object.
func DefaultSettings() *Settings {
	return &Settings{
		ShowLunarDate:       false,
		DefaultReminderDays: 7,
		DailyReminder:       false,
		PageSize:            defaultPageSize,
	}
}

// NormalizePageSize clamps a page size to the allowed set, falling back to the
// default for anything outside it.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return defaultPageSize
}

// Normalize brings a settings object back into its valid domain.
func (s *Settings) Normalize() {
	if s.DefaultReminderDays < 0 {
		s.DefaultReminderDays = DefaultSettings().DefaultReminderDays
	}
	s.PageSize = NormalizePageSize(s.PageSize)
}

package domain

import (
	"fmt"
	"math"
	"time"
)

// MilestoneDateLayout is the layout of Milestone.Date.
const MilestoneDateLayout = time.DateOnly

// RecentMilestoneDays is how many days a milestone stays flagged as recent.
const RecentMilestoneDays = 30

// Milestone is one row of the profile timeline.
type Milestone struct {
	Year  int    `json:"year" yaml:"year" mapstructure:"year"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	// Date is a YYYY-MM-DD day in UTC.
	Date string `json:"date" yaml:"date" mapstructure:"date"`
}

// Time parses Date.
func (m Milestone) Time() (time.Time, error) {
	t, err := time.Parse(MilestoneDateLayout, m.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: milestone %q has an invalid date %q: %v", ErrConfiguration, m.Label, m.Date, err)
	}
	return t, nil
}

// DaysSince returns the whole days elapsed from Date to now, negative for future dates.
func (m Milestone) DaysSince(now time.Time) (int, error) {
	t, err := m.Time()
	if err != nil {
		return 0, err
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), nil
}

// Recent reports whether the milestone happened within the last RecentMilestoneDays days.
func (m Milestone) Recent(now time.Time) (bool, int, error) {
	days, err := m.DaysSince(now)
	if err != nil {
		return false, 0, err
	}
	return days >= 0 && days <= RecentMilestoneDays, days, nil
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// ContractClass identifies the duty profile a driver or block operates under.
type ContractClass string

const (
	// ContractClassA is the 14-hour duty / 24-hour lookback profile.
	ContractClassA ContractClass = "classA"
	// ContractClassB is the 38-hour duty / 48-hour lookback profile.
	ContractClassB ContractClass = "classB"
)

// ParseContractClass normalizes a contract class string.
func ParseContractClass(s string) (ContractClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classa", "a":
		return ContractClassA, nil
	case "classb", "b":
		return ContractClassB, nil
	default:
		return "", fmt.Errorf("unknown contract class %q", s)
	}
}

// Slot is one recurring, time-boxed work opportunity for a given service
// date. CanonicalStart is the contractual anchor against which bumps are
// measured; it never changes even when the actual start is bumped.
type Slot struct {
	ID             string
	ContractClass  ContractClass
	ResourceID     string
	CanonicalStart ClockTime
	Day            time.Weekday
	ServiceDate    time.Time
}

// Key returns the recurring slot identity (class, resource, time, day)
// independent of the service date.
func (s Slot) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d", s.ContractClass, s.ResourceID, s.CanonicalStart, int(s.Day))
}

// Sibling reports whether other belongs to the same contract class and
// weekday, making it a bump candidate for s.
func (s Slot) Sibling(other Slot) bool {
	return s.ContractClass == other.ContractClass && s.Day == other.Day
}

// Shift is a concrete working interval on a calendar date. End may be
// earlier than Start on the clock, meaning the shift crosses midnight.
type Shift struct {
	Date  time.Time
	Start ClockTime
	End   ClockTime
}

// EndMinutes returns the shift end in minutes from the start-date midnight.
// Overnight shifts extend past 1440.
func (s Shift) EndMinutes() int {
	end := int(s.End)
	if end <= int(s.Start) {
		end += minutesPerDay
	}
	return end
}

// DurationHours returns the shift length in hours.
func (s Shift) DurationHours() float64 {
	return float64(s.EndMinutes()-int(s.Start)) / 60.0
}

// Overlaps reports whether two shifts on comparable dates occupy overlapping
// [start, end) intervals. Shifts on different dates are projected onto a
// shared minute axis so overnight spill into the next day is detected.
func (s Shift) Overlaps(o Shift) bool {
	dayDiff := int(dateOnly(o.Date).Sub(dateOnly(s.Date)).Hours() / 24)
	aStart, aEnd := int(s.Start), s.EndMinutes()
	bStart := int(o.Start) + dayDiff*minutesPerDay
	bEnd := o.EndMinutes() + dayDiff*minutesPerDay
	return aStart < bEnd && bStart < aEnd
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats a service date as the canonical map key.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

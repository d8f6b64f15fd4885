package model

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockTime is a facility-local time of day expressed in minutes since
// midnight. It carries no date or zone information; slots anchor on a
// canonical clock time regardless of the service date.
type ClockTime int

// ParseClock parses an "HH:MM" string into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockTime(h*60 + m), nil
}

// MustParseClock parses s and panics on error. Intended for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	m := int(c) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Minutes returns the raw minutes-since-midnight value.
func (c ClockTime) Minutes() int { return int(c) }

// AddMinutes returns the clock time shifted by d minutes, wrapped into a day.
func (c ClockTime) AddMinutes(d int) ClockTime {
	m := (int(c) + d) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return ClockTime(m)
}

// OffsetMinutes returns the signed distance in minutes from a to b, choosing
// the short way around midnight: any raw difference larger than half a day is
// wrapped, so 23:30 -> 00:30 is +60 rather than -1380.
func OffsetMinutes(a, b ClockTime) int {
	diff := int(b) - int(a)
	if diff > minutesPerDay/2 {
		diff -= minutesPerDay
	} else if diff < -minutesPerDay/2 {
		diff += minutesPerDay
	}
	return diff
}

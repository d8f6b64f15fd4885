// Package compliance evaluates proposed assignments against rolling
// Hours-of-Service windows and per-driver protected rules. Everything is
// computed fresh per call; no state survives between evaluations.
package compliance

import (
	"time"

	"github.com/Dshy007/milo/core/model"
)

// AssignmentSubject is the normalized shift shape validated here. Adapters
// build it from whatever the upstream store holds, keeping validation
// independent of any storage schema.
type AssignmentSubject struct {
	Start         time.Time
	End           time.Time
	DurationHours float64
	ContractClass model.ContractClass
	CycleID       string
	PatternGroup  string
}

// SubjectFromShift converts a clock-based shift into a subject. Overnight
// shifts roll the end timestamp into the next day.
func SubjectFromShift(s model.Shift, class model.ContractClass) AssignmentSubject {
	day := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
	start := day.Add(time.Duration(s.Start.Minutes()) * time.Minute)
	end := day.Add(time.Duration(s.EndMinutes()) * time.Minute)
	return AssignmentSubject{
		Start:         start,
		End:           end,
		DurationHours: s.DurationHours(),
		ContractClass: class,
	}
}

// RestHoursBetween returns the off-duty gap in hours between the end of
// earlier and the start of later, with overnight shifts projected onto a
// shared minute axis so midnight crossings do not inflate the gap.
func RestHoursBetween(earlier, later model.Shift) float64 {
	dayDiff := DaysBetween(earlier.Date, later.Date)
	laterStart := later.Start.Minutes() + dayDiff*24*60
	return float64(laterStart-earlier.EndMinutes()) / 60.0
}

// DaysBetween returns the calendar-day difference from a to b, ignoring the
// time of day.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

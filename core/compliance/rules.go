package compliance

import (
	"fmt"
	"time"

	"github.com/Dshy007/milo/core/model"
)

// ProtectedRule is a hard per-driver constraint negotiated outside the
// scheduler. Rules are evaluated before any duty-hours math and a single
// breach blocks the assignment outright. Zero-valued fields do not
// constrain.
type ProtectedRule struct {
	DriverID string

	BlockedDays    []time.Weekday
	AllowedDays    []time.Weekday
	AllowedClasses []model.ContractClass
	AllowedStarts  []model.ClockTime
	MaxStart       *model.ClockTime

	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time
}

// Active reports whether the rule applies on the given service date.
func (r ProtectedRule) Active(date time.Time) bool {
	if r.EffectiveFrom != nil && date.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveUntil != nil && date.After(*r.EffectiveUntil) {
		return false
	}
	return true
}

// EvaluateRules checks every active rule for the driver against the proposed
// subject and returns one message per breach. An empty slice means the
// assignment is allowed to proceed to duty-hours validation.
func EvaluateRules(rules []ProtectedRule, driverID string, subject AssignmentSubject) []string {
	day := subject.Start.Weekday()
	start := model.ClockTime(subject.Start.Hour()*60 + subject.Start.Minute())

	var breaches []string
	for _, r := range rules {
		if r.DriverID != driverID || !r.Active(subject.Start) {
			continue
		}
		for _, d := range r.BlockedDays {
			if d == day {
				breaches = append(breaches, fmt.Sprintf("driver %s is blocked on %s", driverID, day))
			}
		}
		if len(r.AllowedDays) > 0 && !containsDay(r.AllowedDays, day) {
			breaches = append(breaches, fmt.Sprintf("driver %s may only work %v", driverID, r.AllowedDays))
		}
		if len(r.AllowedClasses) > 0 && !containsClass(r.AllowedClasses, subject.ContractClass) {
			breaches = append(breaches, fmt.Sprintf("driver %s may not work %s blocks", driverID, subject.ContractClass))
		}
		if len(r.AllowedStarts) > 0 && !containsStart(r.AllowedStarts, start) {
			breaches = append(breaches, fmt.Sprintf("driver %s may not start at %s", driverID, start))
		}
		if r.MaxStart != nil && start > *r.MaxStart {
			breaches = append(breaches, fmt.Sprintf("driver %s must start by %s", driverID, *r.MaxStart))
		}
	}
	return breaches
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}

func containsClass(classes []model.ContractClass, c model.ContractClass) bool {
	for _, v := range classes {
		if v == c {
			return true
		}
	}
	return false
}

func containsStart(starts []model.ClockTime, s model.ClockTime) bool {
	for _, v := range starts {
		if v == s {
			return true
		}
	}
	return false
}

package compliance

import (
	"fmt"
	"time"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// Status grades a duty-hours evaluation.
type Status string

const (
	StatusValid     Status = "valid"
	StatusWarning   Status = "warning"
	StatusViolation Status = "violation"
)

// ValidationResult reports a duty-hours check. Metrics carries the raw
// numbers so callers can log or export them without recomputation.
type ValidationResult struct {
	Valid    bool
	Status   Status
	Messages []string
	Metrics  map[string]float64
}

// DutyProfile returns the duty-hour limit and lookback window, both in
// hours, for a contract class. Unknown classes get the stricter profile.
func DutyProfile(class model.ContractClass) (limit, lookback float64) {
	switch class {
	case model.ContractClassB:
		return policy.ClassBDutyLimitHours, policy.ClassBLookbackHours
	default:
		return policy.ClassADutyLimitHours, policy.ClassALookbackHours
	}
}

// ValidateDuty sums on-duty hours inside the rolling window ending at the
// proposed shift's start, clipping shifts that straddle the window edge, and
// grades the total against the class limit. The window is anchored at the
// proposed start rather than the wall clock, so a verdict depends only on
// the shifts involved, not on when the pass runs. Totals at or above 90% of
// the limit produce a warning; totals above the limit a violation.
func ValidateDuty(proposed AssignmentSubject, existing []AssignmentSubject) ValidationResult {
	limit, lookback := DutyProfile(proposed.ContractClass)
	windowStart := proposed.Start.Add(-time.Duration(lookback * float64(time.Hour)))

	var logged float64
	for _, sub := range existing {
		logged += clippedHours(sub, windowStart, proposed.Start)
	}
	total := logged + proposed.DurationHours

	res := ValidationResult{
		Valid:  true,
		Status: StatusValid,
		Metrics: map[string]float64{
			"loggedHours":   logged,
			"proposedHours": proposed.DurationHours,
			"totalHours":    total,
			"limitHours":    limit,
			"lookbackHours": lookback,
			"utilization":   total / limit,
		},
	}

	switch {
	case total > limit:
		res.Valid = false
		res.Status = StatusViolation
		res.Messages = append(res.Messages, fmt.Sprintf(
			"duty hours %.1f exceed the %.0fh limit over the trailing %.0fh", total, limit, lookback))
	case total >= limit*policy.HOSWarningRatio:
		res.Status = StatusWarning
		res.Messages = append(res.Messages, fmt.Sprintf(
			"duty hours %.1f at %.1f%% of the %.0fh limit", total, 100*total/limit, limit))
	}
	return res
}

// clippedHours returns the portion of the subject falling inside
// [windowStart, windowEnd), in hours.
func clippedHours(sub AssignmentSubject, windowStart, windowEnd time.Time) float64 {
	start, end := sub.Start, sub.End
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

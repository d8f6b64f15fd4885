package compliance

import (
	"github.com/Dshy007/milo/core/logger"
)

// Validator runs the full compliance pipeline for one driver: protected
// rules first as a hard stop, then rolling duty-hours validation.
type Validator struct {
	Rules []ProtectedRule
	Log   logger.Logger
}

// NewValidator returns a validator over the given rule set.
func NewValidator(rules []ProtectedRule, log logger.Logger) *Validator {
	return &Validator{Rules: rules, Log: log}
}

// Check evaluates a proposed assignment. Protected-rule breaches short
// circuit with a violation before any duty-hours math runs.
func (v *Validator) Check(driverID string, proposed AssignmentSubject, existing []AssignmentSubject) ValidationResult {
	if breaches := EvaluateRules(v.Rules, driverID, proposed); len(breaches) > 0 {
		v.Log.Debugf("compliance: driver %s blocked by protected rule: %s", driverID, breaches[0])
		return ValidationResult{
			Valid:    false,
			Status:   StatusViolation,
			Messages: breaches,
		}
	}

	res := ValidateDuty(proposed, existing)
	if res.Status == StatusWarning {
		v.Log.Warnf("compliance: driver %s near duty limit: %s", driverID, res.Messages[0])
	}
	return res
}

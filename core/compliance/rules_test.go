package compliance

import (
	"testing"
	"time"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/infra/logger"
)

func monday8am() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
}

func TestEvaluateRules_BlockedDay(t *testing.T) {
	rules := []ProtectedRule{{DriverID: "d1", BlockedDays: []time.Weekday{time.Monday}}}
	sub := subject(model.ContractClassA, monday8am(), 8)
	if got := EvaluateRules(rules, "d1", sub); len(got) != 1 {
		t.Fatalf("Monday shift against a Monday block must breach, got %v", got)
	}
	if got := EvaluateRules(rules, "d2", sub); len(got) != 0 {
		t.Fatalf("rules are per driver, got %v", got)
	}
}

func TestEvaluateRules_AllowedDaysAndClasses(t *testing.T) {
	rules := []ProtectedRule{{
		DriverID:       "d1",
		AllowedDays:    []time.Weekday{time.Tuesday, time.Wednesday},
		AllowedClasses: []model.ContractClass{model.ContractClassB},
	}}
	sub := subject(model.ContractClassA, monday8am(), 8)
	got := EvaluateRules(rules, "d1", sub)
	if len(got) != 2 {
		t.Fatalf("expected day and class breaches, got %v", got)
	}
}

func TestEvaluateRules_StartTimes(t *testing.T) {
	maxStart := model.MustParseClock("07:00")
	rules := []ProtectedRule{
		{DriverID: "d1", AllowedStarts: []model.ClockTime{model.MustParseClock("06:00")}},
		{DriverID: "d2", MaxStart: &maxStart},
	}
	sub := subject(model.ContractClassA, monday8am(), 8)
	if got := EvaluateRules(rules, "d1", sub); len(got) != 1 {
		t.Fatalf("08:00 is not an allowed start, got %v", got)
	}
	if got := EvaluateRules(rules, "d2", sub); len(got) != 1 {
		t.Fatalf("08:00 is past the 07:00 latest start, got %v", got)
	}
}

func TestEvaluateRules_EffectiveRange(t *testing.T) {
	until := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rules := []ProtectedRule{{
		DriverID:       "d1",
		BlockedDays:    []time.Weekday{time.Monday},
		EffectiveUntil: &until,
	}}
	sub := subject(model.ContractClassA, monday8am(), 8)
	if got := EvaluateRules(rules, "d1", sub); len(got) != 0 {
		t.Fatalf("expired rule must not breach, got %v", got)
	}
}

func TestValidator_RulesShortCircuitDutyCheck(t *testing.T) {
	v := NewValidator([]ProtectedRule{{DriverID: "d1", BlockedDays: []time.Weekday{time.Monday}}}, logger.NopLogger{})
	// Duty hours alone would pass; the rule alone must block.
	res := v.Check("d1", subject(model.ContractClassA, monday8am(), 2), nil)
	if res.Valid || res.Status != StatusViolation {
		t.Fatalf("protected rule must hard-stop before duty math, got %s", res.Status)
	}
	if res.Metrics != nil {
		t.Fatal("short-circuited checks must not compute duty metrics")
	}
}

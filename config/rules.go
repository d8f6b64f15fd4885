package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dshy007/milo/core/compliance"
	"github.com/Dshy007/milo/core/model"
)

// RuleConfig is one protected rule as written in the config file. Days are
// English weekday names, times are HH:MM, dates are 2006-01-02.
type RuleConfig struct {
	DriverID       string   `json:"driver_id"`
	BlockedDays    []string `json:"blocked_days"`
	AllowedDays    []string `json:"allowed_days"`
	AllowedClasses []string `json:"allowed_classes"`
	AllowedStarts  []string `json:"allowed_starts"`
	MaxStart       string   `json:"max_start"`
	EffectiveFrom  string   `json:"effective_from"`
	EffectiveUntil string   `json:"effective_until"`
}

// RulesConfig holds all protected rules.
type RulesConfig struct {
	Protected []RuleConfig `json:"protected"`
}

// Validate parses every rule, surfacing the first malformed field.
func (c RulesConfig) Validate() error {
	_, err := c.Build()
	return err
}

// Build converts the raw rules into their evaluated form.
func (c RulesConfig) Build() ([]compliance.ProtectedRule, error) {
	rules := make([]compliance.ProtectedRule, 0, len(c.Protected))
	for i, rc := range c.Protected {
		if rc.DriverID == "" {
			return nil, fmt.Errorf("rules.protected[%d]: driver_id is required", i)
		}
		r := compliance.ProtectedRule{DriverID: rc.DriverID}

		var err error
		if r.BlockedDays, err = parseDays(rc.BlockedDays); err != nil {
			return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
		}
		if r.AllowedDays, err = parseDays(rc.AllowedDays); err != nil {
			return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
		}
		for _, cls := range rc.AllowedClasses {
			parsed, err := model.ParseContractClass(cls)
			if err != nil {
				return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
			}
			r.AllowedClasses = append(r.AllowedClasses, parsed)
		}
		for _, s := range rc.AllowedStarts {
			ct, err := model.ParseClock(s)
			if err != nil {
				return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
			}
			r.AllowedStarts = append(r.AllowedStarts, ct)
		}
		if rc.MaxStart != "" {
			ct, err := model.ParseClock(rc.MaxStart)
			if err != nil {
				return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
			}
			r.MaxStart = &ct
		}
		if r.EffectiveFrom, err = parseDate(rc.EffectiveFrom); err != nil {
			return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
		}
		if r.EffectiveUntil, err = parseDate(rc.EffectiveUntil); err != nil {
			return nil, fmt.Errorf("rules.protected[%d]: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func parseDays(names []string) ([]time.Weekday, error) {
	byName := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	var days []time.Weekday
	for _, n := range names {
		d, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		days = append(days, d)
	}
	return days, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", s, err)
	}
	return &t, nil
}

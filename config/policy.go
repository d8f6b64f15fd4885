package config

import "fmt"

// memoryWindows are the supported history lookback sizes, in weeks.
var memoryWindows = map[int]bool{3: true, 5: true, 7: true, 9: true, 12: true}

// PolicyConfig tunes the scoring and constraint behavior of a planning pass.
type PolicyConfig struct {
	// Predictability weighs learned ownership against day availability,
	// in [0,1].
	Predictability float64 `json:"predictability"`
	// TimeFlexibilityHours is the bump search radius around a canonical
	// start time, 0 to 4.
	TimeFlexibilityHours int `json:"time_flexibility_hours"`
	// MemoryWeeks is the history lookback for the in-process oracle.
	MemoryWeeks int `json:"memory_weeks"`
	// MinRestHours is the minimum off-duty gap between shifts.
	MinRestHours float64 `json:"min_rest_hours"`
	// MinDaysPerDriver is the soft weekly floor passed to the solver.
	MinDaysPerDriver int `json:"min_days_per_driver"`
}

// SetDefaults fills in the defaults. Load calls it before unmarshalling,
// so explicit values in the file, zero included, take precedence.
func (c *PolicyConfig) SetDefaults() {
	c.Predictability = 0.5
	c.TimeFlexibilityHours = 2
	c.MemoryWeeks = 5
	c.MinRestHours = 10
	c.MinDaysPerDriver = 3
}

// Validate checks the tuning ranges.
func (c PolicyConfig) Validate() error {
	if c.Predictability < 0 || c.Predictability > 1 {
		return fmt.Errorf("predictability %v out of [0,1]", c.Predictability)
	}
	if c.TimeFlexibilityHours < 0 || c.TimeFlexibilityHours > 4 {
		return fmt.Errorf("time_flexibility_hours %d out of [0,4]", c.TimeFlexibilityHours)
	}
	if !memoryWindows[c.MemoryWeeks] {
		return fmt.Errorf("memory_weeks %d not one of 3, 5, 7, 9, 12", c.MemoryWeeks)
	}
	if c.MinRestHours < 0 {
		return fmt.Errorf("min_rest_hours %v negative", c.MinRestHours)
	}
	return nil
}

package config

import "fmt"

// OracleConfig selects the prediction engine. Mode "history" runs the
// in-process engine over assignment history; "exec" shells out to an
// external command.
type OracleConfig struct {
	Mode           string   `json:"mode"`
	Command        string   `json:"command"`
	Args           []string `json:"args"`
	TimeoutSeconds int      `json:"timeout_seconds"`
}

// SetDefaults fills in the defaults; Load calls it before unmarshalling.
func (c *OracleConfig) SetDefaults() {
	c.Mode = "history"
	c.TimeoutSeconds = 5
}

// Validate checks the engine selection.
func (c OracleConfig) Validate() error {
	switch c.Mode {
	case "history":
	case "exec":
		if c.Command == "" {
			return fmt.Errorf("oracle mode exec requires a command")
		}
	default:
		return fmt.Errorf("unknown oracle mode %s", c.Mode)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("oracle timeout_seconds must be positive")
	}
	return nil
}

// SolverConfig selects the assignment solver. Mode "ranked" is the built-in
// deterministic pass; "exec" delegates to an external optimizer.
type SolverConfig struct {
	Mode           string   `json:"mode"`
	Command        string   `json:"command"`
	Args           []string `json:"args"`
	TimeoutSeconds int      `json:"timeout_seconds"`
}

// SetDefaults fills in the defaults; Load calls it before unmarshalling.
func (c *SolverConfig) SetDefaults() {
	c.Mode = "ranked"
	c.TimeoutSeconds = 30
}

// Validate checks the solver selection.
func (c SolverConfig) Validate() error {
	switch c.Mode {
	case "ranked":
	case "exec":
		if c.Command == "" {
			return fmt.Errorf("solver mode exec requires a command")
		}
	default:
		return fmt.Errorf("unknown solver mode %s", c.Mode)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("solver timeout_seconds must be positive")
	}
	return nil
}

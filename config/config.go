// Package config loads and validates the planner configuration from YAML or
// JSON files, with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Dshy007/milo/core/factory"
)

// Config is the full planner configuration.
type Config struct {
	Policy  PolicyConfig  `json:"policy"`
	Oracle  OracleConfig  `json:"oracle"`
	Solver  SolverConfig  `json:"solver"`
	Metrics MetricsConfig `json:"metrics"`
	Rules   RulesConfig   `json:"rules"`
}

// MetricsConfig lists the telemetry sinks to build.
type MetricsConfig struct {
	Sinks []factory.Spec `json:"sinks"`
}

// Load reads the file at path and applies environment overrides. Variables
// prefixed with K_ override keys, with __ standing in for dots, so
// K_POLICY__MEMORY_WEEKS=7 overrides policy.memory_weeks.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	// Defaults are primed before unmarshalling: only keys present in the
	// file or environment overwrite them, so an explicit zero (a legal
	// predictability or flexibility value) survives loading.
	var cfg Config
	cfg.Policy.SetDefaults()
	cfg.Oracle.SetDefaults()
	cfg.Solver.SetDefaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Oracle.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

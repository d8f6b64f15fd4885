// Package app wires configuration into a runnable planning service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Dshy007/milo/config"
	"github.com/Dshy007/milo/core/bump"
	"github.com/Dshy007/milo/core/compliance"
	"github.com/Dshy007/milo/core/constraint"
	coremetrics "github.com/Dshy007/milo/core/metrics"
	"github.com/Dshy007/milo/core/oracle"
	"github.com/Dshy007/milo/core/planner"
	"github.com/Dshy007/milo/core/scoring"
	"github.com/Dshy007/milo/core/solver"
	"github.com/Dshy007/milo/infra/logger"
	_ "github.com/Dshy007/milo/infra/metrics" // registers sink builders
	infraoracle "github.com/Dshy007/milo/infra/oracle"
	infrasolver "github.com/Dshy007/milo/infra/solver"
	"github.com/Dshy007/milo/internal/eventbus"
)

// Service holds a configured planning stack.
type Service struct {
	cfg   *config.Config
	sink  coremetrics.MetricsSink
	bus   *eventbus.Bus[any]
	log   logger.Logger
	rules []compliance.ProtectedRule
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	rules, err := cfg.Rules.Build()
	if err != nil {
		return nil, fmt.Errorf("protected rules: %w", err)
	}
	return &Service{
		cfg:   cfg,
		sink:  sink,
		bus:   eventbus.New[any](),
		log:   logger.New("service"),
		rules: rules,
	}, nil
}

// Bus exposes the planning event stream.
func (s *Service) Bus() *eventbus.Bus[any] { return s.bus }

// RunPass executes one planning pass over the input.
func (s *Service) RunPass(ctx context.Context, in planner.PassInput) (planner.PassResult, error) {
	p, err := s.buildPlanner(in)
	if err != nil {
		return planner.PassResult{}, err
	}
	return p.Run(ctx, in)
}

func (s *Service) buildPlanner(in planner.PassInput) (*planner.Planner, error) {
	engine, err := s.buildOracle(in)
	if err != nil {
		return nil, err
	}
	sv, err := s.buildSolver()
	if err != nil {
		return nil, err
	}

	pol := s.cfg.Policy
	return planner.NewPlanner(planner.Deps{
		Oracle:           engine,
		Scorer:           scoring.NewScorer(pol.Predictability, logger.New("scoring")),
		Bumper:           bump.NewResolver(pol.TimeFlexibilityHours, logger.New("bump")),
		Filter:           constraint.NewFilter(pol.MinRestHours, logger.New("constraint")),
		Validator:        compliance.NewValidator(s.rules, logger.New("compliance")),
		Solver:           sv,
		Sink:             s.sink,
		Bus:              s.bus,
		Log:              logger.New("planner"),
		MinDaysPerDriver: pol.MinDaysPerDriver,
	})
}

func (s *Service) buildOracle(in planner.PassInput) (oracle.Engine, error) {
	timeout := time.Duration(s.cfg.Oracle.TimeoutSeconds) * time.Second
	switch s.cfg.Oracle.Mode {
	case "exec":
		engine := infraoracle.NewExecEngine(s.cfg.Oracle.Command, s.cfg.Oracle.Args, timeout)
		return oracle.NewGuard(engine, timeout, logger.New("oracle")), nil
	case "history":
		engine := oracle.NewHistoryEngine(in.Histories, s.cfg.Policy.MemoryWeeks, time.Now())
		return oracle.NewGuard(engine, timeout, logger.New("oracle")), nil
	default:
		return nil, fmt.Errorf("unknown oracle mode %s", s.cfg.Oracle.Mode)
	}
}

func (s *Service) buildSolver() (solver.Solver, error) {
	switch s.cfg.Solver.Mode {
	case "exec":
		timeout := time.Duration(s.cfg.Solver.TimeoutSeconds) * time.Second
		return infrasolver.NewExecSolver(s.cfg.Solver.Command, s.cfg.Solver.Args, timeout), nil
	case "ranked":
		return solver.NewRanked(logger.New("solver")), nil
	default:
		return nil, fmt.Errorf("unknown solver mode %s", s.cfg.Solver.Mode)
	}
}

// Close releases the event bus.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}

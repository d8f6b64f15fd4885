// Package solver turns per-slot driver rankings into a final assignment set.
// The default solver is a deterministic ranked-choice pass; global
// optimization can be delegated to an external process implementing the same
// contract.
package solver

import (
	"context"

	"github.com/Dshy007/milo/core/model"
)

// Request is the full input to one solve: the open slots, the candidate
// pool and the ranked scores the scorer produced for each slot. This is the
// in-process shape; the subprocess client under infra/solver flattens the
// rankings to a score matrix on the wire.
type Request struct {
	Slots    []model.Slot
	Drivers  []model.Driver
	Rankings map[string][]model.DriverScore

	// MinDaysPerDriver is the soft floor the solver should try to honor
	// when breaking ties between equally scored candidates.
	MinDaysPerDriver int
}

// SlotAssignment binds one slot to one driver with the score that won it.
type SlotAssignment struct {
	SlotID   string                 `json:"slotId"`
	DriverID string                 `json:"driverId"`
	Score    float64                `json:"score"`
	Method   model.AssignmentMethod `json:"method"`
	Reason   string                 `json:"reason,omitempty"`
}

// Stats summarizes a solve.
type Stats struct {
	Assigned   int     `json:"assigned"`
	Unassigned int     `json:"unassigned"`
	MeanScore  float64 `json:"meanScore"`
}

// Response is the solver output: assignments, the slot IDs that could not
// be placed, and summary stats.
type Response struct {
	Assignments []SlotAssignment `json:"assignments"`
	Unassigned  []string         `json:"unassigned"`
	Stats       Stats            `json:"stats"`
}

// Solver produces an assignment set from ranked scores.
type Solver interface {
	Solve(ctx context.Context, req Request) (Response, error)
}

// Func adapts a plain function to the Solver interface.
type Func func(ctx context.Context, req Request) (Response, error)

// Solve implements Solver.
func (f Func) Solve(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

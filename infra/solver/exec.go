// Package solver provides the subprocess client for an external assignment
// solver speaking JSON over stdin/stdout.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/Dshy007/milo/core/model"
	coresolver "github.com/Dshy007/milo/core/solver"
	"github.com/Dshy007/milo/infra/logger"
)

// execRequest is the wire shape an external optimizer receives: a flat score
// matrix rather than the ordered rankings used in process. The response is
// an assignment list; a slot absent from it stays unassigned.
type execRequest struct {
	Slots            []model.Slot                  `json:"slots"`
	Drivers          []model.Driver                `json:"drivers"`
	ScoreMatrix      map[string]map[string]float64 `json:"scoreMatrix"`
	MinDaysPerDriver int                           `json:"minDaysPerDriver"`
}

// ExecSolver shells out to an external optimizer. The full request is
// written to stdin and the child must print a single response document.
type ExecSolver struct {
	Command string
	Args    []string
	Timeout time.Duration
	Log     logger.Logger
}

// NewExecSolver returns a solver invoking the given command.
func NewExecSolver(command string, args []string, timeout time.Duration) *ExecSolver {
	return &ExecSolver{
		Command: command,
		Args:    args,
		Timeout: timeout,
		Log:     logger.New("solver-exec"),
	}
}

// Solve implements solver.Solver.
func (s *ExecSolver) Solve(ctx context.Context, req coresolver.Request) (coresolver.Response, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	matrix := make(map[string]map[string]float64, len(req.Rankings))
	for slotID, ranking := range req.Rankings {
		row := make(map[string]float64, len(ranking))
		for _, r := range ranking {
			row[r.DriverID] = r.Score
		}
		matrix[slotID] = row
	}
	payload, err := json.Marshal(execRequest{
		Slots:            req.Slots,
		Drivers:          req.Drivers,
		ScoreMatrix:      matrix,
		MinDaysPerDriver: req.MinDaysPerDriver,
	})
	if err != nil {
		return coresolver.Response{}, fmt.Errorf("solver request encode: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := stderr.String(); msg != "" {
			s.Log.Warnf("solver command stderr: %s", msg)
		}
		return coresolver.Response{}, fmt.Errorf("solver command %s: %w", s.Command, err)
	}
	s.Log.Debugf("external solve finished in %s", time.Since(start))

	var resp coresolver.Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return coresolver.Response{}, fmt.Errorf("solver response decode: %w", err)
	}

	// An optimizer may return bare slot/driver pairs; fill score, method and
	// reason back in from the rankings it was given.
	for i := range resp.Assignments {
		a := &resp.Assignments[i]
		if a.Method != "" {
			continue
		}
		a.Method = model.MethodDirect
		for _, r := range req.Rankings[a.SlotID] {
			if r.DriverID == a.DriverID {
				a.Score = r.Score
				if r.Method != "" {
					a.Method = r.Method
				}
				a.Reason = r.Reason
				break
			}
		}
	}
	return resp, nil
}

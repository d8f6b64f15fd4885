// Package oracle provides the subprocess client for an external prediction
// service speaking newline-delimited JSON over stdin/stdout.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/Dshy007/milo/core/model"
	coreoracle "github.com/Dshy007/milo/core/oracle"
	"github.com/Dshy007/milo/infra/logger"
)

// ExecEngine invokes an external oracle command once per prediction. The
// request is written to the child's stdin as a single JSON document and the
// response is read from its stdout.
type ExecEngine struct {
	Command string
	Args    []string
	Timeout time.Duration
	Log     logger.Logger
}

// NewExecEngine returns an engine invoking the given command.
func NewExecEngine(command string, args []string, timeout time.Duration) *ExecEngine {
	return &ExecEngine{
		Command: command,
		Args:    args,
		Timeout: timeout,
		Log:     logger.New("oracle-exec"),
	}
}

// PredictOwnership implements oracle.Engine.
func (e *ExecEngine) PredictOwnership(ctx context.Context, slot model.Slot) (coreoracle.Ownership, error) {
	req := coreoracle.Request{
		Action:        coreoracle.ActionOwnership,
		ContractClass: slot.ContractClass,
		ResourceID:    slot.ResourceID,
		DayOfWeek:     int(slot.Day),
		CanonicalTime: slot.CanonicalStart.String(),
	}
	var resp coreoracle.Ownership
	if err := e.call(ctx, req, &resp); err != nil {
		return coreoracle.Ownership{}, err
	}
	return resp, nil
}

// PredictAvailability implements oracle.Engine.
func (e *ExecEngine) PredictAvailability(ctx context.Context, driverID string, date time.Time) (float64, error) {
	req := coreoracle.Request{
		Action:      coreoracle.ActionAvailability,
		DriverID:    driverID,
		DayOfWeek:   int(date.Weekday()),
		ServiceDate: model.DateKey(date),
	}
	var resp struct {
		Probability float64 `json:"probability"`
	}
	if err := e.call(ctx, req, &resp); err != nil {
		return 0, err
	}
	return resp.Probability, nil
}

// PredictPattern implements oracle.Engine.
func (e *ExecEngine) PredictPattern(ctx context.Context, driverID string) (int, error) {
	req := coreoracle.Request{
		Action:   coreoracle.ActionPattern,
		DriverID: driverID,
	}
	var resp struct {
		TypicalDaysPerWeek int `json:"typicalDaysPerWeek"`
	}
	if err := e.call(ctx, req, &resp); err != nil {
		return 0, err
	}
	return resp.TypicalDaysPerWeek, nil
}

func (e *ExecEngine) call(ctx context.Context, req any, out any) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("oracle request encode: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if s := stderr.String(); s != "" {
			e.Log.Warnf("oracle command stderr: %s", s)
		}
		return fmt.Errorf("oracle command %s: %w", e.Command, err)
	}
	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("oracle response decode: %w", err)
	}
	return nil
}

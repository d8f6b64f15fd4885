package oracle

import (
	"context"
	"time"

	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// Guard wraps an Engine with a per-call timeout and substitutes documented
// neutral defaults on failure, so one slow or broken oracle call degrades a
// single prediction instead of stalling the whole planning pass.
type Guard struct {
	Engine  Engine
	Timeout time.Duration
	Log     logger.Logger
}

// NewGuard returns a Guard with a default five second timeout.
func NewGuard(e Engine, timeout time.Duration, log logger.Logger) *Guard {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Guard{Engine: e, Timeout: timeout, Log: log}
}

func (g *Guard) PredictOwnership(ctx context.Context, slot model.Slot) (Ownership, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	own, err := g.Engine.PredictOwnership(ctx, slot)
	if err != nil {
		g.Log.Warnf("oracle ownership for %s failed, using neutral share: %v", slot.ID, err)
		return Ownership{Share: policy.NeutralShare}, nil
	}
	return own, nil
}

func (g *Guard) PredictAvailability(ctx context.Context, driverID string, date time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	p, err := g.Engine.PredictAvailability(ctx, driverID, date)
	if err != nil {
		g.Log.Warnf("oracle availability for %s failed, using neutral %.2f: %v", driverID, policy.NeutralAvailability, err)
		return policy.NeutralAvailability, nil
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p, nil
}

func (g *Guard) PredictPattern(ctx context.Context, driverID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	n, err := g.Engine.PredictPattern(ctx, driverID)
	if err != nil {
		g.Log.Warnf("oracle pattern for %s failed, treating as unknown: %v", driverID, err)
		return 0, nil
	}
	return n, nil
}

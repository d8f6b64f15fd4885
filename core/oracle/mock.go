package oracle

import (
	"context"
	"time"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// MockEngine returns deterministic predictions for tests.
type MockEngine struct {
	Ownerships   map[string]Ownership // keyed by Slot.Key()
	Availability map[string]float64   // keyed by driver ID
	Patterns     map[string]int       // keyed by driver ID
	Err          error
}

// PredictOwnership returns the configured distribution or an empty one.
func (m MockEngine) PredictOwnership(_ context.Context, slot model.Slot) (Ownership, error) {
	if m.Err != nil {
		return Ownership{}, m.Err
	}
	if o, ok := m.Ownerships[slot.Key()]; ok {
		return o, nil
	}
	return Ownership{Share: policy.NeutralShare}, nil
}

// PredictAvailability returns the configured probability or the neutral default.
func (m MockEngine) PredictAvailability(_ context.Context, driverID string, _ time.Time) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if p, ok := m.Availability[driverID]; ok {
		return p, nil
	}
	return policy.NeutralAvailability, nil
}

// PredictPattern returns the configured pattern or zero.
func (m MockEngine) PredictPattern(_ context.Context, driverID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Patterns[driverID], nil
}

// Package oracle defines the contract with the learned scoring service that
// produces slot-ownership and day-availability probabilities from history.
// The core never assumes a transport; implementations range from the
// in-process HistoryEngine to the subprocess client under infra/oracle.
package oracle

import (
	"context"
	"time"

	"github.com/Dshy007/milo/core/model"
)

// Action identifies the kind of prediction requested from the oracle.
type Action string

const (
	ActionOwnership    Action = "ownership"
	ActionAvailability Action = "availability"
	ActionPattern      Action = "pattern"
)

// Request is the wire shape sent to an external oracle.
type Request struct {
	Action        Action              `json:"action"`
	ContractClass model.ContractClass `json:"contractClass"`
	ResourceID    string              `json:"resourceId,omitempty"`
	DayOfWeek     int                 `json:"dayOfWeek"`
	CanonicalTime string              `json:"canonicalTime,omitempty"`
	DriverID      string              `json:"driverId,omitempty"`
	ServiceDate   string              `json:"serviceDate,omitempty"`
}

// Ownership is the oracle's historical ownership summary for one slot.
type Ownership struct {
	OwnerID       string             `json:"ownerId,omitempty"`
	Share         float64            `json:"share"`
	ShareByDriver map[string]float64 `json:"distribution,omitempty"`
	Observations  int                `json:"totalObservations"`
}

// Engine produces predictions for the planning pass.
type Engine interface {
	// PredictOwnership returns the ownership distribution for the slot's
	// recurring identity.
	PredictOwnership(ctx context.Context, slot model.Slot) (Ownership, error)

	// PredictAvailability returns the probability [0,1] that the driver
	// works on the given date.
	PredictAvailability(ctx context.Context, driverID string, date time.Time) (float64, error)

	// PredictPattern returns the driver's typical days worked per week.
	// Zero means no established pattern.
	PredictPattern(ctx context.Context, driverID string) (int, error)
}

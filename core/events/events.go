// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PassStarted: a planning pass began
//   - SlotScored: a slot's candidate ranking was produced
//   - BumpResolved: an owner was relocated or fell back
//   - HardStop: an assignment was blocked by compliance or constraints
//   - PassCompleted: final accounting for a pass
package events

import (
	"time"

	"github.com/Dshy007/milo/core/model"
)

// PassStarted is published when a planning pass begins.
type PassStarted struct {
	PassID string
	Slots  int
	At     time.Time
}

// SlotScored is published once per slot with the winning candidate and
// whether the ranking fell back to backups.
type SlotScored struct {
	PassID        string
	SlotID        string
	Top           model.DriverScore
	Candidates    int
	BackupRanking bool
}

// BumpResolved is published when a taken home slot forced a relocation.
// Method distinguishes a successful bump from a discounted fallback.
type BumpResolved struct {
	PassID      string
	SlotID      string
	DriverID    string
	Method      model.AssignmentMethod
	BumpMinutes int
}

// HardStop is published when compliance or a structural constraint rejects
// a proposed assignment outright.
type HardStop struct {
	PassID   string
	SlotID   string
	DriverID string
	Reason   string
}

// PassCompleted is published with the final tally for a pass.
type PassCompleted struct {
	PassID     string
	Assigned   int
	Unassigned int
	Dropped    int
	Duration   time.Duration
}

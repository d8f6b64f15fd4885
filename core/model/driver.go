package model

import "time"

// Driver represents one member of the fleet roster.
type Driver struct {
	ID            string
	Name          string
	ContractClass ContractClass

	// TypicalDaysPerWeek is the learned weekly work pattern. Zero means no
	// established pattern; the fairness floor applies instead.
	TypicalDaysPerWeek int
}

// AssignmentRecord is one entry of a driver's bounded assignment history.
type AssignmentRecord struct {
	DriverID      string
	SlotID        string
	ContractClass ContractClass
	ResourceID    string
	ServiceDate   time.Time
	Day           time.Weekday
	Start         ClockTime
}

// AssignmentMethod describes how a slot/driver pairing was produced.
type AssignmentMethod string

const (
	// MethodDirect scores the slot's natural owner or roster candidates.
	MethodDirect AssignmentMethod = "direct"
	// MethodBumped relocates an owner to a sibling slot within the
	// flexibility window.
	MethodBumped AssignmentMethod = "bumped"
	// MethodFallback is a heavily discounted last-resort candidate emitted
	// when no open sibling exists in the window.
	MethodFallback AssignmentMethod = "fallback"
)

// DriverScore is one candidate evaluation for one slot.
type DriverScore struct {
	DriverID           string
	Score              float64
	OwnershipComponent float64
	BumpPenalty        float64
	BumpMinutes        int
	Method             AssignmentMethod
	Reason             string
}

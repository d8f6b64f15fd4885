// Package policy centralizes the numeric defaults and thresholds used across
// scoring, bumping, filtering and compliance so tests can assert on them
// directly instead of chasing literals through the pipeline.
package policy

const (
	// OwnedShareThreshold classifies a slot as owned when one driver holds
	// at least this share of the in-window observations.
	OwnedShareThreshold = 0.70

	// NeutralAvailability substitutes for a missing or failed availability
	// prediction.
	NeutralAvailability = 0.5
	// NeutralShare substitutes for a missing ownership prediction.
	NeutralShare = 0.0
	// DefaultConsistency applies to drivers with fewer than two history
	// records.
	DefaultConsistency = 0.5

	// FairnessFloorDays is the minimum weekly day cap regardless of pattern.
	FairnessFloorDays = 4
	// SafetyCapDays is the maximum weekly day cap regardless of pattern.
	SafetyCapDays = 6

	// DefaultMinRestHours is the minimum gap between shifts on adjacent days.
	DefaultMinRestHours = 10.0

	// DistancePenaltyPerHour is subtracted per hour of bump offset.
	DistancePenaltyPerHour = 0.1
	// ConflictPenaltyTaken applies to sibling slots already assigned.
	ConflictPenaltyTaken = 0.5
	// ConflictPenaltyOwned applies to open sibling slots owned by another
	// driver.
	ConflictPenaltyOwned = 0.2
	// FallbackDiscount is the flat score reduction for the last-resort
	// candidate emitted when no open sibling exists in the window.
	FallbackDiscount = 0.70

	// OwnerAvailabilityFloor flags a slot for backup ranking when its owner
	// is predicted available below this probability.
	OwnerAvailabilityFloor = 0.5
	// UnavailableOwnerScore is the near-zero score forced on an owner whose
	// availability fell under the floor.
	UnavailableOwnerScore = 0.01

	// MaxInflightOracleCalls bounds concurrent oracle requests per pass.
	MaxInflightOracleCalls = 10

	// MinRecordsForPatternDay: a weekday only counts toward the learned
	// pattern once the driver has this many assignments on it.
	MinRecordsForPatternDay = 2
)

// Hours-of-Service duty profiles.
const (
	ClassADutyLimitHours = 14.0
	ClassALookbackHours  = 24.0
	ClassBDutyLimitHours = 38.0
	ClassBLookbackHours  = 48.0

	// HOSWarningRatio marks totals at or above this fraction of the limit
	// as warnings.
	HOSWarningRatio = 0.90
)

package model

// Classification describes how a slot has historically been staffed.
type Classification string

const (
	// ClassificationOwned means a single driver holds the dominant share of
	// the slot's history.
	ClassificationOwned Classification = "owned"
	// ClassificationRotating means no driver dominates; fairness drives
	// candidate ranking instead of ownership.
	ClassificationRotating Classification = "rotating"
	// ClassificationUnknown means there are no usable observations.
	ClassificationUnknown Classification = "unknown"
)

// SlotDistribution summarizes the historical ownership of one recurring slot.
// It is derived data, recomputed per query from the bounded memory window.
type SlotDistribution struct {
	Classification    Classification
	OwnerID           string
	OwnerShare        float64
	ShareByDriver     map[string]float64
	TotalObservations int
}

// Owned reports whether the slot has a dominant owner.
func (d SlotDistribution) Owned() bool {
	return d.Classification == ClassificationOwned
}

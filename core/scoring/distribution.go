package scoring

import (
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/oracle"
	"github.com/Dshy007/milo/core/policy"
)

// BuildDistribution turns an oracle ownership summary into a classified slot
// distribution. A slot is owned when one driver holds at least
// policy.OwnedShareThreshold of the in-window observations, rotating
// otherwise, and unknown without any observations.
func BuildDistribution(own oracle.Ownership) model.SlotDistribution {
	dist := model.SlotDistribution{
		OwnerID:           own.OwnerID,
		OwnerShare:        own.Share,
		ShareByDriver:     own.ShareByDriver,
		TotalObservations: own.Observations,
	}
	switch {
	case own.Observations == 0:
		dist.Classification = model.ClassificationUnknown
	case own.Share >= policy.OwnedShareThreshold:
		dist.Classification = model.ClassificationOwned
	default:
		dist.Classification = model.ClassificationRotating
		dist.OwnerID = ""
	}
	return dist
}

// Package bump relocates a slot owner to a nearby sibling slot when their
// home slot is already taken, trading time distance and conflicts against the
// owner's base score.
package bump

import (
	"fmt"
	"math"
	"sort"

	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// Sibling is one candidate slot sharing the home slot's contract class and
// weekday.
type Sibling struct {
	Slot         model.Slot
	Taken        bool
	Distribution model.SlotDistribution
}

// Candidate is a scored relocation option within the flexibility window.
type Candidate struct {
	Slot            model.Slot
	OffsetMinutes   int
	DistancePenalty float64
	ConflictPenalty float64
	Open            bool
	Score           float64
}

// Resolution is the outcome of a bump search. Selected is always populated:
// when no open sibling exists in the window it degrades to a fallback
// candidate on the home slot, heavily discounted but still schedulable.
type Resolution struct {
	Candidates []Candidate
	Selected   model.DriverScore
}

// Resolver searches sibling slots within ±FlexibilityHours of the canonical
// start time.
type Resolver struct {
	FlexibilityHours int
	Log              logger.Logger
}

// NewResolver returns a resolver for the given flexibility window.
func NewResolver(flexibilityHours int, log logger.Logger) *Resolver {
	return &Resolver{FlexibilityHours: flexibilityHours, Log: log}
}

// Resolve enumerates siblings of the home slot, keeps those within the
// window, and ranks them open-first, then by total penalty, then by distance.
func (r *Resolver) Resolve(home model.Slot, ownerID string, ownerBase float64, siblings []Sibling) Resolution {
	window := r.FlexibilityHours * 60
	var cands []Candidate
	for _, sib := range siblings {
		if !home.Sibling(sib.Slot) || sib.Slot.ID == home.ID {
			continue
		}
		offset := model.OffsetMinutes(home.CanonicalStart, sib.Slot.CanonicalStart)
		if abs(offset) > window {
			continue
		}
		c := Candidate{
			Slot:            sib.Slot,
			OffsetMinutes:   offset,
			DistancePenalty: float64(abs(offset)) / 60.0 * policy.DistancePenaltyPerHour,
			Open:            !sib.Taken,
		}
		switch {
		case sib.Taken:
			c.ConflictPenalty = policy.ConflictPenaltyTaken
		case sib.Distribution.Owned() && sib.Distribution.OwnerID != ownerID:
			c.ConflictPenalty = policy.ConflictPenaltyOwned
		}
		c.Score = ownerBase - (c.DistancePenalty + c.ConflictPenalty)
		if c.Score < 0 {
			c.Score = 0
		}
		cands = append(cands, c)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Open != cands[j].Open {
			return cands[i].Open
		}
		pi := cands[i].DistancePenalty + cands[i].ConflictPenalty
		pj := cands[j].DistancePenalty + cands[j].ConflictPenalty
		if pi != pj {
			return pi < pj
		}
		if abs(cands[i].OffsetMinutes) != abs(cands[j].OffsetMinutes) {
			return abs(cands[i].OffsetMinutes) < abs(cands[j].OffsetMinutes)
		}
		return cands[i].Slot.ID < cands[j].Slot.ID
	})

	res := Resolution{Candidates: cands}
	for _, c := range cands {
		if !c.Open {
			continue
		}
		res.Selected = model.DriverScore{
			DriverID:    ownerID,
			Score:       c.Score,
			BumpPenalty: c.DistancePenalty + c.ConflictPenalty,
			BumpMinutes: c.OffsetMinutes,
			Method:      model.MethodBumped,
			Reason:      "bumped " + minutesLabel(c.OffsetMinutes) + " to " + c.Slot.CanonicalStart.String(),
		}
		return res
	}

	// Nothing open in the window: keep the slot schedulable at a steep
	// discount instead of failing the owner outright.
	res.Selected = model.DriverScore{
		DriverID: ownerID,
		Score:    ownerBase * (1 - policy.FallbackDiscount),
		Method:   model.MethodFallback,
		Reason:   "no open sibling within flexibility window",
	}
	r.Log.Debugf("bump: no open sibling for %s within %dh, falling back", home.ID, r.FlexibilityHours)
	return res
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minutesLabel(offset int) string {
	h := float64(offset) / 60.0
	if h == math.Trunc(h) {
		return fmt.Sprintf("%+gh", h)
	}
	return fmt.Sprintf("%+dm", offset)
}

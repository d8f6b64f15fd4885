// Package scoring composes oracle predictions, pattern consistency and
// fairness into one score per (slot, driver) pair.
package scoring

import (
	"sort"

	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// Scorer computes candidate scores for open slots. Predictability weighs
// learned ownership against day availability: 1 trusts the historical owner
// entirely, 0 only the availability forecast.
type Scorer struct {
	Predictability float64
	Log            logger.Logger
}

// NewScorer returns a scorer with the given predictability weight clamped to
// [0,1].
func NewScorer(predictability float64, log logger.Logger) *Scorer {
	if predictability < 0 {
		predictability = 0
	}
	if predictability > 1 {
		predictability = 1
	}
	return &Scorer{Predictability: predictability, Log: log}
}

// SlotInput carries everything needed to score one slot. Oracle lookups are
// prefetched by the orchestrator so scoring itself stays pure and
// deterministic.
type SlotInput struct {
	Slot         model.Slot
	Distribution model.SlotDistribution
	Candidates   []model.Driver
	Histories    map[string][]model.AssignmentRecord
	Availability map[string]float64

	// DayCounts holds each candidate's day count for the current week.
	// Rotating fairness only applies when this map is non-empty.
	DayCounts map[string]int
}

// SlotScores is the ranked evaluation of one slot.
type SlotScores struct {
	Scores []model.DriverScore

	// BackupRanking is set when the predicted owner is likely unavailable;
	// the solver should re-rank the slot instead of trusting ownership.
	BackupRanking bool
}

// ScoreSlot evaluates every candidate for the slot and returns them ordered
// by score descending, ties broken by driver ID for determinism.
func (s *Scorer) ScoreSlot(in SlotInput) SlotScores {
	var out SlotScores
	fairness := s.fairnessByDriver(in)
	for _, d := range in.Candidates {
		out.Scores = append(out.Scores, s.scoreCandidate(in, d, fairness))
	}

	if in.Distribution.Owned() {
		if avail, ok := in.Availability[in.Distribution.OwnerID]; ok && avail < policy.OwnerAvailabilityFloor {
			out.BackupRanking = true
			for i := range out.Scores {
				if out.Scores[i].DriverID == in.Distribution.OwnerID {
					out.Scores[i].Score = policy.UnavailableOwnerScore
					out.Scores[i].Reason = "owner likely unavailable"
				}
			}
			s.Log.Debugf("slot %s: owner %s availability %.2f below floor, backup ranking", in.Slot.ID, in.Distribution.OwnerID, avail)
		}
	}

	sort.SliceStable(out.Scores, func(i, j int) bool {
		if out.Scores[i].Score != out.Scores[j].Score {
			return out.Scores[i].Score > out.Scores[j].Score
		}
		return out.Scores[i].DriverID < out.Scores[j].DriverID
	})
	return out
}

func (s *Scorer) scoreCandidate(in SlotInput, d model.Driver, fairness map[string]float64) model.DriverScore {
	ownership := in.Distribution.ShareByDriver[d.ID]
	avail, ok := in.Availability[d.ID]
	if !ok {
		avail = policy.NeutralAvailability
	}

	base := ownership*s.Predictability + avail*(1-s.Predictability)
	reason := "ownership and availability"
	if f, ok := fairness[d.ID]; ok {
		base = 0.7*f + 0.3*(base+0.3*ownership)
		reason = "rotating fairness"
	}

	consistency := Consistency(in.Histories[d.ID])
	score := base * (0.8 + 0.2*consistency)

	return model.DriverScore{
		DriverID:           d.ID,
		Score:              score,
		OwnershipComponent: ownership,
		Method:             model.MethodDirect,
		Reason:             reason,
	}
}

// fairnessByDriver computes the rotating-slot fairness factor per candidate.
// It returns nil for owned slots or when no day counts were supplied; the
// literal equal-days fallback of 0.6 is kept as-is.
func (s *Scorer) fairnessByDriver(in SlotInput) map[string]float64 {
	if in.Distribution.Owned() || len(in.DayCounts) == 0 {
		return nil
	}
	minDays, maxDays := 0, 0
	for i, d := range in.Candidates {
		n := in.DayCounts[d.ID]
		if i == 0 || n < minDays {
			minDays = n
		}
		if i == 0 || n > maxDays {
			maxDays = n
		}
	}
	out := make(map[string]float64, len(in.Candidates))
	for _, d := range in.Candidates {
		if maxDays == minDays {
			out[d.ID] = 0.6
			continue
		}
		mine := in.DayCounts[d.ID]
		out[d.ID] = 0.2 + 0.8*float64(maxDays-mine)/float64(maxDays-minDays)
	}
	return out
}

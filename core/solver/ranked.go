package solver

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/model"
)

// Ranked is the built-in deterministic solver. Slots are placed in
// descending order of their best candidate's score and each slot takes the
// highest-ranked driver still free on its service date. It makes no global
// trade-offs; swap in an external solver when those matter.
type Ranked struct {
	Log logger.Logger
}

// NewRanked returns the built-in ranked-choice solver.
func NewRanked(log logger.Logger) *Ranked {
	return &Ranked{Log: log}
}

// Solve implements Solver.
func (r *Ranked) Solve(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	order := make([]model.Slot, len(req.Slots))
	copy(order, req.Slots)
	sort.SliceStable(order, func(i, j int) bool {
		si, sj := topScore(req.Rankings[order[i].ID]), topScore(req.Rankings[order[j].ID])
		if si != sj {
			return si > sj
		}
		return order[i].ID < order[j].ID
	})

	taken := make(map[string]bool) // driverID|dateKey
	daysByDriver := make(map[string]map[string]bool)

	var resp Response
	var won []float64
	for _, slot := range order {
		ranking := req.Rankings[slot.ID]
		pick := -1
		for i, cand := range ranking {
			if !taken[dayKey(cand.DriverID, slot)] {
				pick = i
				break
			}
		}
		if pick == -1 {
			resp.Unassigned = append(resp.Unassigned, slot.ID)
			r.Log.Debugf("solver: no free candidate for slot %s", slot.ID)
			continue
		}

		// Prefer a driver still under the weekly floor when the score is
		// tied with the leading pick.
		if req.MinDaysPerDriver > 0 {
			for i := pick + 1; i < len(ranking); i++ {
				cand := ranking[i]
				if cand.Score != ranking[pick].Score {
					break
				}
				if taken[dayKey(cand.DriverID, slot)] {
					continue
				}
				if len(daysByDriver[cand.DriverID]) < req.MinDaysPerDriver &&
					len(daysByDriver[ranking[pick].DriverID]) >= req.MinDaysPerDriver {
					pick = i
					break
				}
			}
		}

		winner := ranking[pick]
		taken[dayKey(winner.DriverID, slot)] = true
		if daysByDriver[winner.DriverID] == nil {
			daysByDriver[winner.DriverID] = make(map[string]bool)
		}
		daysByDriver[winner.DriverID][model.DateKey(slot.ServiceDate)] = true

		resp.Assignments = append(resp.Assignments, SlotAssignment{
			SlotID:   slot.ID,
			DriverID: winner.DriverID,
			Score:    winner.Score,
			Method:   winner.Method,
			Reason:   winner.Reason,
		})
		won = append(won, winner.Score)
	}

	resp.Stats = Stats{Assigned: len(resp.Assignments), Unassigned: len(resp.Unassigned)}
	if len(won) > 0 {
		resp.Stats.MeanScore = stat.Mean(won, nil)
	}
	return resp, nil
}

func topScore(ranking []model.DriverScore) float64 {
	if len(ranking) == 0 {
		return 0
	}
	return ranking[0].Score
}

func dayKey(driverID string, slot model.Slot) string {
	return driverID + "|" + model.DateKey(slot.ServiceDate)
}

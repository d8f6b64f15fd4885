package oracle

import (
	"context"
	"time"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// HistoryEngine derives predictions directly from the bounded assignment
// history supplied with the planning pass. It backs standalone operation and
// serves as the degrade path when an external oracle is unreachable: shares
// and day frequencies are recomputed per query from the memory window, never
// persisted.
type HistoryEngine struct {
	histories   map[string][]model.AssignmentRecord
	memoryWeeks int
	now         time.Time
}

// NewHistoryEngine builds an engine over the given per-driver histories.
// Records older than memoryWeeks before now are ignored.
func NewHistoryEngine(histories map[string][]model.AssignmentRecord, memoryWeeks int, now time.Time) *HistoryEngine {
	return &HistoryEngine{histories: histories, memoryWeeks: memoryWeeks, now: now}
}

func (h *HistoryEngine) cutoff() time.Time {
	return h.now.AddDate(0, 0, -7*h.memoryWeeks)
}

func (h *HistoryEngine) inWindow(r model.AssignmentRecord) bool {
	return !r.ServiceDate.Before(h.cutoff()) && !r.ServiceDate.After(h.now)
}

// PredictOwnership counts in-window assignments matching the slot's recurring
// identity. Only recent work counts, so a driver back from leave with stale
// history does not outrank the driver actually holding the slot.
func (h *HistoryEngine) PredictOwnership(_ context.Context, slot model.Slot) (Ownership, error) {
	counts := make(map[string]int)
	total := 0
	for driverID, records := range h.histories {
		for _, r := range records {
			if !h.inWindow(r) {
				continue
			}
			if r.ContractClass != slot.ContractClass || r.ResourceID != slot.ResourceID {
				continue
			}
			if r.Day != slot.Day || r.Start != slot.CanonicalStart {
				continue
			}
			counts[driverID]++
			total++
		}
	}
	if total == 0 {
		return Ownership{Share: policy.NeutralShare}, nil
	}
	own := Ownership{ShareByDriver: make(map[string]float64, len(counts)), Observations: total}
	for driverID, n := range counts {
		share := float64(n) / float64(total)
		own.ShareByDriver[driverID] = share
		if share > own.Share || (share == own.Share && driverID < own.OwnerID) {
			own.Share = share
			own.OwnerID = driverID
		}
	}
	return own, nil
}

// PredictAvailability returns the in-window frequency of the date's weekday
// in the driver's history, or the neutral default without any records.
func (h *HistoryEngine) PredictAvailability(_ context.Context, driverID string, date time.Time) (float64, error) {
	total := 0
	onDay := 0
	for _, r := range h.histories[driverID] {
		if !h.inWindow(r) {
			continue
		}
		total++
		if r.Day == date.Weekday() {
			onDay++
		}
	}
	if total == 0 {
		return policy.NeutralAvailability, nil
	}
	return float64(onDay) / float64(total), nil
}

// PredictPattern counts the weekdays on which the driver has at least
// MinRecordsForPatternDay in-window assignments. A single stray assignment on
// a day does not establish a pattern day.
func (h *HistoryEngine) PredictPattern(_ context.Context, driverID string) (int, error) {
	var perDay [7]int
	for _, r := range h.histories[driverID] {
		if h.inWindow(r) {
			perDay[int(r.Day)]++
		}
	}
	days := 0
	for _, n := range perDay {
		if n >= policy.MinRecordsForPatternDay {
			days++
		}
	}
	return days, nil
}

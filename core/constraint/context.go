// Package constraint enforces structural assignment limits within a single
// planning pass: contract class match, weekly day caps, double booking and
// minimum rest.
package constraint

import (
	"sync"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// DriverState accumulates what a driver has been given during the pass,
// on top of whatever was already on their book.
type DriverState struct {
	Shifts   []model.Shift
	DaysUsed map[string]bool
	Cap      int
}

// days returns the number of distinct service dates the driver works.
func (s *DriverState) days() int {
	return len(s.DaysUsed)
}

// PassContext tracks per-driver state for one planning pass. Reads and
// commits are serialized so concurrent slot evaluation cannot double book.
type PassContext struct {
	mu     sync.Mutex
	states map[string]*DriverState
}

// NewPassContext seeds a context from each driver's existing shifts and
// weekly pattern.
func NewPassContext(drivers []model.Driver, existing map[string][]model.Shift) *PassContext {
	pc := &PassContext{states: make(map[string]*DriverState, len(drivers))}
	for _, d := range drivers {
		st := &DriverState{
			DaysUsed: make(map[string]bool),
			Cap:      DayCap(d.TypicalDaysPerWeek),
		}
		for _, sh := range existing[d.ID] {
			st.Shifts = append(st.Shifts, sh)
			st.DaysUsed[model.DateKey(sh.Date)] = true
		}
		pc.states[d.ID] = st
	}
	return pc
}

// Commit records an accepted shift against the driver. Unknown drivers get
// a fresh state with the default cap.
func (pc *PassContext) Commit(driverID string, shift model.Shift) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	st, ok := pc.states[driverID]
	if !ok {
		st = &DriverState{DaysUsed: make(map[string]bool), Cap: DayCap(0)}
		pc.states[driverID] = st
	}
	st.Shifts = append(st.Shifts, shift)
	st.DaysUsed[model.DateKey(shift.Date)] = true
}

// snapshot returns a copy of the driver's state for lock-free inspection.
func (pc *PassContext) snapshot(driverID string) DriverState {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	st, ok := pc.states[driverID]
	if !ok {
		return DriverState{Cap: DayCap(0)}
	}
	cp := DriverState{Cap: st.Cap, DaysUsed: make(map[string]bool, len(st.DaysUsed))}
	cp.Shifts = append(cp.Shifts, st.Shifts...)
	for k := range st.DaysUsed {
		cp.DaysUsed[k] = true
	}
	return cp
}

// DayCap converts a driver's typical weekly pattern into a hard cap on
// distinct working days. Unknown patterns fall back to the fairness floor
// and every pattern is clamped into the floor..safety range.
func DayCap(typicalDaysPerWeek int) int {
	c := typicalDaysPerWeek
	if c <= 0 {
		c = policy.FairnessFloorDays
	}
	if c < policy.FairnessFloorDays {
		c = policy.FairnessFloorDays
	}
	if c > policy.SafetyCapDays {
		c = policy.SafetyCapDays
	}
	return c
}

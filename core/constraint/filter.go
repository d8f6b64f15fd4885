package constraint

import (
	"fmt"

	"github.com/Dshy007/milo/core/compliance"
	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/model"
)

// Filter applies the structural checks that gate every proposed assignment.
// Checks run in a fixed order and the first failure wins, so a driver over
// their day cap is reported as capped even if the shift would also overlap.
type Filter struct {
	MinRestHours float64
	Log          logger.Logger
}

// NewFilter returns a filter enforcing the given minimum rest.
func NewFilter(minRestHours float64, log logger.Logger) *Filter {
	return &Filter{MinRestHours: minRestHours, Log: log}
}

// Check evaluates a proposed shift for the driver against the pass context.
// It returns true when the assignment may proceed, otherwise false with the
// reason for rejection. The context is not mutated; call Commit once the
// assignment is final.
func (f *Filter) Check(pc *PassContext, driver model.Driver, class model.ContractClass, shift model.Shift) (bool, string) {
	if driver.ContractClass != "" && driver.ContractClass != class {
		return false, fmt.Sprintf("driver works %s, block is %s", driver.ContractClass, class)
	}

	st := pc.snapshot(driver.ID)

	if !st.DaysUsed[model.DateKey(shift.Date)] && st.days() >= st.Cap {
		return false, fmt.Sprintf("day cap %d reached", st.Cap)
	}

	for _, prev := range st.Shifts {
		if prev.Overlaps(shift) {
			return false, fmt.Sprintf("overlaps existing shift on %s", model.DateKey(prev.Date))
		}
	}

	// Rest is measured against shifts on the adjacent calendar days only;
	// same-date conflicts are the double-booking check's job.
	for _, prev := range st.Shifts {
		var rest float64
		switch compliance.DaysBetween(prev.Date, shift.Date) {
		case 1:
			rest = compliance.RestHoursBetween(prev, shift)
		case -1:
			rest = compliance.RestHoursBetween(shift, prev)
		default:
			continue
		}
		if rest < f.MinRestHours {
			return false, fmt.Sprintf("only %.1fh rest, need %.1fh", rest, f.MinRestHours)
		}
	}

	return true, ""
}

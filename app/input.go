package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/planner"
)

// passFile is the on-disk shape of one pass input. Times are HH:MM, dates
// 2006-01-02, days English weekday names.
type passFile struct {
	Slots    []slotIn          `json:"slots"`
	Drivers  []driverIn        `json:"drivers"`
	History  []recordIn        `json:"history"`
	Existing []existingShiftIn `json:"existingShifts"`
	Taken    map[string]string `json:"takenSlots"`
}

type slotIn struct {
	ID            string `json:"id"`
	ContractClass string `json:"contractClass"`
	ResourceID    string `json:"resourceId"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Date          string `json:"date"`
}

type driverIn struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ContractClass      string `json:"contractClass"`
	TypicalDaysPerWeek int    `json:"typicalDaysPerWeek"`
}

type recordIn struct {
	DriverID      string `json:"driverId"`
	SlotID        string `json:"slotId"`
	ContractClass string `json:"contractClass"`
	ResourceID    string `json:"resourceId"`
	Date          string `json:"date"`
	Start         string `json:"start"`
}

type existingShiftIn struct {
	DriverID string `json:"driverId"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// LoadPassInput reads and validates a pass input file.
func LoadPassInput(path string) (planner.PassInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return planner.PassInput{}, fmt.Errorf("read pass input: %w", err)
	}
	var pf passFile
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pf); err != nil {
		return planner.PassInput{}, fmt.Errorf("decode pass input: %w", err)
	}
	return buildPassInput(pf)
}

func buildPassInput(pf passFile) (planner.PassInput, error) {
	in := planner.PassInput{
		Shifts:         make(map[string]model.Shift, len(pf.Slots)),
		Histories:      make(map[string][]model.AssignmentRecord),
		ExistingShifts: make(map[string][]model.Shift),
		TakenSlots:     pf.Taken,
	}

	for i, s := range pf.Slots {
		class, err := model.ParseContractClass(s.ContractClass)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("slots[%d]: %w", i, err)
		}
		start, err := model.ParseClock(s.Start)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("slots[%d]: %w", i, err)
		}
		end, err := model.ParseClock(s.End)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("slots[%d]: %w", i, err)
		}
		date, err := parseDate(s.Date)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("slots[%d]: %w", i, err)
		}
		if s.ID == "" {
			return planner.PassInput{}, fmt.Errorf("slots[%d]: id is required", i)
		}
		in.Slots = append(in.Slots, model.Slot{
			ID:             s.ID,
			ContractClass:  class,
			ResourceID:     s.ResourceID,
			CanonicalStart: start,
			Day:            date.Weekday(),
			ServiceDate:    date,
		})
		in.Shifts[s.ID] = model.Shift{Date: date, Start: start, End: end}
	}

	for i, d := range pf.Drivers {
		if d.ID == "" {
			return planner.PassInput{}, fmt.Errorf("drivers[%d]: id is required", i)
		}
		drv := model.Driver{ID: d.ID, Name: d.Name, TypicalDaysPerWeek: d.TypicalDaysPerWeek}
		if d.ContractClass != "" {
			class, err := model.ParseContractClass(d.ContractClass)
			if err != nil {
				return planner.PassInput{}, fmt.Errorf("drivers[%d]: %w", i, err)
			}
			drv.ContractClass = class
		}
		in.Drivers = append(in.Drivers, drv)
	}

	for i, r := range pf.History {
		class, err := model.ParseContractClass(r.ContractClass)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		start, err := model.ParseClock(r.Start)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		date, err := parseDate(r.Date)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		in.Histories[r.DriverID] = append(in.Histories[r.DriverID], model.AssignmentRecord{
			DriverID:      r.DriverID,
			SlotID:        r.SlotID,
			ContractClass: class,
			ResourceID:    r.ResourceID,
			ServiceDate:   date,
			Day:           date.Weekday(),
			Start:         start,
		})
	}

	for i, sh := range pf.Existing {
		start, err := model.ParseClock(sh.Start)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("existingShifts[%d]: %w", i, err)
		}
		end, err := model.ParseClock(sh.End)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("existingShifts[%d]: %w", i, err)
		}
		date, err := parseDate(sh.Date)
		if err != nil {
			return planner.PassInput{}, fmt.Errorf("existingShifts[%d]: %w", i, err)
		}
		in.ExistingShifts[sh.DriverID] = append(in.ExistingShifts[sh.DriverID], model.Shift{
			Date: date, Start: start, End: end,
		})
	}

	return in, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

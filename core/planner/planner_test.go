package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dshy007/milo/core/bump"
	"github.com/Dshy007/milo/core/compliance"
	"github.com/Dshy007/milo/core/constraint"
	"github.com/Dshy007/milo/core/events"
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/oracle"
	"github.com/Dshy007/milo/core/scoring"
	"github.com/Dshy007/milo/core/solver"
	"github.com/Dshy007/milo/infra/logger"
	"github.com/Dshy007/milo/internal/eventbus"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func passSlot(id, start string) model.Slot {
	return model.Slot{
		ID:             id,
		ContractClass:  model.ContractClassA,
		ResourceID:     "tractor-1",
		CanonicalStart: model.MustParseClock(start),
		Day:            time.Monday,
		ServiceDate:    monday,
	}
}

func passShift(s model.Slot, hours int) model.Shift {
	return model.Shift{
		Date:  s.ServiceDate,
		Start: s.CanonicalStart,
		End:   s.CanonicalStart.AddMinutes(hours * 60),
	}
}

func newTestPlanner(t *testing.T, eng oracle.Engine, sv solver.Solver, rules []compliance.ProtectedRule) (*Planner, *eventbus.Bus[any]) {
	t.Helper()
	log := logger.NopLogger{}
	bus := eventbus.New[any]()
	t.Cleanup(bus.Close)
	p, err := NewPlanner(Deps{
		Oracle:    eng,
		Scorer:    scoring.NewScorer(0.7, log),
		Bumper:    bump.NewResolver(2, log),
		Filter:    constraint.NewFilter(10, log),
		Validator: compliance.NewValidator(rules, log),
		Solver:    sv,
		Bus:       bus,
		Log:       log,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p, bus
}

func TestRun_EndToEnd(t *testing.T) {
	s1 := passSlot("s1", "08:00")
	s2 := passSlot("s2", "09:00")
	eng := oracle.MockEngine{
		Ownerships: map[string]oracle.Ownership{
			s1.Key(): {OwnerID: "d1", Share: 0.9, Observations: 10, ShareByDriver: map[string]float64{"d1": 0.9, "d2": 0.1}},
			s2.Key(): {OwnerID: "d2", Share: 0.8, Observations: 10, ShareByDriver: map[string]float64{"d1": 0.2, "d2": 0.8}},
		},
		Availability: map[string]float64{"d1": 0.9, "d2": 0.9},
	}
	p, _ := newTestPlanner(t, eng, solver.NewRanked(logger.NopLogger{}), nil)

	res, err := p.Run(context.Background(), PassInput{
		Slots:   []model.Slot{s1, s2},
		Drivers: []model.Driver{{ID: "d1"}, {ID: "d2"}},
		Shifts: map[string]model.Shift{
			"s1": passShift(s1, 8),
			"s2": passShift(s2, 8),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.PassID == "" {
		t.Fatal("pass must carry an ID")
	}
	got := make(map[string]string)
	for _, a := range res.Assignments {
		got[a.SlotID] = a.DriverID
	}
	if got["s1"] != "d1" || got["s2"] != "d2" {
		t.Fatalf("owners must keep their slots, got %v", got)
	}
	if res.Stats.Assigned != 2 || res.Stats.Unassigned != 0 || res.Stats.Dropped != 0 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}

func TestRun_Deterministic(t *testing.T) {
	s1 := passSlot("s1", "08:00")
	s2 := passSlot("s2", "09:00")
	eng := oracle.MockEngine{Availability: map[string]float64{"d1": 0.6, "d2": 0.6}}
	in := PassInput{
		Slots:   []model.Slot{s2, s1},
		Drivers: []model.Driver{{ID: "d2"}, {ID: "d1"}},
		Shifts:  map[string]model.Shift{"s1": passShift(s1, 4), "s2": passShift(s2, 4)},
	}

	p, _ := newTestPlanner(t, eng, solver.NewRanked(logger.NopLogger{}), nil)
	first, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := p.Run(context.Background(), in)
		if err != nil {
			t.Fatal(err)
		}
		if len(again.Assignments) != len(first.Assignments) {
			t.Fatal("assignment count must be stable across runs")
		}
		for j, a := range again.Assignments {
			if a.SlotID != first.Assignments[j].SlotID || a.DriverID != first.Assignments[j].DriverID {
				t.Fatalf("run %d diverged: %+v vs %+v", i, a, first.Assignments[j])
			}
		}
	}
}

func TestRun_SolverOmittedSlotReportedUnassigned(t *testing.T) {
	s1 := passSlot("s1", "08:00")
	s2 := passSlot("s2", "09:00")
	eng := oracle.MockEngine{Availability: map[string]float64{"d1": 0.9}}
	partial := solver.Func(func(context.Context, solver.Request) (solver.Response, error) {
		return solver.Response{Assignments: []solver.SlotAssignment{
			{SlotID: "s1", DriverID: "d1", Score: 1, Method: model.MethodDirect},
		}}, nil
	})
	p, _ := newTestPlanner(t, eng, partial, nil)

	res, err := p.Run(context.Background(), PassInput{
		Slots:   []model.Slot{s1, s2},
		Drivers: []model.Driver{{ID: "d1"}},
		Shifts:  map[string]model.Shift{"s1": passShift(s1, 8), "s2": passShift(s2, 8)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].SlotID != "s1" {
		t.Fatalf("unexpected assignments %+v", res.Assignments)
	}
	if len(res.Unassigned) != 1 || res.Unassigned[0] != "s2" {
		t.Fatalf("slot missing from the solver response must surface as unassigned, got %v", res.Unassigned)
	}
	if res.Stats.Assigned != 1 || res.Stats.Unassigned != 1 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}

func TestRun_OraclePatternRaisesDayCap(t *testing.T) {
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	s1 := model.Slot{
		ID:             "s1",
		ContractClass:  model.ContractClassA,
		ResourceID:     "tractor-1",
		CanonicalStart: model.MustParseClock("08:00"),
		Day:            time.Friday,
		ServiceDate:    friday,
	}
	shift := model.Shift{Date: friday, Start: model.MustParseClock("08:00"), End: model.MustParseClock("15:00")}
	fourDays := []model.Shift{}
	for d := 2; d <= 5; d++ {
		date := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
		fourDays = append(fourDays, model.Shift{Date: date, Start: model.MustParseClock("08:00"), End: model.MustParseClock("10:00")})
	}
	in := PassInput{
		Slots:          []model.Slot{s1},
		Drivers:        []model.Driver{{ID: "d1"}},
		Shifts:         map[string]model.Shift{"s1": shift},
		ExistingShifts: map[string][]model.Shift{"d1": fourDays},
	}

	avail := map[string]float64{"d1": 0.9}
	withPattern := oracle.MockEngine{Availability: avail, Patterns: map[string]int{"d1": 5}}
	p, _ := newTestPlanner(t, withPattern, solver.NewRanked(logger.NopLogger{}), nil)
	res, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].DriverID != "d1" {
		t.Fatalf("a learned pattern of 5 must allow a fifth day, got %+v", res)
	}

	noPattern := oracle.MockEngine{Availability: avail}
	p, _ = newTestPlanner(t, noPattern, solver.NewRanked(logger.NopLogger{}), nil)
	res, err = p.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Dropped) != 1 || !strings.Contains(res.Dropped[0].Reason, "day cap 4") {
		t.Fatalf("no pattern must keep the cap at the floor, got %+v", res)
	}
}

func TestRun_SolverFailureLeavesAllUnassigned(t *testing.T) {
	s1 := passSlot("s1", "08:00")
	eng := oracle.MockEngine{}
	p, _ := newTestPlanner(t, eng, &solver.MockSolver{Err: errors.New("boom")}, nil)

	res, err := p.Run(context.Background(), PassInput{
		Slots:   []model.Slot{s1},
		Drivers: []model.Driver{{ID: "d1"}},
		Shifts:  map[string]model.Shift{"s1": passShift(s1, 8)},
	})
	if err == nil {
		t.Fatal("solver failure must surface")
	}
	if len(res.Assignments) != 0 || len(res.Unassigned) != 1 {
		t.Fatalf("failed solve must leave every slot unassigned, got %+v", res)
	}
}

func TestRun_ComplianceDropsAssignment(t *testing.T) {
	s1 := passSlot("s1", "08:00")
	eng := oracle.MockEngine{Availability: map[string]float64{"d1": 0.9}}
	rules := []compliance.ProtectedRule{{DriverID: "d1", BlockedDays: []time.Weekday{time.Monday}}}
	p, bus := newTestPlanner(t, eng, solver.NewRanked(logger.NopLogger{}), rules)

	sub, cancel := bus.Subscribe()
	defer cancel()

	res, err := p.Run(context.Background(), PassInput{
		Slots:   []model.Slot{s1},
		Drivers: []model.Driver{{ID: "d1"}},
		Shifts:  map[string]model.Shift{"s1": passShift(s1, 8)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].DriverID != "d1" {
		t.Fatalf("blocked driver must be dropped, got %+v", res.Dropped)
	}
	if len(res.Unassigned) != 1 || res.Unassigned[0] != "s1" {
		t.Fatalf("dropped slot must be unassigned, got %v", res.Unassigned)
	}

	var sawHardStop bool
	for done := false; !done; {
		select {
		case e := <-sub:
			if _, ok := e.(events.HardStop); ok {
				sawHardStop = true
			}
			if _, ok := e.(events.PassCompleted); ok {
				done = true
			}
		case <-time.After(time.Second):
			done = true
		}
	}
	if !sawHardStop {
		t.Fatal("a dropped assignment must publish a hard stop event")
	}
}

func TestRun_BumpedOwnerLandsOnSibling(t *testing.T) {
	home := passSlot("s-home", "16:30")
	sib := passSlot("s-sib", "18:30")
	eng := oracle.MockEngine{
		Ownerships: map[string]oracle.Ownership{
			home.Key(): {OwnerID: "d1", Share: 0.9, Observations: 10, ShareByDriver: map[string]float64{"d1": 0.9}},
		},
		Availability: map[string]float64{"d1": 0.9, "d2": 0.4},
	}
	p, _ := newTestPlanner(t, eng, solver.NewRanked(logger.NopLogger{}), nil)

	res, err := p.Run(context.Background(), PassInput{
		Slots:   []model.Slot{home, sib},
		Drivers: []model.Driver{{ID: "d1"}, {ID: "d2"}},
		Shifts: map[string]model.Shift{
			"s-home": passShift(home, 8),
			"s-sib":  passShift(sib, 8),
		},
		TakenSlots: map[string]string{"s-home": "d9"},
	})
	if err != nil {
		t.Fatal(err)
	}
	var landed *solver.SlotAssignment
	for i, a := range res.Assignments {
		if a.SlotID == "s-sib" {
			landed = &res.Assignments[i]
		}
		if a.SlotID == "s-home" {
			t.Fatal("taken slot must never be assigned")
		}
	}
	if landed == nil || landed.DriverID != "d1" {
		t.Fatalf("displaced owner must land on the sibling, got %+v", res.Assignments)
	}
	if landed.Method != model.MethodBumped {
		t.Fatalf("expected bumped method, got %s", landed.Method)
	}
}

func TestNewPlanner_RejectsNilDeps(t *testing.T) {
	if _, err := NewPlanner(Deps{}); err == nil {
		t.Fatal("nil dependencies must be rejected")
	}
}

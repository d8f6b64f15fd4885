// Package planner orchestrates one planning pass: oracle prefetch, scoring,
// bump resolution, solving and constraint filtering, with full accounting of
// every input slot.
package planner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dshy007/milo/core/bump"
	"github.com/Dshy007/milo/core/compliance"
	"github.com/Dshy007/milo/core/constraint"
	"github.com/Dshy007/milo/core/events"
	"github.com/Dshy007/milo/core/logger"
	"github.com/Dshy007/milo/core/metrics"
	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/oracle"
	"github.com/Dshy007/milo/core/policy"
	"github.com/Dshy007/milo/core/scoring"
	"github.com/Dshy007/milo/core/solver"
	"github.com/Dshy007/milo/internal/eventbus"
)

// Deps are the collaborators a planner needs. Sink and Bus are optional.
type Deps struct {
	Oracle    oracle.Engine
	Scorer    *scoring.Scorer
	Bumper    *bump.Resolver
	Filter    *constraint.Filter
	Validator *compliance.Validator
	Solver    solver.Solver
	Sink      metrics.MetricsSink
	Bus       *eventbus.Bus[any]
	Log       logger.Logger

	// MinDaysPerDriver is passed through to the solver as a soft floor.
	MinDaysPerDriver int

	// MaxInflight bounds concurrent oracle calls during prefetch.
	MaxInflight int
}

// Planner runs planning passes. Safe for sequential reuse; a single pass
// fans out internally but Run itself is synchronous.
type Planner struct {
	deps Deps
}

// NewPlanner validates the wiring and returns a planner.
func NewPlanner(deps Deps) (*Planner, error) {
	if deps.Oracle == nil || deps.Scorer == nil || deps.Bumper == nil ||
		deps.Filter == nil || deps.Validator == nil || deps.Solver == nil || deps.Log == nil {
		return nil, fmt.Errorf("planner: nil dependency provided to NewPlanner")
	}
	if deps.Sink == nil {
		deps.Sink = metrics.NopSink{}
	}
	if deps.MaxInflight <= 0 {
		deps.MaxInflight = policy.MaxInflightOracleCalls
	}
	return &Planner{deps: deps}, nil
}

// PassInput is everything one pass works on. Shifts maps each slot ID to
// its concrete working interval on the slot's service date. TakenSlots maps
// already-claimed slot IDs to the driver holding them; those slots are not
// filled but may trigger bump resolution for their historical owner. A
// driver with a zero TypicalDaysPerWeek has it resolved from the oracle's
// learned pattern during the pass.
type PassInput struct {
	Slots     []model.Slot
	Drivers   []model.Driver
	Shifts    map[string]model.Shift
	Histories map[string][]model.AssignmentRecord

	ExistingShifts map[string][]model.Shift
	TakenSlots     map[string]string
}

// DroppedPair is an assignment the solver produced but a constraint or
// compliance check rejected.
type DroppedPair struct {
	SlotID   string
	DriverID string
	Reason   string
}

// PassStats is the final tally. Slots always equals
// Assigned + Unassigned + len(TakenSlots) for the pass input.
type PassStats struct {
	Slots      int
	Assigned   int
	Unassigned int
	Dropped    int
	MeanScore  float64
	Duration   time.Duration
}

// PassResult accounts for every input slot exactly once: taken slots keep
// their holder, the rest end up assigned or unassigned.
type PassResult struct {
	PassID      string
	Assignments []solver.SlotAssignment
	Unassigned  []string
	Dropped     []DroppedPair
	Stats       PassStats
}

type prefetched struct {
	ownership    map[string]oracle.Ownership // by slot ID
	availability map[string]map[string]float64
	pattern      map[string]int // by driver ID, only where the input had none
}

// Run executes one planning pass.
func (p *Planner) Run(ctx context.Context, in PassInput) (PassResult, error) {
	start := time.Now()
	res := PassResult{PassID: uuid.NewString()}

	slots := make([]model.Slot, len(in.Slots))
	copy(slots, in.Slots)
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })

	p.publish(events.PassStarted{PassID: res.PassID, Slots: len(slots), At: start})
	p.deps.Log.Infof("pass %s: %d slots, %d drivers", res.PassID, len(slots), len(in.Drivers))

	pre := p.prefetch(ctx, slots, in.Drivers)
	in.Drivers = withPatterns(in.Drivers, pre.pattern)

	rankings, distributions := p.scoreAll(res.PassID, slots, in, pre)
	p.resolveBumps(&res, slots, in, rankings, distributions)

	open := openSlots(slots, in.TakenSlots)
	solveReq := solver.Request{
		Slots:            open,
		Drivers:          in.Drivers,
		Rankings:         rankings,
		MinDaysPerDriver: p.deps.MinDaysPerDriver,
	}
	solved, err := p.deps.Solver.Solve(ctx, solveReq)
	if err != nil {
		// A failed solve leaves every open slot unfilled rather than
		// guessing at a partial schedule.
		p.deps.Log.Errorf("pass %s: solver failed: %v", res.PassID, err)
		for _, s := range open {
			res.Unassigned = append(res.Unassigned, s.ID)
		}
		p.finish(&res, start, distributions)
		return res, fmt.Errorf("planner: solve: %w", err)
	}

	p.applyAssignments(ctx, &res, solved, in)
	p.finish(&res, start, distributions)
	return res, nil
}

// prefetch pulls all oracle predictions up front with bounded concurrency,
// so scoring stays pure and deterministic.
func (p *Planner) prefetch(ctx context.Context, slots []model.Slot, drivers []model.Driver) prefetched {
	pre := prefetched{
		ownership:    make(map[string]oracle.Ownership, len(slots)),
		availability: make(map[string]map[string]float64, len(drivers)),
		pattern:      make(map[string]int),
	}

	dates := make(map[string]time.Time)
	for _, s := range slots {
		dates[model.DateKey(s.ServiceDate)] = s.ServiceDate
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, p.deps.MaxInflight)
	)
	call := func(action string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			t0 := time.Now()
			fn()
			_ = p.deps.Sink.RecordOracleCall(metrics.OracleSample{
				Action:   action,
				Duration: time.Since(t0),
				Time:     time.Now(),
			})
		}()
	}

	for _, s := range slots {
		s := s
		call(string(oracle.ActionOwnership), func() {
			own, err := p.deps.Oracle.PredictOwnership(ctx, s)
			if err != nil {
				p.deps.Log.Warnf("ownership prediction failed for %s: %v", s.ID, err)
				return
			}
			mu.Lock()
			pre.ownership[s.ID] = own
			mu.Unlock()
		})
	}
	for _, d := range drivers {
		d := d
		for key, date := range dates {
			key, date := key, date
			call(string(oracle.ActionAvailability), func() {
				avail, err := p.deps.Oracle.PredictAvailability(ctx, d.ID, date)
				if err != nil {
					p.deps.Log.Warnf("availability prediction failed for %s: %v", d.ID, err)
					return
				}
				mu.Lock()
				if pre.availability[d.ID] == nil {
					pre.availability[d.ID] = make(map[string]float64)
				}
				pre.availability[d.ID][key] = avail
				mu.Unlock()
			})
		}
	}
	for _, d := range drivers {
		d := d
		if d.TypicalDaysPerWeek != 0 {
			continue
		}
		call(string(oracle.ActionPattern), func() {
			days, err := p.deps.Oracle.PredictPattern(ctx, d.ID)
			if err != nil {
				p.deps.Log.Warnf("pattern prediction failed for %s: %v", d.ID, err)
				return
			}
			mu.Lock()
			pre.pattern[d.ID] = days
			mu.Unlock()
		})
	}
	wg.Wait()
	return pre
}

// withPatterns fills a driver's typical days per week from the oracle when
// the roster carried none, so the day cap reflects the learned pattern.
func withPatterns(drivers []model.Driver, patterns map[string]int) []model.Driver {
	out := make([]model.Driver, len(drivers))
	copy(out, drivers)
	for i := range out {
		if out[i].TypicalDaysPerWeek == 0 {
			out[i].TypicalDaysPerWeek = patterns[out[i].ID]
		}
	}
	return out
}

// scoreAll ranks every slot, taken ones included so bump resolution has a
// base score for the displaced owner.
func (p *Planner) scoreAll(passID string, slots []model.Slot, in PassInput, pre prefetched) (map[string][]model.DriverScore, map[string]model.SlotDistribution) {
	rankings := make(map[string][]model.DriverScore, len(slots))
	distributions := make(map[string]model.SlotDistribution, len(slots))

	dayCounts := make(map[string]int, len(in.Drivers))
	for _, d := range in.Drivers {
		seen := make(map[string]bool)
		for _, sh := range in.ExistingShifts[d.ID] {
			seen[model.DateKey(sh.Date)] = true
		}
		dayCounts[d.ID] = len(seen)
	}

	for _, s := range slots {
		dist := scoring.BuildDistribution(pre.ownership[s.ID])
		distributions[s.ID] = dist

		avail := make(map[string]float64, len(in.Drivers))
		for _, d := range in.Drivers {
			if a, ok := pre.availability[d.ID][model.DateKey(s.ServiceDate)]; ok {
				avail[d.ID] = a
			}
		}

		scored := p.deps.Scorer.ScoreSlot(scoring.SlotInput{
			Slot:         s,
			Distribution: dist,
			Candidates:   in.Drivers,
			Histories:    in.Histories,
			Availability: avail,
			DayCounts:    dayCounts,
		})
		rankings[s.ID] = scored.Scores

		var top model.DriverScore
		if len(scored.Scores) > 0 {
			top = scored.Scores[0]
		}
		p.publish(events.SlotScored{
			PassID:        passID,
			SlotID:        s.ID,
			Top:           top,
			Candidates:    len(scored.Scores),
			BackupRanking: scored.BackupRanking,
		})
	}
	return rankings, distributions
}

// resolveBumps relocates owners displaced from taken slots onto open
// siblings, injecting the bumped score into the target slot's ranking.
func (p *Planner) resolveBumps(res *PassResult, slots []model.Slot, in PassInput, rankings map[string][]model.DriverScore, distributions map[string]model.SlotDistribution) {
	for _, home := range slots {
		takenBy, taken := in.TakenSlots[home.ID]
		if !taken {
			continue
		}
		dist := distributions[home.ID]
		if !dist.Owned() || dist.OwnerID == takenBy {
			continue
		}

		ownerBase := scoreFor(rankings[home.ID], dist.OwnerID)
		var sibs []bump.Sibling
		for _, s := range slots {
			_, sibTaken := in.TakenSlots[s.ID]
			sibs = append(sibs, bump.Sibling{
				Slot:         s,
				Taken:        sibTaken,
				Distribution: distributions[s.ID],
			})
		}

		resolution := p.deps.Bumper.Resolve(home, dist.OwnerID, ownerBase, sibs)
		sel := resolution.Selected
		p.publish(events.BumpResolved{
			PassID:      res.PassID,
			SlotID:      home.ID,
			DriverID:    dist.OwnerID,
			Method:      sel.Method,
			BumpMinutes: sel.BumpMinutes,
		})

		if sel.Method != model.MethodBumped || len(resolution.Candidates) == 0 {
			continue
		}
		target := resolution.Candidates[0].Slot.ID
		rankings[target] = upsertScore(rankings[target], sel)
		p.deps.Log.Infof("pass %s: owner %s bumped from %s to %s", res.PassID, dist.OwnerID, home.ID, target)
	}
}

// applyAssignments runs compliance and structural checks over the solver's
// output, strongest claims first, committing survivors and dropping the
// rest.
func (p *Planner) applyAssignments(ctx context.Context, res *PassResult, solved solver.Response, in PassInput) {
	assignments := make([]solver.SlotAssignment, len(solved.Assignments))
	copy(assignments, solved.Assignments)
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].Score != assignments[j].Score {
			return assignments[i].Score > assignments[j].Score
		}
		return assignments[i].SlotID < assignments[j].SlotID
	})

	driversByID := make(map[string]model.Driver, len(in.Drivers))
	for _, d := range in.Drivers {
		driversByID[d.ID] = d
	}
	pc := constraint.NewPassContext(in.Drivers, in.ExistingShifts)

	slotClass := make(map[string]model.ContractClass, len(in.Slots))
	for _, s := range in.Slots {
		slotClass[s.ID] = s.ContractClass
	}

	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			res.Unassigned = append(res.Unassigned, a.SlotID)
			continue
		}
		shift, ok := in.Shifts[a.SlotID]
		if !ok {
			p.drop(res, a, "no shift interval for slot")
			continue
		}
		class := slotClass[a.SlotID]

		subject := compliance.SubjectFromShift(shift, class)
		existing := subjectsFor(in.ExistingShifts[a.DriverID], class)
		verdict := p.deps.Validator.Check(a.DriverID, subject, existing)
		p.recordCompliance(a.DriverID, verdict)
		if !verdict.Valid {
			p.drop(res, a, firstMessage(verdict.Messages))
			continue
		}

		if ok, reason := p.deps.Filter.Check(pc, driversByID[a.DriverID], class, shift); !ok {
			p.drop(res, a, reason)
			continue
		}

		pc.Commit(a.DriverID, shift)
		res.Assignments = append(res.Assignments, a)
	}

	res.Unassigned = append(res.Unassigned, solved.Unassigned...)

	// The solver contract is assignments-only; an open slot it omits from
	// both lists is reported unassigned, never silently dropped.
	accounted := make(map[string]bool, len(res.Assignments)+len(res.Unassigned))
	for _, a := range res.Assignments {
		accounted[a.SlotID] = true
	}
	for _, id := range res.Unassigned {
		accounted[id] = true
	}
	for _, s := range openSlots(in.Slots, in.TakenSlots) {
		if !accounted[s.ID] {
			res.Unassigned = append(res.Unassigned, s.ID)
		}
	}
	sort.Strings(res.Unassigned)
}

func (p *Planner) drop(res *PassResult, a solver.SlotAssignment, reason string) {
	res.Dropped = append(res.Dropped, DroppedPair{SlotID: a.SlotID, DriverID: a.DriverID, Reason: reason})
	res.Unassigned = append(res.Unassigned, a.SlotID)
	p.publish(events.HardStop{PassID: res.PassID, SlotID: a.SlotID, DriverID: a.DriverID, Reason: reason})
	p.deps.Log.Warnf("pass %s: dropped %s for %s: %s", res.PassID, a.SlotID, a.DriverID, reason)
}

func (p *Planner) recordCompliance(driverID string, verdict compliance.ValidationResult) {
	if verdict.Status == compliance.StatusValid || verdict.Metrics == nil {
		return
	}
	_ = p.deps.Sink.RecordCompliance(metrics.ComplianceSample{
		DriverID:    driverID,
		Status:      string(verdict.Status),
		Utilization: verdict.Metrics["utilization"],
		Time:        time.Now(),
	})
}

func (p *Planner) finish(res *PassResult, start time.Time, distributions map[string]model.SlotDistribution) {
	res.Stats = PassStats{
		Slots:      len(distributions),
		Assigned:   len(res.Assignments),
		Unassigned: len(res.Unassigned),
		Dropped:    len(res.Dropped),
		Duration:   time.Since(start),
	}
	var sum float64
	outcomes := make([]metrics.SlotOutcome, 0, len(res.Assignments))
	now := time.Now()
	for _, a := range res.Assignments {
		sum += a.Score
		outcomes = append(outcomes, metrics.SlotOutcome{
			PassID:         res.PassID,
			SlotID:         a.SlotID,
			DriverID:       a.DriverID,
			Method:         a.Method,
			Classification: distributions[a.SlotID].Classification,
			Score:          a.Score,
			Time:           now,
		})
	}
	if len(res.Assignments) > 0 {
		res.Stats.MeanScore = sum / float64(len(res.Assignments))
	}

	_ = p.deps.Sink.RecordSlotOutcomes(outcomes)
	_ = p.deps.Sink.RecordPass(metrics.PassSample{
		PassID:     res.PassID,
		Assigned:   res.Stats.Assigned,
		Unassigned: res.Stats.Unassigned,
		Dropped:    res.Stats.Dropped,
		MeanScore:  res.Stats.MeanScore,
		Duration:   res.Stats.Duration,
		Time:       now,
	})
	p.publish(events.PassCompleted{
		PassID:     res.PassID,
		Assigned:   res.Stats.Assigned,
		Unassigned: res.Stats.Unassigned,
		Dropped:    res.Stats.Dropped,
		Duration:   res.Stats.Duration,
	})
	p.deps.Log.Infof("pass %s: %d assigned, %d unassigned, %d dropped in %s",
		res.PassID, res.Stats.Assigned, res.Stats.Unassigned, res.Stats.Dropped, res.Stats.Duration)
}

func (p *Planner) publish(e any) {
	if p.deps.Bus != nil {
		p.deps.Bus.Publish(e)
	}
}

func openSlots(slots []model.Slot, taken map[string]string) []model.Slot {
	var open []model.Slot
	for _, s := range slots {
		if _, ok := taken[s.ID]; !ok {
			open = append(open, s)
		}
	}
	return open
}

func scoreFor(ranking []model.DriverScore, driverID string) float64 {
	for _, r := range ranking {
		if r.DriverID == driverID {
			return r.Score
		}
	}
	return 0
}

func upsertScore(ranking []model.DriverScore, entry model.DriverScore) []model.DriverScore {
	out := make([]model.DriverScore, 0, len(ranking)+1)
	for _, r := range ranking {
		if r.DriverID != entry.DriverID {
			out = append(out, r)
		}
	}
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DriverID < out[j].DriverID
	})
	return out
}

func subjectsFor(shifts []model.Shift, class model.ContractClass) []compliance.AssignmentSubject {
	subs := make([]compliance.AssignmentSubject, 0, len(shifts))
	for _, sh := range shifts {
		subs = append(subs, compliance.SubjectFromShift(sh, class))
	}
	return subs
}

func firstMessage(msgs []string) string {
	if len(msgs) == 0 {
		return "compliance violation"
	}
	return msgs[0]
}

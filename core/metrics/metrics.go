// Package metrics defines the sink interface planning components report
// through, decoupled from any concrete backend.
package metrics

import (
	"time"

	"github.com/Dshy007/milo/core/model"
)

// PassSample summarizes one completed planning pass.
type PassSample struct {
	PassID     string
	Assigned   int
	Unassigned int
	Dropped    int
	MeanScore  float64
	Duration   time.Duration
	Time       time.Time
}

// SlotOutcome records how one slot was resolved.
type SlotOutcome struct {
	PassID         string
	SlotID         string
	DriverID       string
	Method         model.AssignmentMethod
	Classification model.Classification
	Score          float64
	Time           time.Time
}

// OracleSample records one oracle call, including degraded calls that fell
// back to neutral predictions.
type OracleSample struct {
	Action   string
	Duration time.Duration
	Degraded bool
	Time     time.Time
}

// ComplianceSample records a duty-hours evaluation near or over the limit.
type ComplianceSample struct {
	DriverID    string
	Status      string
	Utilization float64
	Time        time.Time
}

// MetricsSink receives planning telemetry. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	RecordPass(PassSample) error
	RecordSlotOutcomes([]SlotOutcome) error
	RecordOracleCall(OracleSample) error
	RecordCompliance(ComplianceSample) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordPass(PassSample) error            { return nil }
func (NopSink) RecordSlotOutcomes([]SlotOutcome) error { return nil }
func (NopSink) RecordOracleCall(OracleSample) error    { return nil }
func (NopSink) RecordCompliance(ComplianceSample) error { return nil }

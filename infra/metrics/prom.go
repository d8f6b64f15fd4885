package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/Dshy007/milo/core/metrics"
)

// PromSink exposes planning telemetry as Prometheus metrics.
type PromSink struct {
	slots      *prometheus.CounterVec
	passes     *prometheus.CounterVec
	passTime   prometheus.Histogram
	oracle     *prometheus.HistogramVec
	compliance *prometheus.CounterVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		slots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_slot_outcomes_total",
			Help: "Slot resolutions by method and classification",
		}, []string{"method", "classification"}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_passes_total",
			Help: "Completed planning passes by outcome",
		}, []string{"clean"}),
		passTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planning_pass_duration_seconds",
			Help:    "Wall time of a full planning pass",
			Buckets: prometheus.DefBuckets,
		}),
		oracle: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oracle_call_duration_seconds",
			Help:    "Oracle call latency by action and degradation",
			Buckets: prometheus.DefBuckets,
		}, []string{"action", "degraded"}),
		compliance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_checks_total",
			Help: "Duty-hours evaluations by status",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{s.slots, s.passes, s.passTime, s.oracle, s.compliance} {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RecordPass counts the pass and observes its duration.
func (s *PromSink) RecordPass(sample coremetrics.PassSample) error {
	s.passes.WithLabelValues(strconv.FormatBool(sample.Unassigned == 0 && sample.Dropped == 0)).Inc()
	s.passTime.Observe(sample.Duration.Seconds())
	return nil
}

// RecordSlotOutcomes counts each slot resolution.
func (s *PromSink) RecordSlotOutcomes(outcomes []coremetrics.SlotOutcome) error {
	for _, o := range outcomes {
		s.slots.WithLabelValues(string(o.Method), string(o.Classification)).Inc()
	}
	return nil
}

// RecordOracleCall observes oracle latency.
func (s *PromSink) RecordOracleCall(sample coremetrics.OracleSample) error {
	s.oracle.WithLabelValues(sample.Action, strconv.FormatBool(sample.Degraded)).Observe(sample.Duration.Seconds())
	return nil
}

// RecordCompliance counts the evaluation by status.
func (s *PromSink) RecordCompliance(sample coremetrics.ComplianceSample) error {
	s.compliance.WithLabelValues(sample.Status).Inc()
	return nil
}

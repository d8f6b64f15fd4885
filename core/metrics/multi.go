package metrics

import "errors"

// MultiSink fans every record out to all child sinks, collecting errors
// instead of stopping at the first failure.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink wraps the given sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordPass(s PassSample) error {
	return m.each(func(sink MetricsSink) error { return sink.RecordPass(s) })
}

func (m *MultiSink) RecordSlotOutcomes(o []SlotOutcome) error {
	return m.each(func(sink MetricsSink) error { return sink.RecordSlotOutcomes(o) })
}

func (m *MultiSink) RecordOracleCall(s OracleSample) error {
	return m.each(func(sink MetricsSink) error { return sink.RecordOracleCall(s) })
}

func (m *MultiSink) RecordCompliance(s ComplianceSample) error {
	return m.each(func(sink MetricsSink) error { return sink.RecordCompliance(s) })
}

func (m *MultiSink) each(fn func(MetricsSink) error) error {
	var errs []error
	for _, s := range m.sinks {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

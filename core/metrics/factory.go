package metrics

import "github.com/Dshy007/milo/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterSink adds a metrics sink builder identified by name.
func RegisterSink(name string, b factory.Builder[MetricsSink]) error {
	return sinkRegistry.Register(name, b)
}

// NewSink creates a MetricsSink from configuration. No specs yields a
// NopSink; several specs are wrapped in a MultiSink.
func NewSink(specs []factory.Spec) (MetricsSink, error) {
	if len(specs) == 0 {
		return NopSink{}, nil
	}
	if len(specs) == 1 {
		return sinkRegistry.Build(specs[0])
	}
	sinks := make([]MetricsSink, len(specs))
	for i, s := range specs {
		sink, err := sinkRegistry.Build(s)
		if err != nil {
			return nil, err
		}
		sinks[i] = sink
	}
	return NewMultiSink(sinks...), nil
}

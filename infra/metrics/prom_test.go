package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/Dshy007/milo/core/metrics"
	"github.com/Dshy007/milo/core/model"
)

func TestPromSinkRecordsSlotOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSlotOutcomes([]coremetrics.SlotOutcome{
		{Method: model.MethodDirect, Classification: model.ClassificationOwned},
		{Method: model.MethodDirect, Classification: model.ClassificationOwned},
		{Method: model.MethodBumped, Classification: model.ClassificationOwned},
	}))

	ps := sink.(*PromSink)
	direct := testutil.ToFloat64(ps.slots.WithLabelValues(string(model.MethodDirect), string(model.ClassificationOwned)))
	require.Equal(t, 2.0, direct)
	bumped := testutil.ToFloat64(ps.slots.WithLabelValues(string(model.MethodBumped), string(model.ClassificationOwned)))
	require.Equal(t, 1.0, bumped)
}

func TestPromSinkRecordsPassAndCompliance(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordPass(coremetrics.PassSample{
		Assigned: 3, Duration: 120 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordCompliance(coremetrics.ComplianceSample{Status: "warning"}))

	ps := sink.(*PromSink)
	require.Equal(t, 1.0, testutil.ToFloat64(ps.passes.WithLabelValues("true")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.compliance.WithLabelValues("warning")))
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(reg)
	require.NoError(t, err, "re-registering on the same registry must reuse collectors")
}

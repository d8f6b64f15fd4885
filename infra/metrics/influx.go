package metrics

import (
	"context"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/Dshy007/milo/core/metrics"
	"github.com/Dshy007/milo/infra/logger"
)

const influxWriteTimeout = 10 * time.Second

// InfluxSink writes planning telemetry to InfluxDB using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClient(base, token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance first and returns a
// NopSink when the health check fails, so a down telemetry store never
// blocks planning.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPass writes the pass summary.
func (s *InfluxSink) RecordPass(sample coremetrics.PassSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("planning_pass").
		AddTag("pass_id", sample.PassID).
		AddField("assigned", sample.Assigned).
		AddField("unassigned", sample.Unassigned).
		AddField("dropped", sample.Dropped).
		AddField("mean_score", sample.MeanScore).
		AddField("duration_ms", sample.Duration.Milliseconds()).
		SetTime(sample.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSlotOutcomes writes one point per slot resolution.
func (s *InfluxSink) RecordSlotOutcomes(outcomes []coremetrics.SlotOutcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	for _, o := range outcomes {
		p := write.NewPointWithMeasurement("slot_outcome").
			AddTag("pass_id", o.PassID).
			AddTag("slot_id", o.SlotID).
			AddTag("driver_id", o.DriverID).
			AddTag("method", string(o.Method)).
			AddTag("classification", string(o.Classification)).
			AddField("score", o.Score).
			SetTime(o.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordOracleCall writes oracle latency samples.
func (s *InfluxSink) RecordOracleCall(sample coremetrics.OracleSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("oracle_call").
		AddTag("action", sample.Action).
		AddTag("degraded", strconv.FormatBool(sample.Degraded)).
		AddField("duration_ms", sample.Duration.Milliseconds()).
		SetTime(sample.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCompliance writes a duty-hours evaluation.
func (s *InfluxSink) RecordCompliance(sample coremetrics.ComplianceSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("compliance_check").
		AddTag("driver_id", sample.DriverID).
		AddTag("status", sample.Status).
		AddField("utilization", sample.Utilization).
		SetTime(sample.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

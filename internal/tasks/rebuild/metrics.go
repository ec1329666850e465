package rebuild

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

type taskMetrics struct {
	success metric.Int64Counter
	failure metric.Int64Counter
	lag     metric.Float64Histogram
	enabled bool
}

func newTaskMetrics() *taskMetrics {
	meterProvider := otel.GetMeterProvider()
	if meterProvider == nil {
		meterProvider = noopmetric.NewMeterProvider()
	}
	meter := meterProvider.Meter("lingo-services-feed.rebuild")

	success, err := meter.Int64Counter("rebuild_success_total", metric.WithDescription("Number of feed pages pre-generated"))
	if err != nil {
		return &taskMetrics{}
	}
	failure, err := meter.Int64Counter("rebuild_failure_total", metric.WithDescription("Number of pre-generation tasks failed"))
	if err != nil {
		return &taskMetrics{}
	}
	lag, err := meter.Float64Histogram("rebuild_event_lag_ms", metric.WithDescription("Lag between task scheduling and execution"), metric.WithUnit("ms"))
	if err != nil {
		return &taskMetrics{}
	}

	return &taskMetrics{
		success: success,
		failure: failure,
		lag:     lag,
		enabled: true,
	}
}

func (m *taskMetrics) recordSuccess(ctx context.Context, feedType string, occurredAt time.Time, now time.Time) {
	if m == nil || !m.enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("feed_type", feedType))
	m.success.Add(ctx, 1, attrs)
	if !occurredAt.IsZero() && !now.IsZero() {
		lag := now.Sub(occurredAt).Milliseconds()
		if lag < 0 {
			lag = 0
		}
		m.lag.Record(ctx, float64(lag), attrs)
	}
}

func (m *taskMetrics) recordFailure(ctx context.Context, feedType string, _ error) {
	if m == nil || !m.enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("feed_type", feedType))
	m.failure.Add(ctx, 1, attrs)
}

package services

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

var (
	feedMetricsMu           sync.Mutex
	feedMetricsEnabled      bool
	feedServeCounter        metric.Int64Counter
	feedServeHistogram      metric.Float64Histogram
	feedUnknownTypeCounter  metric.Int64Counter
	feedFallbackCounter     metric.Int64Counter
	feedSeenFailureCounter  metric.Int64Counter
	feedRebuildCounter      metric.Int64Counter
	feedInvalidationCounter metric.Int64Counter
)

const (
	feedServeMetricName        = "feed_serve_total"
	feedServeDurationName      = "feed_serve_duration_ms"
	feedUnknownTypeMetricName  = "feed_unknown_type_total"
	feedFallbackMetricName     = "feed_follow_fallback_total"
	feedSeenFailureMetricName  = "feed_seen_store_failures_total"
	feedRebuildMetricName      = "feed_rebuild_total"
	feedInvalidationMetricName = "feed_cache_invalidation_keys_total"
)

var (
	attrComponent   = attribute.Key("component")
	attrFeedType    = attribute.Key("feed_type")
	attrCacheSource = attribute.Key("cache_source")
	attrChangeKind  = attribute.Key("change_kind")
)

type feedMetrics struct {
	component string
}

func newFeedMetrics(component string) *feedMetrics {
	feedMetricsMu.Lock()
	defer feedMetricsMu.Unlock()
	if !feedMetricsEnabled {
		initFeedMetricsLocked()
	}
	if !feedMetricsEnabled {
		return &feedMetrics{}
	}
	return &feedMetrics{component: component}
}

func initFeedMetricsLocked() {
	provider := otel.GetMeterProvider()
	if provider == nil {
		provider = noopmetric.NewMeterProvider()
	}
	meter := provider.Meter("lingo-services-feed.services.feed")

	var err error
	feedServeCounter, err = meter.Int64Counter(feedServeMetricName,
		metric.WithDescription("Number of feed pages served"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedServeHistogram, err = meter.Float64Histogram(feedServeDurationName,
		metric.WithDescription("End-to-end latency of feed page assembly"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedUnknownTypeCounter, err = meter.Int64Counter(feedUnknownTypeMetricName,
		metric.WithDescription("Number of requests carrying an unrecognized feed type"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedFallbackCounter, err = meter.Int64Counter(feedFallbackMetricName,
		metric.WithDescription("Number of following-feed requests degraded to global trending"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedSeenFailureCounter, err = meter.Int64Counter(feedSeenFailureMetricName,
		metric.WithDescription("Number of seen-history reads that failed and were skipped"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedRebuildCounter, err = meter.Int64Counter(feedRebuildMetricName,
		metric.WithDescription("Number of feed pages rebuilt outside the request path"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedInvalidationCounter, err = meter.Int64Counter(feedInvalidationMetricName,
		metric.WithDescription("Number of cache keys cleared by selective invalidation"))
	if err != nil {
		feedMetricsEnabled = false
		return
	}
	feedMetricsEnabled = true
}

func (m *feedMetrics) recordServe(ctx context.Context, feedType, source string, elapsed time.Duration) {
	if m == nil || !feedMetricsEnabled || feedServeCounter == nil {
		return
	}
	attrs := metric.WithAttributes(
		attrComponent.String(m.component),
		attrFeedType.String(feedType),
		attrCacheSource.String(source),
	)
	feedServeCounter.Add(ctx, 1, attrs)
	if feedServeHistogram != nil {
		feedServeHistogram.Record(ctx, float64(elapsed.Milliseconds()), attrs)
	}
}

func (m *feedMetrics) recordUnknownType(ctx context.Context, raw string) {
	if m == nil || !feedMetricsEnabled || feedUnknownTypeCounter == nil {
		return
	}
	feedUnknownTypeCounter.Add(ctx, 1, metric.WithAttributes(
		attrComponent.String(m.component),
		attrFeedType.String(raw),
	))
}

func (m *feedMetrics) recordFollowFallback(ctx context.Context) {
	if m == nil || !feedMetricsEnabled || feedFallbackCounter == nil {
		return
	}
	feedFallbackCounter.Add(ctx, 1, metric.WithAttributes(
		attrComponent.String(m.component),
	))
}

func (m *feedMetrics) recordSeenStoreFailure(ctx context.Context) {
	if m == nil || !feedMetricsEnabled || feedSeenFailureCounter == nil {
		return
	}
	feedSeenFailureCounter.Add(ctx, 1, metric.WithAttributes(
		attrComponent.String(m.component),
	))
}

func (m *feedMetrics) recordRebuild(ctx context.Context, feedType string) {
	if m == nil || !feedMetricsEnabled || feedRebuildCounter == nil {
		return
	}
	feedRebuildCounter.Add(ctx, 1, metric.WithAttributes(
		attrComponent.String(m.component),
		attrFeedType.String(feedType),
	))
}

func (m *feedMetrics) recordInvalidation(ctx context.Context, kind string, cleared int) {
	if m == nil || !feedMetricsEnabled || feedInvalidationCounter == nil {
		return
	}
	feedInvalidationCounter.Add(ctx, int64(cleared), metric.WithAttributes(
		attrComponent.String(m.component),
		attrChangeKind.String(kind),
	))
}

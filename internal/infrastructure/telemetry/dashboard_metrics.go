package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheStatsFunc reports cumulative cache counters
type CacheStatsFunc func() (hits, misses, entries int64)

// DashboardMetrics records dataset loads and refresh jobs. A nil
// *DashboardMetrics records nothing.
type DashboardMetrics struct {
	loads         metric.Int64Counter
	loadDuration  metric.Float64Histogram
	refreshes     metric.Int64Counter
	refreshLength metric.Float64Histogram
}

// NewDashboardMetrics creates the dashboard instruments on meter
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	var (
		m   DashboardMetrics
		err error
	)
	if m.loads, err = meter.Int64Counter("salesdash_dataset_loads",
		metric.WithDescription("Dataset loads from the warehouse or object store"),
		metric.WithUnit("{load}")); err != nil {
		return nil, err
	}
	if m.loadDuration, err = newDurationHistogram(meter, "salesdash_dataset_load_duration_seconds",
		"Time spent loading a dataset from its source", QueryDurationBuckets); err != nil {
		return nil, err
	}
	if m.refreshes, err = meter.Int64Counter("salesdash_refresh_jobs",
		metric.WithDescription("Completed refresh jobs"),
		metric.WithUnit("{job}")); err != nil {
		return nil, err
	}
	if m.refreshLength, err = newDurationHistogram(meter, "salesdash_refresh_duration_seconds",
		"Refresh job duration", QueryDurationBuckets); err != nil {
		return nil, err
	}
	return &m, nil
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String("error")
	}
	return AttrOutcome.String("success")
}

// RecordLoad records one source load of a dataset
func (m *DashboardMetrics) RecordLoad(ctx context.Context, dataset string, d time.Duration, err error) {
	if m == nil {
		return
	}
	ds := AttrDataset.String(dataset)
	m.loads.Add(ctx, 1, metric.WithAttributes(ds, outcome(err)))
	m.loadDuration.Record(ctx, d.Seconds(), metric.WithAttributes(ds))
}

// RecordRefresh records a finished refresh job
func (m *DashboardMetrics) RecordRefresh(ctx context.Context, dataset string, d time.Duration, err error) {
	if m == nil {
		return
	}
	ds := AttrDataset.String(dataset)
	m.refreshes.Add(ctx, 1, metric.WithAttributes(ds, outcome(err)))
	m.refreshLength.Record(ctx, d.Seconds(), metric.WithAttributes(ds))
}

// RegisterCacheStats exports cache counters as observable instruments
func RegisterCacheStats(meter metric.Meter, backend string, stats CacheStatsFunc) error {
	hits, err := meter.Int64ObservableCounter("salesdash_cache_hits",
		metric.WithDescription("Cache lookups that found a value"), metric.WithUnit("{lookup}"))
	if err != nil {
		return err
	}
	misses, err := meter.Int64ObservableCounter("salesdash_cache_misses",
		metric.WithDescription("Cache lookups that found nothing"), metric.WithUnit("{lookup}"))
	if err != nil {
		return err
	}
	entries, err := meter.Int64ObservableGauge("salesdash_cache_entries",
		metric.WithDescription("Entries held by the local cache tier"), metric.WithUnit("{entry}"))
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(AttrCacheBackend.String(backend))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		h, m, e := stats()
		o.ObserveInt64(hits, h, attrs)
		o.ObserveInt64(misses, m, attrs)
		o.ObserveInt64(entries, e, attrs)
		return nil
	}, hits, misses, entries)
	return err
}

package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
)

// Attribute keys shared by the dashboard instruments
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrDataset        = attribute.Key("dataset")
	AttrOutcome        = attribute.Key("outcome")
	AttrCacheBackend   = attribute.Key("cache.backend")
)

// Histogram bucket boundaries in seconds. Warehouse queries run far longer
// than API requests served from cache.
var (
	HTTPDurationBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	QueryDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
)

// MeterProvider collects OpenTelemetry instruments into a private Prometheus
// registry served on the scrape endpoint. A disabled or nil provider hands
// out the global no-op meter.
type MeterProvider struct {
	sdk      *sdkmetric.MeterProvider
	registry *prometheus.Registry
	log      *zap.Logger
}

// NewMeterProvider builds the provider and installs it globally when metrics
// are enabled
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, version string, log *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{log: log}
	if !cfg.MetricsEnabled {
		log.Info("Metrics disabled")
		return mp, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	res, err := serviceResource(ctx, cfg.ServiceName, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	mp.registry = registry
	mp.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp.sdk)

	log.Info("Metrics enabled", zap.String("path", cfg.MetricsPath))
	return mp, nil
}

// Enabled reports whether instruments are exported
func (mp *MeterProvider) Enabled() bool {
	return mp != nil && mp.sdk != nil
}

// Meter returns a named meter
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if !mp.Enabled() {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.sdk.Meter(name)
}

// Handler serves the Prometheus exposition format, or nil when disabled
func (mp *MeterProvider) Handler() http.Handler {
	if !mp.Enabled() {
		return nil
	}
	return promhttp.HandlerFor(mp.registry, promhttp.HandlerOpts{Registry: mp.registry})
}

// Shutdown stops the provider
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if !mp.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := mp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

func newDurationHistogram(meter metric.Meter, name, description string, buckets []float64) (metric.Float64Histogram, error) {
	h, err := meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return h, nil
}

// NewHTTPInstruments creates the request counter, latency histogram and
// in-flight gauge used by the HTTP middleware
func NewHTTPInstruments(meter metric.Meter) (metric.Int64Counter, metric.Float64Histogram, metric.Int64UpDownCounter, error) {
	total, err := meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, nil, nil, err
	}
	duration, err := newDurationHistogram(meter, "http_server_request_duration_seconds",
		"HTTP request latency distribution in seconds", HTTPDurationBuckets)
	if err != nil {
		return nil, nil, nil, err
	}
	active, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, nil, nil, err
	}
	return total, duration, active, nil
}

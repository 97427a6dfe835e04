package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/telemetry"
)

func passThrough(c *gin.Context) { c.Next() }

// HTTPMetrics records request count, latency and in-flight requests. It is a
// no-op when the meter provider is nil or disabled.
func HTTPMetrics(mp *telemetry.MeterProvider) gin.HandlerFunc {
	if !mp.Enabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(mp.Meter("salesdash/http"))
}

// HTTPMetricsWithMeter records HTTP metrics on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	total, duration, active, err := telemetry.NewHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		active.Add(ctx, 1)
		c.Next()
		active.Add(ctx, -1)

		// route pattern, not the raw path, to keep cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		routeAttr := telemetry.AttrHTTPRoute.String(route)

		total.Add(ctx, 1, metric.WithAttributes(method, routeAttr, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status())))
		duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(method, routeAttr))
	}
}

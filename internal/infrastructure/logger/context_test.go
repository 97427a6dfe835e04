package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestCorrelationValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithSubject(ctx, "sales-team")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "sales-team", GetSubject(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.Equal(t, "", GetTraceID(ctx))
}

func TestL_EnrichesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	traceID, _ := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	spanID, _ := trace.SpanIDFromHex("0123456789abcdef")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithContext(ctx, zap.New(core))
	ctx = WithRequestID(ctx, "req-9")

	L(ctx).Info("loaded")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "0123456789abcdef0123456789abcdef", fields["trace_id"])
	assert.Equal(t, "0123456789abcdef", fields["span_id"])
	assert.Equal(t, "req-9", fields["request_id"])
	assert.NotContains(t, fields, "subject")
	assert.Equal(t, "0123456789abcdef0123456789abcdef", GetTraceID(ctx))
}

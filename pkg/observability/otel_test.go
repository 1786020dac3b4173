package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestInitOTel_Disabled(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: false}, logger)

	assert.NoError(t, err)
	assert.Nil(t, providers)
}

func TestInitOTel_ExportersAreLazy(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	// OTLP exporters connect lazily, so an unreachable collector is not an error.
	providers, err := InitOTel(context.Background(), OTelConfig{
		Enabled:     true,
		Endpoint:    "127.0.0.1:1",
		ServiceName: "research-analytics-test",
		Insecure:    true,
		SampleRatio: 1,
	}, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_ = ShutdownOTel(ctx, providers, logger)
}

func TestShutdownOTel_NilProviders(t *testing.T) {
	assert.NoError(t, ShutdownOTel(context.Background(), nil, NewLogger(InfoLevel, &bytes.Buffer{})))
}

func TestUpdateLoggerWithTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	assert.Same(t, logger, UpdateLoggerWithTraceContext(context.Background(), logger))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	UpdateLoggerWithTraceContext(ctx, logger).Info("traced")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0]["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[0]["span_id"])
}

func TestSamplerFor(t *testing.T) {
	never := samplerFor(0)
	always := samplerFor(1)

	params := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       trace.TraceID{1},
		Name:          "op",
	}
	assert.Equal(t, sdktrace.Drop, never.ShouldSample(params).Decision)
	assert.Equal(t, sdktrace.RecordAndSample, always.ShouldSample(params).Decision)
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpan_EndRecordsStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, ok := NewSpan(context.Background(), tracer, "ok")
	ok.SetAttribute("rows", 3)
	ok.SetAttribute("backend", "memory")
	ok.SetAttribute("ratio", 0.5)
	ok.SetAttribute("flag", true)
	ok.SetAttribute("size", int64(9))
	ok.SetAttribute("other", []int{1})
	ok.End(nil)

	_, failed := NewSpan(context.Background(), tracer, "failed")
	failed.End(errors.New("disk full"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "ok", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Len(t, spans[0].Attributes(), 6)

	assert.Equal(t, "failed", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "disk full", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
}

func TestNewSpan_DefaultTracer(t *testing.T) {
	_, span := NewSpan(context.Background(), nil, "noop")
	assert.GreaterOrEqual(t, span.Elapsed().Nanoseconds(), int64(0))
	span.End(nil)
}

func TestInitTracing(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Exporter: ExporterNone})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(TracingConfig{Exporter: "jaeger"})
	assert.Error(t, err)

	var buf bytes.Buffer
	shutdown, err = InitTracing(TracingConfig{
		ServiceName:  "soa-test",
		Exporter:     ExporterStdout,
		SamplingRate: 1,
		Output:       &buf,
	})
	require.NoError(t, err)

	_, span := NewSpan(context.Background(), nil, "exported")
	span.End(nil)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "exported")
}

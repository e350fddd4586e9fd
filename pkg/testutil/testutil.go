// Package testutil provides testing utilities shared by the column model,
// store and persistence tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/persistence"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext returns a context with a 30-second timeout that is cancelled
// when the test completes.
func TestContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// IntegrationTest skips the calling test in short mode.
func IntegrationTest(t testing.TB) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t testing.TB, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// Telemetry bundles a private metrics registry, an in-memory span recorder
// and a test logger. Everything is torn down with the test.
type Telemetry struct {
	Registry *prometheus.Registry
	Recorder *tracetest.SpanRecorder
	Logger   *zap.Logger
	Metrics  *metrics.Collector

	provider *sdktrace.TracerProvider
}

// NewTelemetry creates a Telemetry whose metrics live under namespace.
func NewTelemetry(t testing.TB, namespace string) *Telemetry {
	t.Helper()

	reg := prometheus.NewRegistry()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return &Telemetry{
		Registry: reg,
		Recorder: recorder,
		Logger:   zaptest.NewLogger(t),
		Metrics:  metrics.NewCollector(namespace, reg),
		provider: tp,
	}
}

// Tracer returns a tracer that reports to the recorder.
func (tel *Telemetry) Tracer(name string) trace.Tracer {
	return tel.provider.Tracer(name)
}

// Options returns persistence options wired to this Telemetry, followed by extra.
func (tel *Telemetry) Options(extra ...persistence.Option) []persistence.Option {
	opts := []persistence.Option{
		persistence.WithLogger(tel.Logger),
		persistence.WithMetrics(tel.Metrics),
		persistence.WithTracer(tel.Tracer("testutil")),
	}
	return append(opts, extra...)
}

// SpanNames lists the names of ended spans in end order.
func (tel *Telemetry) SpanNames() []string {
	var names []string
	for _, s := range tel.Recorder.Ended() {
		names = append(names, s.Name())
	}
	return names
}

// Package metrics provides Prometheus instrumentation for the persistence
// layer. It offers a collector for operation counts, latency distribution
// and dataset size.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Registration against a caller-supplied registry
//   - A simple Timer for measuring operation durations
//
// # Basic Usage
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector("soa", reg)
//
//	timer := metrics.NewTimer("save")
//	err := p.Save(ctx, data)
//	collector.ObserveOperation("parquet", "save", timer.Stop(), err)
//
// A nil *Collector is valid and records nothing, so components can keep an
// optional collector without branching at every call site.
//
// # Metric Types
//
// Counter: operations by backend, operation and status
// Histogram: operation latency in seconds
// Gauge: rows and bytes held by a backend after the last write
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// StatusSuccess labels an operation that returned no error
	StatusSuccess = "success"
	// StatusFailure labels an operation that returned an error
	StatusFailure = "failure"
)

// Collector wraps the Prometheus vectors used by persistence backends.
// Each process normally creates one collector per registry.
type Collector struct {
	operations *prometheus.CounterVec   // Operations by backend, operation, status
	latency    *prometheus.HistogramVec // Operation latency distribution
	rows       *prometheus.GaugeVec     // Rows held per backend
	bytes      *prometheus.GaugeVec     // Bytes held per backend
}

// NewCollector creates a collector and registers its vectors with reg.
// The namespace prefixes every metric name. If reg is nil the vectors are
// created but not registered.
//
// Example:
//
//	collector := metrics.NewCollector("soa", prometheus.DefaultRegisterer)
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persistence_operations_total",
				Help:      "Total number of persistence operations",
			},
			[]string{"backend", "operation", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "persistence_operation_duration_seconds",
				Help:      "Persistence operation latency in seconds",
				Buckets: []float64{
					1e-5, // 10μs - in-memory batch list
					1e-4, // 100μs
					1e-3, // 1ms - small parquet files
					1e-2, // 10ms
					1e-1, // 100ms - large rewrites
					1,    // 1s
					10,   // 10s
				},
			},
			[]string{"backend", "operation"},
		),
		rows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "persistence_rows",
				Help:      "Rows held by the backend after the last write",
			},
			[]string{"backend"},
		),
		bytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "persistence_bytes",
				Help:      "Bytes held by the backend after the last write",
			},
			[]string{"backend"},
		),
	}
}

// ObserveOperation counts one operation and records its latency.
func (c *Collector) ObserveOperation(backend, operation string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	c.operations.WithLabelValues(backend, operation, status).Inc()
	c.latency.WithLabelValues(backend, operation).Observe(d.Seconds())
}

// SetRows records the number of rows a backend holds.
func (c *Collector) SetRows(backend string, n int64) {
	if c == nil {
		return
	}
	c.rows.WithLabelValues(backend).Set(float64(n))
}

// SetBytes records the number of bytes a backend holds.
func (c *Collector) SetBytes(backend string, n int64) {
	if c == nil {
		return
	}
	c.bytes.WithLabelValues(backend).Set(float64(n))
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

package persistence

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/logger"
	"github.com/ajitpratap0/soa/pkg/metrics"
	"github.com/ajitpratap0/soa/pkg/observability"
)

// Backend names used in logs, spans and metric labels.
const (
	BackendMemory  = "memory"
	BackendParquet = "parquet"
)

// DefaultPageSize is the Parquet data page size used when none is given.
const DefaultPageSize = 1024 * 1024

// Option configures a backend.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	mem         memory.Allocator
	metrics     *metrics.Collector
	tracer      trace.Tracer
	compression compression.Algorithm
	pageSize    int64
	snapshot    compression.Config
}

func newOptions(opts []Option) options {
	o := options{
		logger:      logger.Get(),
		mem:         memory.DefaultAllocator,
		tracer:      observability.Tracer(),
		compression: compression.Snappy,
		pageSize:    DefaultPageSize,
		snapshot:    compression.Config{Algorithm: compression.Zstd, Level: compression.Default},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAllocator sets the Arrow allocator used for encoding and reading.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) { o.mem = mem }
}

// WithMetrics records operation metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithCompression sets the Parquet page codec. Snappy is the default.
func WithCompression(a compression.Algorithm) Option {
	return func(o *options) { o.compression = a }
}

// WithPageSize sets the Parquet data page size in bytes.
func WithPageSize(n int64) Option {
	return func(o *options) { o.pageSize = n }
}

// WithSnapshotCompression sets the stream codec used by WriteSnapshot and
// expected by ReadSnapshot. Zstd is the default.
func WithSnapshotCompression(a compression.Algorithm, level compression.Level) Option {
	return func(o *options) { o.snapshot = compression.Config{Algorithm: a, Level: level} }
}

// operation instruments one backend call.
type operation struct {
	o       *options
	backend string
	name    string
	span    *observability.Span
	timer   *metrics.Timer
	fields  []zap.Field
}

func (o *options) begin(ctx context.Context, backend, name string) (context.Context, *operation) {
	ctx, span := observability.NewSpan(ctx, o.tracer, backend+"."+name)
	span.SetAttribute("soa.backend", backend)
	return ctx, &operation{
		o:       o,
		backend: backend,
		name:    name,
		span:    span,
		timer:   metrics.NewTimer(name),
	}
}

// rows attaches a row count to the span and log entry.
func (op *operation) rows(n int64) {
	op.span.SetAttribute("soa.rows", n)
	op.fields = append(op.fields, zap.Int64("rows", n))
}

func (op *operation) end(err error) {
	d := op.timer.Stop()
	op.span.End(err)
	op.o.metrics.ObserveOperation(op.backend, op.name, d, err)

	fields := append(op.fields,
		zap.String("backend", op.backend),
		zap.String("operation", op.name),
		zap.Duration("duration", d),
	)
	if err != nil {
		op.o.logger.Warn("persistence operation failed", append(fields, zap.Error(err))...)
		return
	}
	op.o.logger.Debug("persistence operation completed", fields...)
}

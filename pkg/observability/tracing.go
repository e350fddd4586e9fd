// Package observability provides OpenTelemetry tracing for the SoA engine
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans emitted by this module
const InstrumentationName = "github.com/ajitpratap0/soa"

// Tracer returns the module tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Span wraps an OpenTelemetry span with convenience methods
type Span struct {
	span      trace.Span
	startTime time.Time
}

// NewSpan starts a span named operationName using tracer. A nil tracer
// falls back to Tracer().
func NewSpan(ctx context.Context, tracer trace.Tracer, operationName string) (context.Context, *Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	ctx, span := tracer.Start(ctx, operationName)
	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute sets an attribute on the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}
	s.span.SetAttributes(attr)
}

// Elapsed returns the time since the span started
func (s *Span) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// End records err, if any, sets the span status and ends the span
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

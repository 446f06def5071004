// Package telemetry implements the tracing adapter on OpenTelemetry.
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Tracer = (*Tracer)(nil)

// Tracer implements ports.Tracer over an OpenTelemetry tracer provider.
// With a nil writer spans are recorded but never exported, which keeps the
// span plumbing alive at zero cost when tracing is off.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer creates a tracer exporting JSON spans to w, or a non-exporting
// one when w is nil.
func NewTracer(name string, w io.Writer) (*Tracer, error) {
	var opts []sdktrace.TracerProviderOption
	if w != nil {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create trace exporter")
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(name),
	}, nil
}

// StartSpan begins a span and returns the derived context.
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &Span{span: span}
}

// Shutdown flushes any pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// Span wraps one OpenTelemetry span.
type Span struct {
	span trace.Span
}

// SetAttr attaches a key/value attribute to the span.
func (s *Span) SetAttr(key string, value any) {
	var attr attribute.KeyValue
	switch typed := value.(type) {
	case string:
		attr = attribute.String(key, typed)
	case int:
		attr = attribute.Int(key, typed)
	case int64:
		attr = attribute.Int64(key, typed)
	case float64:
		attr = attribute.Float64(key, typed)
	case bool:
		attr = attribute.Bool(key, typed)
	case []string:
		attr = attribute.StringSlice(key, typed)
	default:
		attr = attribute.String(key, "unsupported")
	}
	s.span.SetAttributes(attr)
}

// End completes the span, recording err when non-nil.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

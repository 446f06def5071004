package ports

import "context"

// Span is one traced operation.
type Span interface {
	// SetAttr attaches a key/value attribute to the span.
	SetAttr(key string, value any)

	// End completes the span, recording err when non-nil.
	End(err error)
}

// Tracer emits spans around configure and build operations.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// StartSpan begins a span and returns the derived context.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// Shutdown flushes any pending spans.
	Shutdown(ctx context.Context) error
}

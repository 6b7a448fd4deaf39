package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// TracerKey is the context key the tracer is stored under.
const TracerKey contextKey = "tracer"

// WithTracer stores tracer in the context. StartErr creates spans only when a
// tracer is present.
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("formctl"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext returns the tracer stored by WithTracer.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	tracer, ok := ctx.Value(TracerKey).(trace.Tracer)

	return tracer, ok && tracer != nil
}

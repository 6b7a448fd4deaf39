// Package spans runs a function inside an OpenTelemetry span.
//
//	err := spans.StartErr(ctx, "form.validate",
//	    spans.WithAttribute("form.path", attribute.StringValue(path)),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return run(ctx)
//	})
//
// A returned error is recorded on the span and sets an Error status. A panic is
// recorded and re-raised.
package spans

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Option configures one span.
type Option func(*runner)

// WithAttribute adds an attribute when the span starts.
func WithAttribute(key attribute.Key, value attribute.Value) Option {
	return func(r *runner) {
		r.sso = append(r.sso, trace.WithAttributes(attribute.KeyValue{Key: key, Value: value}))
	}
}

// WithSpanKind sets the span kind. The default is SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.kind = kind
	}
}

// WithErrorMessage prefixes the Error status description.
func WithErrorMessage(msg string) Option {
	return func(r *runner) {
		r.failure = msg
	}
}

type runner struct {
	name    string
	kind    trace.SpanKind
	failure string
	sso     []trace.SpanStartOption
}

// StartErrorOrchestrator runs a function returning an error. Create it with StartErr.
type StartErrorOrchestrator struct {
	ctx  context.Context //nolint:containedctx
	name string
	opts []Option
}

// StartErr prepares a span named name.
func StartErr(ctx context.Context, name string, opts ...Option) *StartErrorOrchestrator {
	return &StartErrorOrchestrator{ctx: ctx, name: name, opts: opts}
}

// Enter calls f inside the span and returns its error unchanged. Without a tracer
// in the context f runs with the context's current span.
func (o *StartErrorOrchestrator) Enter(f func(ctx context.Context, span trace.Span) error) (errOut error) {
	if f == nil {
		return nil
	}

	tracer, found := TracerFromContext(o.ctx)
	if !found {
		spanWithoutTracerCounter.WithLabelValues(o.name).Inc()

		return f(o.ctx, trace.SpanFromContext(o.ctx))
	}

	r := &runner{name: o.name, kind: trace.SpanKindInternal}

	for _, opt := range o.opts {
		if opt != nil {
			opt(r)
		}
	}

	ctx, span := tracer.Start(o.ctx, r.name, append(r.sso, trace.WithSpanKind(r.kind))...)
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			span.SetAttributes(attribute.Bool("panic", true))
			r.setError(span, fmt.Errorf("panic: %v", p)) //nolint:err113

			panic(p)
		}
	}()

	err := f(ctx, span)
	if err != nil {
		span.RecordError(err)
		r.setError(span, err)

		return err
	}

	span.SetStatus(codes.Ok, "ok")

	return nil
}

func (r *runner) setError(span trace.Span, err error) {
	if r.failure != "" {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))

		return
	}

	span.SetStatus(codes.Error, err.Error())
}

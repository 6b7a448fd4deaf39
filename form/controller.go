// Package form binds a schema.Schema to a live form value.
//
// A Controller validates the value returned by its Accessor, keeps the resulting
// per-field messages in a flat list a UI can render, and tracks whether the form
// is valid. It can also snapshot the value and report which fields changed since.
//
//	c := form.New[Signup](signupRules, func() Signup { return current })
//	if err := c.Validate(ctx); err != nil {
//	    return err // the schema itself failed, not the value
//	}
//	if msg, ok := c.ErrorText("email").Get(); ok {
//	    showUnder("email", msg)
//	}
//
// Rule violations never surface as errors: they end up in the error list and in
// State. A non-nil error from Validate or ValidateField is whatever the schema
// returned, unchanged.
//
// Validate and ValidateField do not hold a lock while the schema runs, so two
// overlapping passes may interleave their clear and append steps. Wrap the
// controller with Serialized when that matters.
package form

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/amp-labs/amp-forms/logger"
	"github.com/amp-labs/amp-forms/optional"
	"github.com/amp-labs/amp-forms/schema"
	"github.com/amp-labs/amp-forms/spans"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// Accessor returns the current form value. The controller calls it at the start of
// every pass and never mutates what it returns.
type Accessor[T any] func() T

// Static is an Accessor that always returns value.
func Static[T any](value T) Accessor[T] {
	return func() T {
		return value
	}
}

// Controller validates one form value against a replaceable schema.
type Controller[T any] struct {
	mu       sync.Mutex
	schema   schema.Schema[T]
	value    Accessor[T]
	state    State
	errors   []FieldError
	snapshot optional.Value[T]

	cfg    config
	passes atomic.Uint64
}

// New returns a controller in StateUnknown. Nothing is validated until Validate or
// ValidateField is called.
func New[T any](s schema.Schema[T], value Accessor[T], opts ...Option) *Controller[T] {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if value == nil {
		var zero T

		value = Static(zero)
	}

	return &Controller[T]{
		schema: s,
		value:  value,
		state:  StateUnknown,
		cfg:    cfg,
	}
}

// Schema returns the current schema.
func (c *Controller[T]) Schema() schema.Schema[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.schema
}

// ChangeSchema clears every error and swaps in s. State keeps its last value and
// nothing is revalidated. A pass already running finishes against the old schema.
func (c *Controller[T]) ChangeSchema(s schema.Schema[T]) {
	c.mu.Lock()
	c.errors = nil
	c.schema = s
	state := c.state
	c.mu.Unlock()

	c.log().Debug("form schema changed", "state", state.String())
}

// State returns the outcome of the last completed pass.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Errors returns a copy of the error list in the order the schema reported it.
func (c *Controller[T]) Errors() []FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.errors)
}

// HasErrors reports whether any error is recorded.
func (c *Controller[T]) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.errors) > 0
}

// Error returns the first error recorded for path.
func (c *Controller[T]) Error(path string) optional.Value[FieldError] {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.errors {
		if e.Path == path {
			return optional.Some(e)
		}
	}

	return optional.None[FieldError]()
}

// ErrorText returns the message of the first error recorded for path.
func (c *Controller[T]) ErrorText(path string) optional.Value[string] {
	return optional.Map(c.Error(path), func(e FieldError) string {
		return e.Message
	})
}

// ClearError removes every error recorded for path. State is not touched.
func (c *Controller[T]) ClearError(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = slices.DeleteFunc(c.errors, func(e FieldError) bool {
		return e.Path == path
	})
}

// ClearAllErrors empties the error list. State is not touched.
func (c *Controller[T]) ClearAllErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = nil
}

// Validate clears all errors and validates the whole value. Every issue in the
// schema's report becomes a FieldError, and State becomes StateValid or
// StateInvalid. An error from the schema is returned as is, leaving the error list
// empty and State untouched.
func (c *Controller[T]) Validate(ctx context.Context) error {
	c.ClearAllErrors()

	return c.run(ctx, kindForm, "",
		func(ctx context.Context, s schema.Schema[T], value T, opts schema.Options) (schema.Report, error) {
			return s.Validate(ctx, value, opts)
		},
		func(schema.Issue) bool {
			return true
		})
}

// ValidateField clears the errors for path and validates that subtree only. Issues
// for other paths are ignored, as are issues without a message. State is then
// recomputed from the whole error list, so errors left on other fields keep the
// form invalid. An error from the schema is returned as is.
func (c *Controller[T]) ValidateField(ctx context.Context, path string) error {
	c.ClearError(path)

	return c.run(ctx, kindField, path,
		func(ctx context.Context, s schema.Schema[T], value T, opts schema.Options) (schema.Report, error) {
			return s.ValidateAt(ctx, path, value, opts)
		},
		func(issue schema.Issue) bool {
			return issue.Path == path && issue.Message != ""
		})
}

type validateFunc[T any] func(ctx context.Context, s schema.Schema[T], value T, opts schema.Options) (schema.Report, error)

func (c *Controller[T]) run(
	ctx context.Context, kind, path string, validate validateFunc[T], keep func(schema.Issue) bool,
) error {
	passID := uuid.NewString()
	seq := c.passes.Inc()

	if _, ok := spans.TracerFromContext(ctx); !ok {
		ctx = spans.WithTracer(ctx, c.cfg.tracer)
	}

	name := "form.validate"
	if kind == kindField {
		name = "form.validate_field"
	}

	return spans.StartErr(ctx, name,
		spans.WithAttribute("form.path", attribute.StringValue(path)),
		spans.WithAttribute("form.pass_id", attribute.StringValue(passID)),
	).Enter(func(ctx context.Context, span trace.Span) error {
		current := c.Schema()
		value := c.value()

		start := time.Now()
		report, err := validate(ctx, current, value, c.cfg.options)
		elapsed := time.Since(start)

		if err != nil {
			observe(c.cfg.metrics, kind, outcomeError, elapsed)

			return err
		}

		state, count := c.absorb(report, keep)

		outcome := outcomeValid
		if state == StateInvalid {
			outcome = outcomeInvalid
		}

		observe(c.cfg.metrics, kind, outcome, elapsed)

		span.SetAttributes(
			attribute.String("form.state", state.String()),
			attribute.Int("form.errors", count),
		)

		c.log(ctx).Debug("form validated",
			"kind", kind,
			"path", path,
			"state", state.String(),
			"errors", count,
			"pass_id", passID,
			"pass", seq,
			"report", report.String())

		return nil
	})
}

// absorb appends the kept issues and recomputes State from the whole list.
func (c *Controller[T]) absorb(report schema.Report, keep func(schema.Issue) bool) (State, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, issue := range report.Issues {
		if keep(issue) {
			c.errors = append(c.errors, fromIssue(issue))
		}
	}

	c.state = stateOf(c.errors)

	return c.state, len(c.errors)
}

func (c *Controller[T]) log(ctx ...context.Context) *slog.Logger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}

	return logger.Get(ctx...)
}

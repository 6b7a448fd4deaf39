package form

import (
	"log/slog"

	"github.com/amp-labs/amp-forms/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/amp-forms/form"

type config struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics bool
	options schema.Options
}

func defaultConfig() config {
	return config{
		tracer:  otel.Tracer(tracerName),
		metrics: true,
		options: schema.DefaultOptions(),
	}
}

// Option configures a Controller.
type Option func(*config)

// WithLogger makes the controller log to l instead of the logger carried by the
// context.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithTracer sets the tracer for validation spans. The default comes from the
// global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithMetrics turns the prometheus collectors on or off. They are on by default.
func WithMetrics(enabled bool) Option {
	return func(c *config) {
		c.metrics = enabled
	}
}

// WithOptions overrides the options passed to the schema. Controllers validate
// with schema.DefaultOptions unless told otherwise.
func WithOptions(opts schema.Options) Option {
	return func(c *config) {
		c.options = opts
	}
}

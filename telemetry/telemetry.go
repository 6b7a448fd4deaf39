// Package telemetry wires OpenTelemetry tracing and log export for the formctl
// binary.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amp-labs/amp-forms/logger"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

var (
	mu             sync.Mutex               //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
	loggerProvider *sdklog.LoggerProvider   //nolint:gochecknoglobals
)

// Config holds the OpenTelemetry configuration. The env tags are relative to the
// OTEL_ prefix the config package puts in front of them.
type Config struct {
	Enabled        bool          `env:"ENABLED"                       envDefault:"false"`
	ServiceName    string        `env:"SERVICE_NAME"                  envDefault:"formctl"`
	ServiceVersion string        `env:"SERVICE_VERSION"               envDefault:"1.0.0"`
	Environment    string        `env:"DEPLOYMENT_ENVIRONMENT"        envDefault:"local"`
	Endpoint       string        `env:"EXPORTER_OTLP_TRACES_ENDPOINT"`
	Timeout        time.Duration `env:"EXPORTER_OTLP_TRACES_TIMEOUT"  envDefault:"5s"`
	LogsEndpoint   string        `env:"EXPORTER_OTLP_LOGS_ENDPOINT"`
}

// Initialize installs a global tracer provider exporting over OTLP/HTTP and, when
// LogsEndpoint is set, a logger provider for LogHandler. It does nothing when
// telemetry is disabled or no endpoint is configured.
func Initialize(ctx context.Context, config Config) error {
	log := logger.Get(ctx)

	if !config.Enabled {
		log.Debug("OpenTelemetry is disabled")

		return nil
	}

	if config.Endpoint == "" && config.LogsEndpoint == "" {
		log.Warn("OpenTelemetry endpoint not configured, telemetry will be disabled")

		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	if config.Endpoint != "" {
		if err := initTracing(ctx, config, res); err != nil {
			return err
		}
	}

	if config.LogsEndpoint != "" {
		if err := initLogs(ctx, config, res); err != nil {
			return err
		}
	}

	log.Info("OpenTelemetry initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"endpoint", config.Endpoint,
		"logsEndpoint", config.LogsEndpoint,
	)

	return nil
}

func initTracing(ctx context.Context, config Config, res *resource.Resource) error {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	mu.Lock()
	tracerProvider = provider
	mu.Unlock()

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return nil
}

func initLogs(ctx context.Context, config Config, res *resource.Resource) error {
	exporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(config.LogsEndpoint),
		otlploghttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	mu.Lock()
	loggerProvider = provider
	mu.Unlock()

	return nil
}

// LogHandler returns a slog handler that exports records through the logger
// provider installed by Initialize, or nil when log export is off.
func LogHandler(name string) slog.Handler {
	mu.Lock()
	defer mu.Unlock()

	if loggerProvider == nil {
		return nil
	}

	return otelslog.NewHandler(name, otelslog.WithLoggerProvider(loggerProvider))
}

// Shutdown flushes pending spans and log records and stops the providers
// installed by Initialize.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	traces, logs := tracerProvider, loggerProvider
	tracerProvider, loggerProvider = nil, nil
	mu.Unlock()

	var errs []error

	if traces != nil {
		logger.Get(ctx).Debug("Shutting down OpenTelemetry tracer provider")

		errs = append(errs, traces.Shutdown(ctx))
	}

	if logs != nil {
		logger.Get(ctx).Debug("Shutting down OpenTelemetry logger provider")

		errs = append(errs, logs.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

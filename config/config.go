// Package config reads formctl settings from the environment.
//
//	FORMCTL_LOG_JSON=true                   # JSON log lines instead of text
//	FORMCTL_LOG_LEVEL=debug                 # slog level name
//	FORMCTL_WORKERS=8                       # pool size for concurrent field passes
//	OTEL_ENABLED=true                       # see telemetry.Config for the rest
//	OTEL_EXPORTER_OTLP_TRACES_ENDPOINT=http://localhost:4318
//	OTEL_EXPORTER_OTLP_LOGS_ENDPOINT=http://localhost:4318  # optional log export
//
// A .env file in the working directory is read first when present. Variables
// already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amp-labs/amp-forms/telemetry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the formctl configuration.
type Config struct {
	LogJSON   bool             `env:"FORMCTL_LOG_JSON"  envDefault:"false"`
	LogLevel  slog.Level       `env:"FORMCTL_LOG_LEVEL" envDefault:"INFO"`
	Workers   int              `env:"FORMCTL_WORKERS"   envDefault:"4"`
	Telemetry telemetry.Config `envPrefix:"OTEL_"`
}

//nolint:gochecknoglobals
var (
	defaultEnvLoaded sync.Once
	load             = sync.OnceValues(func() (Config, error) {
		return parse(env.Options{})
	})
)

// Load parses the process environment once and returns the same result on every
// later call.
func Load() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional.
		_ = godotenv.Load()
	})

	return load()
}

// Parse reads Config from the given variables only, ignoring the process
// environment. Unset variables take their defaults.
func Parse(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

// LoadEnv reads the named .env files into the process environment without
// overriding variables that are already set.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}

	return nil
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	return cfg, nil
}

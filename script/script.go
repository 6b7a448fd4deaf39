// Package script runs a command-line entry point with configured logging, Ctrl+C
// handling and exit codes.
//
//	func main() {
//	    script.New("formctl", script.LogLevel(cfg.LogLevel)).Run(func(ctx context.Context) error {
//	        if invalid {
//	            return script.Exit(1)
//	        }
//	        return nil
//	    })
//	}
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/amp-labs/amp-forms/config"
	"github.com/amp-labs/amp-forms/logger"
)

// Option configures a Script.
type Option func(script *Script)

// Exit makes the script exit with code without logging an error.
func Exit(code int) error {
	return &exitError{
		code: code,
	}
}

// ExitWithError makes the script log err and exit with code 1.
func ExitWithError(err error) error {
	return &exitError{
		err:  err,
		code: 1,
	}
}

// ExitWithErrorMessage is ExitWithError with a formatted message.
func ExitWithErrorMessage(msg string, args ...any) error {
	return &exitError{
		err:  fmt.Errorf(msg, args...), //nolint:err113
		code: 1,
	}
}

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	msg := "exit " + strconv.FormatInt(int64(e.code), 10)

	if e.err != nil {
		return msg + ": " + e.err.Error()
	}

	return msg
}

func (e *exitError) Unwrap() error {
	return e.err
}

// LogLevel sets the minimum log level.
func LogLevel(lvl slog.Level) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.MinLevel = lvl
		})
	}
}

// LegacyLogLevel sets the level of output written through the standard "log"
// package.
func LegacyLogLevel(lvl slog.Level) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.LegacyLevel = lvl
		})
	}
}

// LogJSON switches to JSON log lines.
func LogJSON(enabled bool) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.JSON = enabled
		})
	}
}

// LogOutput sets where logs are written. The default is stdout.
func LogOutput(writer io.Writer) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.Output = writer
		})
	}
}

// WithEnvFiles loads the given .env files before the script runs.
func WithEnvFiles(paths ...string) Option {
	return func(script *Script) {
		script.envFiles = append(script.envFiles, paths...)
	}
}

// Script is a runnable entry point.
type Script struct {
	name       string
	envFiles   []string
	loggerOpts []func(*logger.Options)
}

// New creates a Script named scriptName. The name becomes the log subsystem.
func New(scriptName string, opts ...Option) *Script {
	script := &Script{
		name: scriptName,
	}

	for _, opt := range opts {
		opt(script)
	}

	return script
}

// Run calls f with a context that is canceled on Ctrl+C or SIGTERM, then exits the process
// with the resulting code. It does not return.
func (r *Script) Run(f func(ctx context.Context) error) {
	os.Exit(run(r.name, f, r.envFiles, r.loggerOpts...))
}

func run(
	scriptName string,
	callback func(ctx context.Context) error,
	envFiles []string,
	opts ...func(*logger.Options),
) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := logger.Options{Subsystem: scriptName}
	for _, opt := range opts {
		opt(&options)
	}

	logger.ConfigureLoggingWithOptions(options)

	log := logger.Get(ctx)

	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			log.Error("error loading env files", "error", err)

			return 1
		}
	}

	if callback == nil {
		log.Error("callback is nil")

		return 1
	}

	err := callback(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			log.Error("error running script", "error", exitErr.err)
		}

		return exitErr.code
	}

	log.Error("error running script", "error", err)

	return 1
}

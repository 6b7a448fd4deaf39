// Command formctl validates form values against YAML rule documents.
//
//	formctl validate -rules signup.yaml -value answers.yaml
//	formctl validate -rules signup.yaml -value answers.json -field age,email
//	formctl fill -rules signup.yaml
//
// validate exits with status 1 when the value is invalid. fill asks for every
// field in the rule document, checking each answer as it is given.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/amp-forms/cli"
	"github.com/amp-labs/amp-forms/config"
	"github.com/amp-labs/amp-forms/logger"
	"github.com/amp-labs/amp-forms/script"
	"github.com/amp-labs/amp-forms/spans"
	"github.com/amp-labs/amp-forms/telemetry"
	"go.opentelemetry.io/otel"
)

const usage = `usage:
  formctl validate -rules FILE -value FILE [-field PATH[,PATH...]]
  formctl fill -rules FILE [-value FILE]`

var (
	errUsage   = errors.New(usage)
	errInvalid = errors.New("form is invalid")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	script.New("formctl",
		script.LogLevel(cfg.LogLevel),
		script.LogJSON(cfg.LogJSON),
		script.LogOutput(os.Stderr),
	).Run(func(ctx context.Context) error {
		return execute(ctx, cfg, os.Args[1:], os.Stdout, cli.Prompter{})
	})
}

func execute(ctx context.Context, cfg config.Config, args []string, out io.Writer, ask asker) error {
	if len(args) == 0 {
		return script.ExitWithError(errUsage)
	}

	if err := telemetry.Initialize(ctx, cfg.Telemetry); err != nil {
		return err
	}

	defer func() {
		if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Get(ctx).Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx = logger.WithHandlers(ctx, telemetry.LogHandler("formctl"))
	ctx = spans.WithTracer(ctx, otel.Tracer("formctl"))

	var err error

	switch args[0] {
	case "validate":
		err = runValidate(ctx, cfg, args[1:], out)
	case "fill":
		err = runFill(ctx, args[1:], out, ask)
	default:
		return script.ExitWithError(errUsage)
	}

	if errors.Is(err, errInvalid) {
		return script.Exit(1)
	}

	return err
}

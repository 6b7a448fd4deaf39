package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/amp-forms/cli"
	"github.com/amp-labs/amp-forms/config"
	"github.com/amp-labs/amp-forms/form"
)

func runValidate(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(out)

	rulesPath := fs.String("rules", "", "YAML rule document")
	valuePath := fs.String("value", "", "YAML or JSON value document")
	fields := fs.String("field", "", "comma separated paths to validate instead of the whole value")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rulesPath == "" || *valuePath == "" {
		return errUsage
	}

	doc, err := loadRules(*rulesPath)
	if err != nil {
		return err
	}

	value, err := loadValue(*valuePath)
	if err != nil {
		return err
	}

	c := form.New[map[string]any](doc.set, form.Static(value))

	switch paths := splitPaths(*fields); len(paths) {
	case 0:
		err = c.Validate(ctx)
	case 1:
		err = c.ValidateField(ctx, paths[0])
	default:
		runner := form.NewRunner(cfg.Workers)
		err = runner.ValidateFields(ctx, form.Serialized(c), paths...)

		runner.Stop()
	}

	if err != nil {
		return err
	}

	var report strings.Builder

	printErrors(&report, c.Errors())
	fmt.Fprintf(&report, "state: %s", c.State())

	fmt.Fprintln(out, cli.Banner(report.String(), cli.DefaultWidth, cli.AlignLeft))

	if c.State() == form.StateInvalid {
		return errInvalid
	}

	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/amp-labs/amp-forms/cli"
	"github.com/amp-labs/amp-forms/fieldpath"
	"github.com/amp-labs/amp-forms/form"
	"github.com/amp-labs/amp-forms/logger"
	"github.com/amp-labs/amp-forms/schema/rules"
)

// asker is the part of cli.Prompter that fill needs.
type asker interface {
	PromptValidated(label, def string, validate func(string) error) (string, error)
	Select(label string, choices ...string) (int, string, error)
}

var _ asker = cli.Prompter{}

// formValue is the answers collected so far.
type formValue struct {
	mu     sync.Mutex
	values map[string]any
}

func (v *formValue) get() map[string]any {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.values
}

func (v *formValue) set(path string, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return fieldpath.SetMap(v.values, path, value)
}

func runFill(ctx context.Context, args []string, out io.Writer, ask asker) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	fs.SetOutput(out)

	rulesPath := fs.String("rules", "", "YAML rule document")
	valuePath := fs.String("value", "", "optional YAML or JSON document with starting values")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rulesPath == "" {
		return errUsage
	}

	doc, err := loadRules(*rulesPath)
	if err != nil {
		return err
	}

	initial, err := loadValue(*valuePath)
	if err != nil {
		return err
	}

	value := &formValue{values: initial}
	c := form.New[map[string]any](doc.set, value.get)
	c.TakeSnapshot()

	for _, field := range doc.def.Fields {
		if err := askField(ctx, c, value, field, out, ask); err != nil {
			return err
		}
	}

	if err := c.Validate(ctx); err != nil {
		return err
	}

	var report strings.Builder

	for _, field := range doc.def.Fields {
		fmt.Fprintf(&report, "%s: changed=%t touched=%t\n",
			field.Path, c.IsChanged(field.Path).GetOrElse(false), c.IsTouched(field.Path))
	}

	printErrors(&report, c.Errors())
	fmt.Fprintf(&report, "state: %s", c.State())

	fmt.Fprintln(out, cli.Banner(report.String(), cli.DefaultWidth, cli.AlignLeft))

	if c.State() == form.StateInvalid {
		return errInvalid
	}

	return nil
}

// askField prompts until the answer for the field passes its rules. Fields with a
// one_of rule are offered as a list.
func askField(
	ctx context.Context, c *form.Controller[map[string]any], value *formValue,
	field rules.FieldDefinition, out io.Writer, ask asker,
) error {
	path, label := field.Path, fieldLabel(field)
	choices := choicesOf(field)

	current := ""
	if v, ok := fieldpath.Get(value.get(), path); ok && v != nil {
		current = fmt.Sprint(v)
	}

	for {
		var (
			answer string
			err    error
		)

		if len(choices) > 0 {
			_, answer, err = ask.Select(label, choices...)
		} else {
			answer, err = ask.PromptValidated(label, current, nil)
		}

		if err != nil {
			return err
		}

		if err := value.set(path, parseAnswer(answer)); err != nil {
			return err
		}

		if err := c.ValidateField(ctx, path); err != nil {
			return err
		}

		msg, failed := c.ErrorText(path).Get()
		if !failed {
			return nil
		}

		logger.Get(ctx).Debug("answer rejected", "path", path, "message", msg)
		fmt.Fprintf(out, "  %s %s\n", label, msg)

		current = answer
	}
}

func fieldLabel(field rules.FieldDefinition) string {
	if field.Label != "" {
		return field.Label
	}

	return field.Path
}

func choicesOf(field rules.FieldDefinition) []string {
	for _, rd := range field.Rules {
		if rd.Rule != rules.KindOneOf {
			continue
		}

		out := make([]string, 0, len(rd.Values))
		for _, v := range rd.Values {
			out = append(out, fmt.Sprint(v))
		}

		return out
	}

	return nil
}

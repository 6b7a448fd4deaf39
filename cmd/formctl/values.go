package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amp-labs/amp-forms/form"
	"github.com/amp-labs/amp-forms/schema/rules"
	"gopkg.in/yaml.v3"
)

var errNotObject = errors.New("value document must be a mapping")

type ruleDocument struct {
	def rules.Definition
	set *rules.Set[map[string]any]
}

func loadRules(path string) (ruleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ruleDocument{}, fmt.Errorf("reading rules: %w", err)
	}

	def, err := rules.ParseDefinition(data)
	if err != nil {
		return ruleDocument{}, fmt.Errorf("%s: %w", path, err)
	}

	set, err := rules.Build[map[string]any](def)
	if err != nil {
		return ruleDocument{}, fmt.Errorf("%s: %w", path, err)
	}

	return ruleDocument{def: def, set: set}, nil
}

// loadValue reads a YAML or JSON mapping.
func loadValue(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading value: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	switch v := doc.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w, %s holds %T", errNotObject, path, doc)
	}
}

// parseAnswer types an answer: "18" is an int, "true" a bool, an empty answer is
// nil. Anything that does not print back the same way, such as "0150", stays text.
func parseAnswer(text string) any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return text
	}

	switch v.(type) {
	case int, float64, bool:
		if fmt.Sprint(v) == text {
			return v
		}
	}

	return text
}

func splitPaths(list string) []string {
	var out []string

	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func printErrors(out *strings.Builder, errs []form.FieldError) {
	for _, e := range errs {
		fmt.Fprintf(out, "%s\n", e)
	}
}

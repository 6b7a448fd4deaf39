// Package rules is a small declarative validation engine.
//
// A Set maps field paths to ordered lists of Rules and optionally carries object
// rules that look at the whole value. Every rule's Check receives a context, so a
// rule may do I/O (a uniqueness lookup, a remote policy call); an error from Check
// aborts the pass and is returned as is.
//
//	set := rules.New[Signup]().
//	    Field("name", rules.Required()).
//	    Field("age", rules.Min(18)).
//	    Field("email", rules.Required(), rules.Email(), rules.Func("unique", "is taken", isFree))
//
// Missing and empty values pass every rule except Required, so rules compose the
// same way struct tags do: add Required when the field must be present.
package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-forms/fieldpath"
	"github.com/amp-labs/amp-forms/schema"
)

// ErrUnknownPath is returned by ValidateAt for a path the set has no rules for.
var ErrUnknownPath = errors.New("schema has no rules for path")

// CheckFunc inspects one looked-up value. found is false when the path does not
// resolve inside the form value.
type CheckFunc func(ctx context.Context, value any, found bool) (bool, error)

// Rule is a named check with the message reported when it fails.
type Rule struct {
	Name    string
	Message string
	Check   CheckFunc
}

// WithMessage returns a copy of r reporting msg instead of its default message.
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg

	return r
}

// ObjectRule checks the whole value. Without Field its issues are object level and
// carry schema.ThisPath as their declared path. With Field they target that path,
// so a UI can place the message next to the input.
type ObjectRule[T any] struct {
	Name    string
	Message string
	Field   string
	Check   func(ctx context.Context, value T) (bool, error)
}

type fieldRules struct {
	path   string
	nested bool
	rules  []Rule
}

// Set is an ordered rule set for values of type T. Build it once, then share it;
// validation never mutates a Set.
type Set[T any] struct {
	fields []fieldRules
	object []ObjectRule[T]
}

var _ schema.Schema[map[string]any] = (*Set[map[string]any])(nil)

// New returns an empty set.
func New[T any]() *Set[T] {
	return &Set[T]{}
}

// Field appends rules for path. Calling Field twice for the same path adds to the
// existing list. It panics on a malformed path, since sets are built from
// constants at start-up.
func (s *Set[T]) Field(path string, rules ...Rule) *Set[T] {
	segments, err := fieldpath.Parse(path)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}

	for i := range s.fields {
		if s.fields[i].path == path {
			s.fields[i].rules = append(s.fields[i].rules, rules...)

			return s
		}
	}

	s.fields = append(s.fields, fieldRules{
		path:   path,
		nested: len(segments) > 1,
		rules:  rules,
	})

	return s
}

// Object appends whole-value rules. They run after all field rules.
func (s *Set[T]) Object(rules ...ObjectRule[T]) *Set[T] {
	s.object = append(s.object, rules...)

	return s
}

// Paths lists the field paths in declaration order.
func (s *Set[T]) Paths() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.path)
	}

	return out
}

// Validate implements schema.Schema.
func (s *Set[T]) Validate(ctx context.Context, value T, opts schema.Options) (schema.Report, error) {
	var issues []schema.Issue

	for _, f := range s.fields {
		if f.nested && !opts.Recursive {
			continue
		}

		found, err := s.checkField(ctx, f, value, opts, &issues)
		if err != nil {
			return schema.Report{}, err
		}

		if found && opts.AbortEarly {
			return schema.Fail(issues...), nil
		}
	}

	for _, rule := range s.object {
		ok, err := rule.Check(ctx, value)
		if err != nil {
			return schema.Report{}, fmt.Errorf("object rule %q: %w", rule.Name, err)
		}

		if ok {
			continue
		}

		paramPath := rule.Field
		if paramPath == "" {
			paramPath = schema.ThisPath
		}

		issues = append(issues, schema.Issue{
			Path:      rule.Field,
			Message:   rule.Message,
			Type:      rule.Name,
			ParamPath: paramPath,
		})

		if opts.AbortEarly {
			break
		}
	}

	return schema.Fail(issues...), nil
}

// ValidateAt implements schema.Schema. It runs the rules declared for path and,
// when opts.Recursive is set, those declared below it. Object rules do not run.
func (s *Set[T]) ValidateAt(
	ctx context.Context, path string, value T, opts schema.Options,
) (schema.Report, error) {
	var issues []schema.Issue

	known := false

	for _, f := range s.fields {
		switch {
		case f.path == path:
		case opts.Recursive && isBelow(f.path, path):
		default:
			continue
		}

		known = true

		found, err := s.checkField(ctx, f, value, opts, &issues)
		if err != nil {
			return schema.Report{}, err
		}

		if found && opts.AbortEarly {
			break
		}
	}

	if !known {
		return schema.Report{}, fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}

	return schema.Fail(issues...), nil
}

// checkField appends the failures of f to issues and reports whether any failed.
func (s *Set[T]) checkField(
	ctx context.Context, f fieldRules, value T, opts schema.Options, issues *[]schema.Issue,
) (bool, error) {
	v, found := fieldpath.Get(value, f.path)
	failed := false

	for _, rule := range f.rules {
		ok, err := rule.Check(ctx, v, found)
		if err != nil {
			return failed, fmt.Errorf("rule %q on %q: %w", rule.Name, f.path, err)
		}

		if ok {
			continue
		}

		failed = true

		*issues = append(*issues, schema.Issue{
			Path:      f.path,
			Message:   rule.Message,
			Type:      rule.Name,
			ParamPath: f.path,
		})

		if opts.AbortEarly {
			break
		}
	}

	return failed, nil
}

func isBelow(child, parent string) bool {
	return strings.HasPrefix(child, parent+".") || strings.HasPrefix(child, parent+"[")
}

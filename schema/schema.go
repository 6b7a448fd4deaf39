// Package schema defines the narrow contract between a form controller and a
// validation engine.
//
// An engine reports rule violations as data, in a Report, and reserves the error
// return for failures that are not about the value at all: a misconfigured schema,
// an unsupported type, a dead backend behind an asynchronous rule. Controllers
// absorb the former and hand the latter back to their caller untouched.
package schema

import (
	"context"
	"fmt"
	"strings"
)

// ThisPath marks an issue that applies to the value as a whole rather than to one
// field.
const ThisPath = "this"

// Options controls how much work an engine does in one pass.
type Options struct {
	// AbortEarly stops at the first violation.
	AbortEarly bool
	// Recursive descends into nested structures.
	Recursive bool
}

// DefaultOptions collects every violation, nested ones included. Form controllers
// always validate this way.
func DefaultOptions() Options {
	return Options{AbortEarly: false, Recursive: true}
}

// Issue is one rule violation.
type Issue struct {
	// Path addresses the offending field (see package fieldpath).
	Path string
	// Message is the human readable text.
	Message string
	// Type names the rule that failed, e.g. "required" or "min".
	Type string
	// ParamPath is the path the rule itself declared. ThisPath means the rule
	// applies to the whole value, whatever Path says.
	ParamPath string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Path, i.Message, i.Type)
}

// Report is the tagged outcome of a validation pass: success when it carries no
// issues, failure otherwise.
type Report struct {
	Issues []Issue
}

// Pass is the successful Report.
func Pass() Report {
	return Report{}
}

// Fail builds a failing Report.
func Fail(issues ...Issue) Report {
	return Report{Issues: issues}
}

// OK reports whether the pass found no violations.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// For returns the issues whose Path equals path, in order.
func (r Report) For(path string) []Issue {
	var out []Issue

	for _, issue := range r.Issues {
		if issue.Path == path {
			out = append(out, issue)
		}
	}

	return out
}

// String renders the report for logs.
func (r Report) String() string {
	if r.OK() {
		return "valid"
	}

	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		parts = append(parts, issue.String())
	}

	return "invalid: " + strings.Join(parts, "; ")
}

// Schema validates values of type T.
//
// Validate checks the whole value. ValidateAt checks only the subtree addressed by
// path, against the same value. Both return a non-nil error only for failures that
// are not rule violations.
type Schema[T any] interface {
	Validate(ctx context.Context, value T, opts Options) (Report, error)
	ValidateAt(ctx context.Context, path string, value T, opts Options) (Report, error)
}

// Func adapts a pair of plain functions into a Schema. A nil At falls back to
// running Whole and keeping only the issues for the requested path.
type Func[T any] struct {
	Whole func(ctx context.Context, value T, opts Options) (Report, error)
	At    func(ctx context.Context, path string, value T, opts Options) (Report, error)
}

var _ Schema[any] = Func[any]{}

// Validate implements Schema.
func (f Func[T]) Validate(ctx context.Context, value T, opts Options) (Report, error) {
	if f.Whole == nil {
		return Pass(), nil
	}

	return f.Whole(ctx, value, opts)
}

// ValidateAt implements Schema.
func (f Func[T]) ValidateAt(ctx context.Context, path string, value T, opts Options) (Report, error) {
	if f.At != nil {
		return f.At(ctx, path, value, opts)
	}

	report, err := f.Validate(ctx, value, opts)
	if err != nil {
		return Report{}, err
	}

	return Fail(report.For(path)...), nil
}

package form

import (
	"fmt"

	"github.com/amp-labs/amp-forms/schema"
)

// ThisPath is the path of errors that apply to the whole form value.
const ThisPath = schema.ThisPath

// FieldError is one validation message attached to a field.
type FieldError struct {
	// Path addresses the field, or is ThisPath for an object-level error.
	Path string `json:"path"`
	// Message is the text to show next to the field.
	Message string `json:"message"`
	// Validator names the rule that failed, e.g. "required".
	Validator string `json:"validator"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Validator)
}

func fromIssue(issue schema.Issue) FieldError {
	path := issue.Path
	if issue.ParamPath == schema.ThisPath {
		path = ThisPath
	}

	return FieldError{
		Path:      path,
		Message:   issue.Message,
		Validator: issue.Type,
	}
}

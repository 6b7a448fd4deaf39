package rules

import (
	"testing"

	"github.com/amp-labs/amp-forms/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
fields:
  - path: name
    label: Name
    rules:
      - rule: required
        message: Please tell us your name
      - rule: max_length
        value: 20
  - path: age
    rules:
      - rule: min
        value: 18
  - path: email
    rules:
      - rule: email
  - path: role
    rules:
      - rule: one_of
        values: [admin, member]
  - path: zip
    rules:
      - rule: pattern
        value: '^\d{4}$'
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	set, err := ParseYAML[map[string]any]([]byte(signupYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "email", "role", "zip"}, set.Paths())

	report, err := set.Validate(t.Context(), map[string]any{
		"name":  "",
		"age":   10,
		"email": "ann@example.com",
		"role":  "root",
		"zip":   "0150",
	}, schema.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, report.Issues, 3)
	assert.Equal(t, "Please tell us your name", report.Issues[0].Message)
	assert.Equal(t, KindMin, report.Issues[1].Type)
	assert.Equal(t, "must be one of: admin, member", report.Issues[2].Message)
}

func TestParseYAML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "empty", doc: `fields: []`, want: ErrEmptyDocument},
		{name: "unknown rule", doc: "fields:\n  - path: a\n    rules:\n      - rule: shiny", want: ErrUnknownRule},
		{name: "no path", doc: "fields:\n  - rules:\n      - rule: required", want: ErrMissingPath},
		{name: "min text", doc: "fields:\n  - path: a\n    rules:\n      - rule: min\n        value: lots", want: ErrBadRuleValue},
		{name: "length float", doc: "fields:\n  - path: a\n    rules:\n      - rule: min_length\n        value: 1.5", want: ErrBadRuleValue},
		{name: "bad regexp", doc: "fields:\n  - path: a\n    rules:\n      - rule: pattern\n        value: '('", want: ErrBadRuleValue},
		{name: "one_of empty", doc: "fields:\n  - path: a\n    rules:\n      - rule: one_of", want: ErrBadRuleValue},
		{name: "bad path", doc: "fields:\n  - path: a..b\n    rules:\n      - rule: required", want: ErrBadRuleValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseYAML[map[string]any]([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseYAML_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseYAML[map[string]any]([]byte("fields: [\n"))
	require.Error(t, err)
}

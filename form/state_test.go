package form_test

import (
	"encoding/json"
	"testing"

	"github.com/amp-labs/amp-forms/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state form.State
		text  string
	}{
		{form.StateUnknown, "UNKNOWN"},
		{form.StateValid, "VALID"},
		{form.StateInvalid, "INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.text, tt.state.String())

			data, err := json.Marshal(tt.state)
			require.NoError(t, err)
			assert.JSONEq(t, `"`+tt.text+`"`, string(data))

			var back form.State
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.state, back)
		})
	}
}

func TestState_Unknown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "State(7)", form.State(7).String())

	_, err := json.Marshal(form.State(7))
	require.Error(t, err)

	var s form.State
	require.Error(t, json.Unmarshal([]byte(`"MAYBE"`), &s))
}

func TestFieldError_String(t *testing.T) {
	t.Parallel()

	e := form.FieldError{Path: "age", Message: "must be at least 18", Validator: "min"}
	assert.Equal(t, "age: must be at least 18 (min)", e.String())
}

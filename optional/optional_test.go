package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome(t *testing.T) {
	t.Parallel()

	opt := Some(42)
	assert.True(t, opt.NonEmpty())
	assert.False(t, opt.Empty())

	val, ok := opt.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, val)
}

func TestNone(t *testing.T) {
	t.Parallel()

	opt := None[int]()
	assert.False(t, opt.NonEmpty())
	assert.True(t, opt.Empty())

	val, ok := opt.Get()
	assert.False(t, ok)
	assert.Equal(t, 0, val)
}

func TestSomeFalseIsPresent(t *testing.T) {
	t.Parallel()

	// A present false must not collapse into None.
	opt := Some(false)
	val, ok := opt.Get()
	assert.True(t, ok)
	assert.False(t, val)
	assert.NotEqual(t, None[bool](), opt)
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Some(1).GetOrElse(2))
	assert.Equal(t, 2, None[int]().GetOrElse(2))
}

func TestOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Some(1), Some(1).OrElse(Some(2)))
	assert.Equal(t, Some(2), None[int]().OrElse(Some(2)))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	even := func(i int) bool { return i%2 == 0 }

	assert.Equal(t, Some(4), Some(4).Filter(even))
	assert.True(t, Some(3).Filter(even).Empty())
	assert.True(t, None[int]().Filter(even).Empty())
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Some(hello)", Some("hello").String())
	assert.Equal(t, "None", None[string]().String())
}

func TestMap(t *testing.T) {
	t.Parallel()

	length := func(s string) int { return len(s) }

	assert.Equal(t, Some(5), Map(Some("hello"), length))
	assert.True(t, Map(None[string](), length).Empty())
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Value[string]
		want string
	}{
		{name: "some", in: Some("a"), want: `{"value":"a"}`},
		{name: "none", in: None[string](), want: `null`},
		{name: "some empty", in: Some(""), want: `{"value":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var opt Value[int]

	require.NoError(t, json.Unmarshal([]byte(`{"value":7}`), &opt))
	assert.Equal(t, Some(7), opt)

	require.NoError(t, json.Unmarshal([]byte(`null`), &opt))
	assert.True(t, opt.Empty())

	err := json.Unmarshal([]byte(`{"other":7}`), &opt)
	require.ErrorIs(t, err, errMissingValueField)
}

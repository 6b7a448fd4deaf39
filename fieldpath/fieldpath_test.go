package fieldpath

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Street string `json:"street"`
	City   string
}

type base struct {
	ID string `json:"id"`
}

type lineItem struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type order struct {
	base

	Customer string            `json:"customer"`
	Shipping *address          `json:"shipping,omitempty"`
	Items    []lineItem        `json:"items"`
	Labels   map[string]string `json:"labels"`
	Hidden   string            `json:"-"`
	internal string
}

func sampleOrder() order {
	return order{
		base:     base{ID: "o-1"},
		Customer: "ann",
		Shipping: &address{Street: "Main 1", City: "Oslo"},
		Items:    []lineItem{{SKU: "a", Qty: 1}, {SKU: "b", Qty: 0}},
		Labels:   map[string]string{"display name": "Ann's order"},
		Hidden:   "h",
		internal: "x",
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want []Segment
	}{
		{path: "name", want: []Segment{{Key: "name"}}},
		{path: "a.b", want: []Segment{{Key: "a"}, {Key: "b"}}},
		{path: "items[2].sku", want: []Segment{{Key: "items"}, {Index: 2, IsIndex: true}, {Key: "sku"}}},
		{path: "[0]", want: []Segment{{Index: 0, IsIndex: true}}},
		{path: "m['a.b']", want: []Segment{{Key: "m"}, {Key: "a.b"}}},
		{path: `m["x"][1]`, want: []Segment{{Key: "m"}, {Key: "x"}, {Index: 1, IsIndex: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Parse("")
	require.ErrorIs(t, err, ErrPathEmpty)

	for _, path := range []string{".a", "a.", "a..b", "a.[0]", "a[", "a[x]", "a[-1]", "a[0]b", "a]", "a['']"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(path)
			require.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestGet_Struct(t *testing.T) {
	t.Parallel()

	o := sampleOrder()

	tests := []struct {
		path string
		want any
	}{
		{path: "customer", want: "ann"},
		{path: "Customer", want: "ann"},
		{path: "id", want: "o-1"},
		{path: "shipping.street", want: "Main 1"},
		{path: "shipping.City", want: "Oslo"},
		{path: "items[1].sku", want: "b"},
		{path: "items[1].qty", want: 0},
		{path: "labels['display name']", want: "Ann's order"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, ok := Get(o, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)

			// Pointers to the root resolve the same way.
			got, ok = Get(&o, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	o := sampleOrder()
	o.Shipping = nil

	for _, path := range []string{"nope", "shipping.street", "items[5]", "items.sku", "internal", "labels.missing", "[0]"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			_, err := Lookup(o, path)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGet_Maps(t *testing.T) {
	t.Parallel()

	value := map[string]any{
		"name": "Ann",
		"tags": []any{"x", "y"},
		"profile": map[string]any{
			"age": 20,
		},
		"nothing": nil,
	}

	got, ok := Get(value, "profile.age")
	require.True(t, ok)
	assert.Equal(t, 20, got)

	got, ok = Get(value, "tags[1]")
	require.True(t, ok)
	assert.Equal(t, "y", got)

	got, ok = Get(value, "nothing")
	require.True(t, ok)
	assert.Nil(t, got)

	byIndex := map[int]string{3: "three"}
	got, ok = Get(byIndex, "[3]")
	require.True(t, ok)
	assert.Equal(t, "three", got)
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	var nilPtr *address

	tests := []struct {
		name  string
		value any
		found bool
		want  bool
	}{
		{name: "missing", value: "x", found: false, want: true},
		{name: "nil", value: nil, found: true, want: true},
		{name: "typed nil", value: nilPtr, found: true, want: true},
		{name: "empty string", value: "", found: true, want: true},
		{name: "empty slice", value: []int{}, found: true, want: true},
		{name: "nil slice", value: []string(nil), found: true, want: true},
		{name: "zero array", value: [0]int{}, found: true, want: true},
		{name: "zero int", value: 0, found: true, want: false},
		{name: "false", value: false, found: true, want: false},
		{name: "string", value: "a", found: true, want: false},
		{name: "slice", value: []int{0}, found: true, want: false},
		{name: "empty map", value: map[string]int{}, found: true, want: false},
		{name: "pointer to empty string", value: new(string), found: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsEmpty(tt.value, tt.found))
		})
	}
}

func TestNamespace(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf(order{})

	tests := []struct {
		path string
		want string
	}{
		{path: "customer", want: "Customer"},
		{path: "shipping.street", want: "Shipping.Street"},
		{path: "items[1].sku", want: "Items[1].SKU"},
		{path: "id", want: "base.ID"},
		{path: "labels['k']", want: "Labels[k]"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := Namespace(typ, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Namespace(typ, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = Namespace(reflect.TypeOf(map[string]any{}), "a")
	require.ErrorIs(t, err, ErrNotStruct)
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.b", Join("a", "b"))
	assert.Equal(t, "b", Join("", "b"))
	assert.Equal(t, "a", Join("a", ""))
}

// Package fieldpath addresses values nested inside a form value.
//
// A path is a sequence of keys and indexes written with dots and brackets:
//
//	name
//	address.street
//	items[0].sku
//	labels['display name']
//
// Keys resolve against struct fields (json tag name first, then Go field name) and
// against maps with string keys. Indexes resolve against slices, arrays and maps
// with integer keys. Pointers and interfaces are followed transparently.
package fieldpath

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Sentinel errors for path parsing and traversal.
var (
	ErrPathEmpty   = errors.New("path cannot be empty")
	ErrInvalidPath = errors.New("invalid field path")
	ErrNotFound    = errors.New("field path not found")
	ErrNotStruct   = errors.New("field path does not resolve through structs")
)

// Segment is one step of a path: either a key or an index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}

	return s.Key
}

// Parse splits a path into segments.
//
// Example: Parse("items[2].sku") returns {Key: "items"}, {Index: 2}, {Key: "sku"}.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, ErrPathEmpty
	}

	var (
		segments []Segment
		afterDot bool
		pos      int
	)

	for pos < len(path) {
		switch path[pos] {
		case '.':
			if pos == 0 || afterDot {
				return nil, fmt.Errorf("%w: empty segment at offset %d in %q", ErrInvalidPath, pos, path)
			}

			afterDot = true
			pos++
		case '[':
			if afterDot {
				return nil, fmt.Errorf("%w: bracket after dot at offset %d in %q", ErrInvalidPath, pos, path)
			}

			end := strings.IndexByte(path[pos:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated bracket in %q", ErrInvalidPath, path)
			}

			seg, err := parseBracket(path[pos+1 : pos+end])
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, path)
			}

			segments = append(segments, seg)
			pos += end + 1
		case ']':
			return nil, fmt.Errorf("%w: unexpected ']' at offset %d in %q", ErrInvalidPath, pos, path)
		default:
			if !afterDot && len(segments) > 0 {
				return nil, fmt.Errorf("%w: missing '.' before offset %d in %q", ErrInvalidPath, pos, path)
			}

			end := strings.IndexAny(path[pos:], ".[]")
			if end < 0 {
				end = len(path) - pos
			}

			segments = append(segments, Segment{Key: path[pos : pos+end]})
			afterDot = false
			pos += end
		}
	}

	if afterDot {
		return nil, fmt.Errorf("%w: trailing '.' in %q", ErrInvalidPath, path)
	}

	return segments, nil
}

func parseBracket(inner string) (Segment, error) {
	if len(inner) >= 2 {
		first, last := inner[0], inner[len(inner)-1]
		if (first == '\'' || first == '"') && first == last {
			key := inner[1 : len(inner)-1]
			if key == "" {
				return Segment{}, fmt.Errorf("%w: empty quoted key", ErrInvalidPath)
			}

			return Segment{Key: key}, nil
		}
	}

	idx, err := strconv.Atoi(inner)
	if err != nil || idx < 0 {
		return Segment{}, fmt.Errorf("%w: bad index %q", ErrInvalidPath, inner)
	}

	return Segment{Index: idx, IsIndex: true}, nil
}

// Join appends child to parent with a dot. Either side may be empty.
func Join(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// Lookup resolves path inside value. It returns ErrNotFound (wrapped) when any step
// is missing, out of range, or passes through a nil pointer.
func Lookup(value any, path string) (any, error) {
	segments, err := Parse(path)
	if err != nil {
		return nil, err
	}

	cur := reflect.ValueOf(value)

	for i, seg := range segments {
		next, ok := step(cur, seg)
		if !ok {
			return nil, fmt.Errorf("%w: %q at segment %d (%s)", ErrNotFound, path, i, seg)
		}

		cur = next
	}

	if !cur.IsValid() || !cur.CanInterface() {
		return nil, nil
	}

	return cur.Interface(), nil
}

// Get is Lookup without the reason: it reports whether path resolved.
func Get(value any, path string) (any, bool) {
	v, err := Lookup(value, path)
	if err != nil {
		return nil, false
	}

	return v, true
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, v.IsValid()
}

func step(cur reflect.Value, seg Segment) (reflect.Value, bool) {
	cur, ok := indirect(cur)
	if !ok {
		return reflect.Value{}, false
	}

	switch cur.Kind() { //nolint:exhaustive
	case reflect.Struct:
		if seg.IsIndex {
			return reflect.Value{}, false
		}

		field, found := structField(cur.Type(), seg.Key)
		if !found {
			return reflect.Value{}, false
		}

		fv, err := cur.FieldByIndexErr(field.Index)
		if err != nil {
			return reflect.Value{}, false
		}

		return fv, true
	case reflect.Map:
		key, ok := mapKey(cur.Type().Key(), seg)
		if !ok {
			return reflect.Value{}, false
		}

		mv := cur.MapIndex(key)

		return mv, mv.IsValid()
	case reflect.Slice, reflect.Array:
		if !seg.IsIndex || seg.Index >= cur.Len() {
			return reflect.Value{}, false
		}

		return cur.Index(seg.Index), true
	default:
		return reflect.Value{}, false
	}
}

func mapKey(keyType reflect.Type, seg Segment) (reflect.Value, bool) {
	switch keyType.Kind() { //nolint:exhaustive
	case reflect.String:
		key := seg.Key
		if seg.IsIndex {
			key = strconv.Itoa(seg.Index)
		}

		return reflect.ValueOf(key).Convert(keyType), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !seg.IsIndex {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(int64(seg.Index)).Convert(keyType), true
	default:
		return reflect.Value{}, false
	}
}

// structField finds an exported (possibly promoted) field by json name, then by
// Go field name.
func structField(t reflect.Type, key string) (reflect.StructField, bool) {
	var byName reflect.StructField

	nameFound := false

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}

		if JSONName(f) == key {
			return f, true
		}

		if !nameFound && f.Name == key {
			byName = f
			nameFound = true
		}
	}

	return byName, nameFound
}

// JSONName returns the name encoding/json would use for f, or "" when the field
// is skipped with `json:"-"`.
func JSONName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name
	}

	name, _, _ := strings.Cut(tag, ",")

	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

// Namespace converts a json-style path into the Go field namespace for type t,
// e.g. "address.street" on User becomes "Address.Street" and "items[1].sku"
// becomes "Items[1].SKU". Promoted fields keep their embedding struct name.
func Namespace(t reflect.Type, path string) (string, error) {
	segments, err := Parse(path)
	if err != nil {
		return "", err
	}

	var out strings.Builder

	for i, seg := range segments {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		switch t.Kind() { //nolint:exhaustive
		case reflect.Struct:
			if seg.IsIndex {
				return "", fmt.Errorf("%w: index %s on struct %s", ErrNotStruct, seg, t)
			}

			field, found := structField(t, seg.Key)
			if !found {
				return "", fmt.Errorf("%w: %q has no field %q", ErrNotFound, t, seg.Key)
			}

			for depth := 1; depth <= len(field.Index); depth++ {
				if out.Len() > 0 {
					out.WriteByte('.')
				}

				out.WriteString(t.FieldByIndex(field.Index[:depth]).Name)
			}

			t = field.Type
		case reflect.Slice, reflect.Array, reflect.Map:
			if i == 0 {
				return "", fmt.Errorf("%w: path %q starts on %s", ErrNotStruct, path, t)
			}

			out.WriteByte('[')

			if seg.IsIndex {
				out.WriteString(strconv.Itoa(seg.Index))
			} else {
				out.WriteString(seg.Key)
			}

			out.WriteByte(']')

			t = t.Elem()
		default:
			return "", fmt.Errorf("%w: cannot descend into %s at %q", ErrNotStruct, t, seg)
		}
	}

	return out.String(), nil
}

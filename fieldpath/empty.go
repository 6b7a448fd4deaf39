package fieldpath

import "reflect"

// IsEmpty reports whether a looked-up value counts as "not filled in": a missing
// path, nil (including typed nil pointers, slices and maps), the empty string, or
// a zero-length slice or array. Numbers and booleans are never empty, so 0 and
// false count as filled in.
func IsEmpty(value any, found bool) bool {
	if !found || value == nil {
		return true
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}

		return IsEmpty(rv.Elem().Interface(), true)
	case reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

package form

import (
	"go/token"
	"reflect"

	"github.com/amp-labs/amp-forms/clone"
	"github.com/amp-labs/amp-forms/fieldpath"
	"github.com/amp-labs/amp-forms/optional"
	"github.com/google/go-cmp/cmp"
)

// TakeSnapshot stores a deep copy of the current value. Later changes to the live
// value do not reach the copy.
func (c *Controller[T]) TakeSnapshot() {
	snap := clone.Of(c.value())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = optional.Some(snap)
}

// IsChanged compares the sub-value at path in the snapshot with the one in the live
// value. It is None until TakeSnapshot has been called.
//
// Only the extracted sub-value is compared. Strings, numbers, structs and arrays
// compare by value. Pointers, maps, slices, channels and functions compare by
// identity, so a reference-typed field reads as changed right after a snapshot
// because the snapshot holds a copy.
func (c *Controller[T]) IsChanged(path string) optional.Value[bool] {
	c.mu.Lock()
	snap := c.snapshot
	c.mu.Unlock()

	before, ok := snap.Get()
	if !ok {
		return optional.None[bool]()
	}

	was, wasFound := fieldpath.Get(before, path)
	now, nowFound := fieldpath.Get(c.value(), path)

	return optional.Some(differs(was, wasFound, now, nowFound))
}

// IsTouched reports whether path changed since the snapshot or currently holds a
// non-empty value. 0 and false count as non-empty.
func (c *Controller[T]) IsTouched(path string) bool {
	if c.IsChanged(path).GetOrElse(false) {
		return true
	}

	v, found := fieldpath.Get(c.value(), path)

	return !fieldpath.IsEmpty(v, found)
}

//nolint:gochecknoglobals
var ignoreUnexported = cmp.FilterPath(func(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	if !ok {
		return false
	}

	return !token.IsExported(sf.Name())
}, cmp.Ignore())

func differs(was any, wasFound bool, now any, nowFound bool) bool {
	if wasFound != nowFound {
		return true
	}

	if !wasFound {
		return false
	}

	if was == nil || now == nil {
		return was != now
	}

	a, b := reflect.ValueOf(was), reflect.ValueOf(now)
	if a.Type() != b.Type() {
		return true
	}

	switch a.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() != b.Pointer() || (a.Kind() == reflect.Slice && a.Len() != b.Len())
	default:
		return !cmp.Equal(was, now, ignoreUnexported)
	}
}

// Package clone deep-copies form values for snapshots.
//
// Copies are structural: maps, slices, pointers and structs are duplicated so that
// mutating the original never reaches the copy. time.Time is copied as a value.
// Unexported struct fields are not copied; types that need them, or that contain
// cycles, should implement Cloner.
package clone

import (
	"github.com/mohae/deepcopy"
)

// Cloner lets a type supply its own copy rule.
type Cloner[T any] interface {
	Clone() T
}

// Of returns a deep copy of value.
func Of[T any](value T) T {
	if c, ok := any(value).(Cloner[T]); ok {
		return c.Clone()
	}

	copied := deepcopy.Copy(value)
	if copied == nil {
		var zero T

		return zero
	}

	out, ok := copied.(T)
	if !ok {
		// T is an interface type and the dynamic value did not survive the copy.
		return value
	}

	return out
}

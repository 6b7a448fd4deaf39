package fieldpath

import (
	"errors"
	"fmt"
)

// ErrNotSettable is returned by SetMap for paths it cannot write.
var ErrNotSettable = errors.New("field path is not settable")

// SetMap stores value at path inside m, creating intermediate maps as needed. Only
// key segments are supported, and every intermediate value must be missing or a
// map[string]any.
func SetMap(m map[string]any, path string, value any) error {
	segments, err := Parse(path)
	if err != nil {
		return err
	}

	if m == nil {
		return fmt.Errorf("%w: nil map", ErrNotSettable)
	}

	cur := m

	for i, seg := range segments {
		if seg.IsIndex {
			return fmt.Errorf("%w: index segment in %q", ErrNotSettable, path)
		}

		if i == len(segments)-1 {
			cur[seg.Key] = value

			return nil
		}

		next, ok := cur[seg.Key]
		if !ok || next == nil {
			child := map[string]any{}
			cur[seg.Key] = child
			cur = child

			continue
		}

		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q holds %T", ErrNotSettable, seg.Key, next)
		}

		cur = child
	}

	return nil
}

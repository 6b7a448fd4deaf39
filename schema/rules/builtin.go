package rules

import (
	"context"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/amp-forms/fieldpath"
)

// Rule names. They double as the validator kind reported to the UI.
const (
	KindRequired  = "required"
	KindMin       = "min"
	KindMax       = "max"
	KindMinLength = "min_length"
	KindMaxLength = "max_length"
	KindEmail     = "email"
	KindPattern   = "pattern"
	KindOneOf     = "one_of"
)

// Required fails on missing, nil, empty-string and empty-collection values.
func Required() Rule {
	return Rule{
		Name:    KindRequired,
		Message: "is required",
		Check: func(_ context.Context, value any, found bool) (bool, error) {
			return !fieldpath.IsEmpty(value, found), nil
		},
	}
}

// Min requires a number greater than or equal to limit.
func Min(limit float64) Rule {
	return Rule{
		Name:    KindMin,
		Message: fmt.Sprintf("must be at least %v", limit),
		Check: numeric(func(n float64) bool {
			return n >= limit
		}),
	}
}

// Max requires a number less than or equal to limit.
func Max(limit float64) Rule {
	return Rule{
		Name:    KindMax,
		Message: fmt.Sprintf("must be at most %v", limit),
		Check: numeric(func(n float64) bool {
			return n <= limit
		}),
	}
}

// MinLength requires at least n characters, or n elements for collections.
func MinLength(n int) Rule {
	return Rule{
		Name:    KindMinLength,
		Message: fmt.Sprintf("must be at least %d characters", n),
		Check: sized(func(l int) bool {
			return l >= n
		}),
	}
}

// MaxLength allows at most n characters, or n elements for collections.
func MaxLength(n int) Rule {
	return Rule{
		Name:    KindMaxLength,
		Message: fmt.Sprintf("must be at most %d characters", n),
		Check: sized(func(l int) bool {
			return l <= n
		}),
	}
}

// Email requires a bare RFC 5322 address ("a@b.c", not "A <a@b.c>").
func Email() Rule {
	return Rule{
		Name:    KindEmail,
		Message: "must be a valid email address",
		Check: text(func(s string) bool {
			addr, err := mail.ParseAddress(s)

			return err == nil && addr.Address == s
		}),
	}
}

// Pattern requires a string matching re.
func Pattern(re *regexp.Regexp) Rule {
	return Rule{
		Name:    KindPattern,
		Message: "has an invalid format",
		Check:   text(re.MatchString),
	}
}

// OneOf requires the value to equal one of allowed. Numbers compare by value, so
// 1 matches 1.0.
func OneOf(allowed ...any) Rule {
	labels := make([]string, 0, len(allowed))
	for _, a := range allowed {
		labels = append(labels, fmt.Sprint(a))
	}

	return Rule{
		Name:    KindOneOf,
		Message: "must be one of: " + strings.Join(labels, ", "),
		Check: func(_ context.Context, value any, found bool) (bool, error) {
			if fieldpath.IsEmpty(value, found) {
				return true, nil
			}

			for _, a := range allowed {
				if equalValues(a, value) {
					return true, nil
				}
			}

			return false, nil
		},
	}
}

// Func builds a custom rule. check only sees present, non-empty values.
func Func(name, message string, check func(ctx context.Context, value any) (bool, error)) Rule {
	return Rule{
		Name:    name,
		Message: message,
		Check: func(ctx context.Context, value any, found bool) (bool, error) {
			if fieldpath.IsEmpty(value, found) {
				return true, nil
			}

			return check(ctx, value)
		},
	}
}

func numeric(pred func(float64) bool) CheckFunc {
	return func(_ context.Context, value any, found bool) (bool, error) {
		if fieldpath.IsEmpty(value, found) {
			return true, nil
		}

		n, ok := toFloat(value)
		if !ok {
			return false, nil
		}

		return pred(n), nil
	}
}

func sized(pred func(int) bool) CheckFunc {
	return func(_ context.Context, value any, found bool) (bool, error) {
		if fieldpath.IsEmpty(value, found) {
			return true, nil
		}

		l, ok := length(value)
		if !ok {
			return false, nil
		}

		return pred(l), nil
	}
}

func text(pred func(string) bool) CheckFunc {
	return func(_ context.Context, value any, found bool) (bool, error) {
		if fieldpath.IsEmpty(value, found) {
			return true, nil
		}

		s, ok := value.(string)
		if !ok {
			rv := reflect.ValueOf(value)
			if rv.Kind() != reflect.String {
				return false, nil
			}

			s = rv.String()
		}

		return pred(s), nil
	}
}

func toFloat(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func length(value any) (int, bool) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() { //nolint:exhaustive
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}

	fa, okA := toFloat(a)
	fb, okB := toFloat(b)

	if okA && okB {
		return fa == fb
	}

	if a == nil || b == nil {
		return false
	}

	// Named string types compare by content.
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)

	return ra.Kind() == reflect.String && rb.Kind() == reflect.String && ra.String() == rb.String()
}

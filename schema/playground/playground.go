// Package playground adapts github.com/go-playground/validator/v10 to schema.Schema.
//
// Rules come from `validate:"..."` struct tags. Issue paths use json field names
// ("address.street", "items[0].sku"), messages come from the validator's English
// translations, and the issue Type is the failing tag.
//
// Struct-level rules report object-level problems by naming the field "this". On
// the root struct the issue is object level; on a nested struct it is reported at
// that struct's path. Tags without a translation get "<field> is invalid".
//
//	playground.WithStructRule(func(ctx context.Context, sl validator.StructLevel) {
//	    s := sl.Current().Interface().(Signup)
//	    if s.Password != s.Confirm {
//	        sl.ReportError(s.Confirm, schema.ThisPath, schema.ThisPath, "passwords_match", "")
//	    }
//	})
package playground

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/amp-labs/amp-forms/fieldpath"
	"github.com/amp-labs/amp-forms/schema"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrNotStruct is returned when T does not resolve to a struct type.
var ErrNotStruct = errors.New("playground schema needs a struct type")

type config struct {
	validate    *validator.Validate
	messages    map[string]string
	structRules []validator.StructLevelFuncCtx
}

// Option configures a Schema.
type Option func(*config)

// WithValidator uses v instead of a fresh validator.New(). Custom tags registered
// on v are available to the schema.
func WithValidator(v *validator.Validate) Option {
	return func(c *config) {
		c.validate = v
	}
}

// WithMessage sets the English message for tag. "{0}" is replaced with the json
// field name and "{1}" with the tag parameter.
func WithMessage(tag, text string) Option {
	return func(c *config) {
		c.messages[tag] = text
	}
}

// WithStructRule registers a struct-level rule for T.
func WithStructRule(fn validator.StructLevelFuncCtx) Option {
	return func(c *config) {
		c.structRules = append(c.structRules, fn)
	}
}

// Schema validates struct values of type T (or pointers to them).
type Schema[T any] struct {
	validate *validator.Validate
	trans    ut.Translator
	typ      reflect.Type
}

var _ schema.Schema[struct{}] = (*Schema[struct{}])(nil)

// New builds a Schema for T.
func New[T any](opts ...Option) (*Schema[T], error) {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, typ)
	}

	cfg := &config{messages: map[string]string{}}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.validate == nil {
		cfg.validate = validator.New()
	}

	cfg.validate.RegisterTagNameFunc(fieldpath.JSONName)

	english := en.New()

	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(cfg.validate, trans); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}

	for tag, text := range cfg.messages {
		if err := registerMessage(cfg.validate, trans, tag, text); err != nil {
			return nil, err
		}
	}

	if len(cfg.structRules) > 0 {
		zero := reflect.New(typ).Elem().Interface()
		for _, fn := range cfg.structRules {
			cfg.validate.RegisterStructValidationCtx(fn, zero)
		}
	}

	return &Schema[T]{
		validate: cfg.validate,
		trans:    trans,
		typ:      typ,
	}, nil
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) error {
	err := v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}

			return msg
		})
	if err != nil {
		return fmt.Errorf("registering message for %q: %w", tag, err)
	}

	return nil
}

// Validator exposes the underlying validator, e.g. to register custom tags.
func (s *Schema[T]) Validator() *validator.Validate {
	return s.validate
}

// Validate implements schema.Schema. Errors other than validator.ValidationErrors
// (such as validator.InvalidValidationError for a nil pointer) are returned as is.
func (s *Schema[T]) Validate(ctx context.Context, value T, opts schema.Options) (schema.Report, error) {
	err := s.validate.StructCtx(ctx, value)

	return s.report(err, opts, func(schema.Issue) bool { return true })
}

// ValidateAt implements schema.Schema using StructPartialCtx over the Go field
// namespace of path and, when opts.Recursive is set, every struct field below it.
func (s *Schema[T]) ValidateAt(
	ctx context.Context, path string, value T, opts schema.Options,
) (schema.Report, error) {
	ns, err := fieldpath.Namespace(s.typ, path)
	if err != nil {
		return schema.Report{}, err
	}

	fields := []string{ns}
	if opts.Recursive {
		fields = append(fields, subtree(s.typ, path, ns)...)
	}

	err = s.validate.StructPartialCtx(ctx, value, fields...)

	return s.report(err, opts, func(issue schema.Issue) bool {
		if issue.ParamPath == schema.ThisPath {
			return false
		}

		return issue.Path == path ||
			(opts.Recursive && (strings.HasPrefix(issue.Path, path+".") || strings.HasPrefix(issue.Path, path+"[")))
	})
}

func (s *Schema[T]) report(err error, opts schema.Options, keep func(schema.Issue) bool) (schema.Report, error) {
	if err == nil {
		return schema.Pass(), nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return schema.Report{}, err
	}

	issues := make([]schema.Issue, 0, len(verrs))

	for _, fe := range verrs {
		issue := s.issue(fe)
		if !keep(issue) {
			continue
		}

		if !opts.Recursive && isNested(issue) {
			continue
		}

		issues = append(issues, issue)

		if opts.AbortEarly {
			break
		}
	}

	return schema.Fail(issues...), nil
}

func (s *Schema[T]) issue(fe validator.FieldError) schema.Issue {
	path := strings.TrimPrefix(fe.Namespace(), s.typ.Name()+".")
	paramPath := path
	name := fe.Field()

	if name == schema.ThisPath {
		// Struct-level errors belong to the struct they were reported on: the root
		// value or a nested struct field.
		path = strings.TrimSuffix(strings.TrimSuffix(path, schema.ThisPath), ".")
		paramPath = path
		name = lastKey(path)

		if path == "" {
			paramPath = schema.ThisPath
			name = "value"
		}
	}

	return schema.Issue{
		Path:      path,
		Message:   s.message(fe, name),
		Type:      fe.Tag(),
		ParamPath: paramPath,
	}
}

// message translates fe, falling back to a generic text for tags without a
// registered translation.
func (s *Schema[T]) message(fe validator.FieldError, name string) string {
	msg := fe.Translate(s.trans)
	if msg == fe.Error() {
		return name + " is invalid"
	}

	return msg
}

func lastKey(path string) string {
	segments, err := fieldpath.Parse(path)
	if err != nil || len(segments) == 0 {
		return path
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Key != "" {
			return segments[i].Key
		}
	}

	return path
}

func isNested(issue schema.Issue) bool {
	return strings.ContainsAny(issue.Path, ".[")
}

// subtree lists the Go namespaces of every struct field reachable below path
// without crossing a slice, array or map (those are handled by `dive`).
func subtree(root reflect.Type, path, ns string) []string {
	t := root

	segments, err := fieldpath.Parse(path)
	if err != nil {
		return nil
	}

	for _, seg := range segments {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		switch t.Kind() { //nolint:exhaustive
		case reflect.Struct:
			f, ok := structFieldByKey(t, seg.Key)
			if !ok {
				return nil
			}

			t = f.Type
		case reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return nil
		}
	}

	var out []string

	collect(t, ns, &out, map[reflect.Type]bool{})

	return out
}

func collect(t reflect.Type, ns string, out *[]string, seen map[reflect.Type]bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || seen[t] {
		return
	}

	seen[t] = true
	defer delete(seen, t)

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		child := ns + "." + f.Name
		*out = append(*out, child)
		collect(f.Type, child, out, seen)
	}
}

func structFieldByKey(t reflect.Type, key string) (reflect.StructField, bool) {
	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && (fieldpath.JSONName(f) == key || f.Name == key) {
			return f, true
		}
	}

	return reflect.StructField{}, false
}

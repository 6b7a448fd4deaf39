package rules

import (
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for rule definitions.
var (
	ErrUnknownRule   = errors.New("unknown rule")
	ErrBadRuleValue  = errors.New("invalid rule value")
	ErrMissingPath   = errors.New("field definition has no path")
	ErrEmptyDocument = errors.New("rule document defines no fields")
)

// Definition is the YAML form of a Set:
//
//	fields:
//	  - path: name
//	    label: Name
//	    rules:
//	      - rule: required
//	        message: Please tell us your name
//	  - path: age
//	    rules:
//	      - rule: min
//	        value: 18
//	  - path: role
//	    rules:
//	      - rule: one_of
//	        values: [admin, member]
type Definition struct {
	Fields []FieldDefinition `yaml:"fields"`
}

// FieldDefinition declares the rules for one path.
type FieldDefinition struct {
	Path  string           `yaml:"path"`
	Label string           `yaml:"label,omitempty"`
	Rules []RuleDefinition `yaml:"rules"`
}

// RuleDefinition names a built-in rule and its arguments.
type RuleDefinition struct {
	Rule    string `yaml:"rule"`
	Message string `yaml:"message,omitempty"`
	Value   any    `yaml:"value,omitempty"`
	Values  []any  `yaml:"values,omitempty"`
}

// ParseDefinition decodes a YAML rule document without building it.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("decoding rule document: %w", err)
	}

	if len(def.Fields) == 0 {
		return Definition{}, ErrEmptyDocument
	}

	return def, nil
}

// ParseYAML decodes a YAML rule document into a Set.
func ParseYAML[T any](data []byte) (*Set[T], error) {
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}

	return Build[T](def)
}

// Build turns a Definition into a Set.
func Build[T any](def Definition) (*Set[T], error) {
	set := New[T]()

	for i, field := range def.Fields {
		if field.Path == "" {
			return nil, fmt.Errorf("%w (field #%d)", ErrMissingPath, i)
		}

		built := make([]Rule, 0, len(field.Rules))

		for _, rd := range field.Rules {
			rule, err := rd.build()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Path, err)
			}

			built = append(built, rule)
		}

		if err := addField(set, field.Path, built); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// addField recovers the malformed-path panic from Field into an error, since
// documents come from outside the program.
func addField[T any](set *Set[T], path string, built []Rule) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBadRuleValue, r)
		}
	}()

	set.Field(path, built...)

	return nil
}

func (rd RuleDefinition) build() (Rule, error) {
	var rule Rule

	switch rd.Rule {
	case KindRequired:
		rule = Required()
	case KindEmail:
		rule = Email()
	case KindMin, KindMax:
		n, ok := toFloat(rd.Value)
		if !ok {
			return Rule{}, fmt.Errorf("%w: %s needs a numeric value, got %v", ErrBadRuleValue, rd.Rule, rd.Value)
		}

		if rd.Rule == KindMin {
			rule = Min(n)
		} else {
			rule = Max(n)
		}
	case KindMinLength, KindMaxLength:
		n, ok := toFloat(rd.Value)
		if !ok || n < 0 || n != float64(int(n)) {
			return Rule{}, fmt.Errorf("%w: %s needs a non-negative integer, got %v", ErrBadRuleValue, rd.Rule, rd.Value)
		}

		if rd.Rule == KindMinLength {
			rule = MinLength(int(n))
		} else {
			rule = MaxLength(int(n))
		}
	case KindPattern:
		expr, ok := rd.Value.(string)
		if !ok {
			return Rule{}, fmt.Errorf("%w: pattern needs a string value", ErrBadRuleValue)
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %w", ErrBadRuleValue, err)
		}

		rule = Pattern(re)
	case KindOneOf:
		if len(rd.Values) == 0 {
			return Rule{}, fmt.Errorf("%w: one_of needs values", ErrBadRuleValue)
		}

		rule = OneOf(rd.Values...)
	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRule, rd.Rule)
	}

	if rd.Message != "" {
		rule = rule.WithMessage(rd.Message)
	}

	return rule, nil
}

package form_test

import (
	"context"
	"errors"
	"sync"

	"github.com/amp-labs/amp-forms/schema"
	"github.com/amp-labs/amp-forms/schema/rules"
)

var errBackend = errors.New("policy backend unavailable")

type address struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
}

type signup struct {
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Confirm  string   `json:"confirm"`
	Address  address  `json:"address"`
	Tags     []string `json:"tags"`
	Shipping *address `json:"shipping"`
	Agreed   bool     `json:"agreed"`
}

// live is a mutable form value shared between a test and its controller.
type live[T any] struct {
	mu    sync.Mutex
	value T
}

func (l *live[T]) get() T {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value
}

func (l *live[T]) set(f func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f(&l.value)
}

func signupRules() *rules.Set[signup] {
	return rules.New[signup]().
		Field("name", rules.Required()).
		Field("age", rules.Min(18))
}

func signupRulesWithPasswords() *rules.Set[signup] {
	return signupRules().Object(rules.ObjectRule[signup]{
		Name:    "passwords_match",
		Message: "passwords do not match",
		Check: func(_ context.Context, v signup) (bool, error) {
			return v.Password == v.Confirm, nil
		},
	})
}

func failingSchema(err error) schema.Func[signup] {
	return schema.Func[signup]{
		Whole: func(context.Context, signup, schema.Options) (schema.Report, error) {
			return schema.Report{}, err
		},
		At: func(context.Context, string, signup, schema.Options) (schema.Report, error) {
			return schema.Report{}, err
		},
	}
}

// gate is a schema whose passes block until released, reporting one "name" issue.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{
		entered: make(chan struct{}, 8), //nolint:mnd
		release: make(chan struct{}),
	}
}

func (g *gate) Validate(ctx context.Context, _ signup, _ schema.Options) (schema.Report, error) {
	g.entered <- struct{}{}

	select {
	case <-g.release:
	case <-ctx.Done():
		return schema.Report{}, ctx.Err()
	}

	return schema.Fail(schema.Issue{Path: "name", Message: "is required", Type: "required", ParamPath: "name"}), nil
}

func (g *gate) ValidateAt(ctx context.Context, _ string, value signup, opts schema.Options) (schema.Report, error) {
	return g.Validate(ctx, value, opts)
}

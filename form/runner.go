package form

import (
	"context"

	"github.com/alitto/pond/v2"
)

// Validator is the validation surface shared by Controller and Guarded.
type Validator interface {
	Validate(ctx context.Context) error
	ValidateField(ctx context.Context, path string) error
}

var (
	_ Validator = (*Controller[any])(nil)
	_ Validator = (*Guarded[any])(nil)
)

// Runner submits validation passes to a bounded worker pool, for callers that
// validate many forms or fields without blocking on each one.
type Runner struct {
	pool pond.Pool
}

// NewRunner starts a pool of at most workers concurrent passes. workers <= 0 means
// unbounded.
func NewRunner(workers int) *Runner {
	if workers < 0 {
		workers = 0
	}

	return &Runner{pool: pond.NewPool(workers)}
}

// Validate queues v.Validate. Wait on the task for the schema's error, if any.
func (r *Runner) Validate(ctx context.Context, v Validator) pond.Task { //nolint:ireturn
	return r.pool.SubmitErr(func() error {
		return v.Validate(ctx)
	})
}

// ValidateField queues v.ValidateField(path).
func (r *Runner) ValidateField(ctx context.Context, v Validator, path string) pond.Task { //nolint:ireturn
	return r.pool.SubmitErr(func() error {
		return v.ValidateField(ctx, path)
	})
}

// ValidateFields runs one pass per path on the pool and waits for all of them. It
// returns the first error a pass returned.
func (r *Runner) ValidateFields(ctx context.Context, v Validator, paths ...string) error {
	group := r.pool.NewGroup()

	for _, path := range paths {
		group.SubmitErr(func() error {
			return v.ValidateField(ctx, path)
		})
	}

	return group.Wait()
}

// Stop waits for queued passes to finish and shuts the pool down.
func (r *Runner) Stop() {
	r.pool.StopAndWait()
}

package form

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Guarded runs at most one validation pass of its controller at a time. Passes
// started directly on the embedded Controller are not covered.
type Guarded[T any] struct {
	*Controller[T]

	sem *semaphore.Weighted
}

// Serialized wraps c so that Validate and ValidateField calls made through the
// wrapper never overlap.
func Serialized[T any](c *Controller[T]) *Guarded[T] {
	return &Guarded[T]{
		Controller: c,
		sem:        semaphore.NewWeighted(1),
	}
}

// Validate waits for any running pass, then runs Controller.Validate. It returns
// ctx.Err() if ctx ends while waiting.
func (g *Guarded[T]) Validate(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)

	return g.Controller.Validate(ctx)
}

// ValidateField waits for any running pass, then runs Controller.ValidateField.
func (g *Guarded[T]) ValidateField(ctx context.Context, path string) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)

	return g.Controller.ValidateField(ctx, path)
}

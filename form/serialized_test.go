package form_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amp-labs/amp-forms/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OverlappingPassesInterleave(t *testing.T) {
	t.Parallel()

	g := newGate()
	c := newController(t, g, form.Static(signup{}))

	var wg sync.WaitGroup

	for range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, c.Validate(t.Context()))
		}()
	}

	// Both passes cleared the list before either appended.
	<-g.entered
	<-g.entered
	close(g.release)
	wg.Wait()

	assert.Equal(t, []string{"name", "name"}, paths(c.Errors()))
	assert.Equal(t, form.StateInvalid, c.State())
}

func TestSerialized_RunsOnePassAtATime(t *testing.T) {
	t.Parallel()

	g := newGate()
	guarded := form.Serialized(newController(t, g, form.Static(signup{})))

	var wg sync.WaitGroup

	for range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, guarded.Validate(t.Context()))
		}()
	}

	<-g.entered

	select {
	case <-g.entered:
		t.Fatal("second pass entered the schema while the first was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(g.release)
	wg.Wait()

	assert.Equal(t, []string{"name"}, paths(guarded.Errors()))
	assert.Equal(t, form.StateInvalid, guarded.State())
}

func TestSerialized_AcquireHonoursContext(t *testing.T) {
	t.Parallel()

	g := newGate()
	guarded := form.Serialized(newController(t, g, form.Static(signup{})))

	done := make(chan error, 1)

	go func() {
		done <- guarded.ValidateField(t.Context(), "name")
	}()

	<-g.entered

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := guarded.Validate(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"name"}, paths(guarded.Errors()))
}

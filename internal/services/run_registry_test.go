package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRunRegistrySupersedesPreviousRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := NewRunRegistry()

	first, firstID, releaseFirst := reg.Begin(context.Background(), "op-1")
	second, secondID, releaseSecond := reg.Begin(context.Background(), "op-1")

	assert.NotEqual(t, firstID, secondID)
	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.True(t, Superseded(first))
	assert.NoError(t, second.Err())

	// Releasing the stale run must not drop the newer one.
	releaseFirst()
	assert.Equal(t, 1, reg.Active())

	releaseSecond()
	releaseSecond()
	assert.Equal(t, 0, reg.Active())
	assert.False(t, Superseded(second))
}

func TestRunRegistrySessionsAreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := NewRunRegistry()

	a, _, releaseA := reg.Begin(context.Background(), "op-a")
	b, _, releaseB := reg.Begin(context.Background(), "op-b")
	defer releaseA()
	defer releaseB()

	assert.NoError(t, a.Err())
	assert.NoError(t, b.Err())
	assert.Equal(t, 2, reg.Active())
}

func TestRunRegistryConcurrentBegin(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := NewRunRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, _, release := reg.Begin(context.Background(), "op")
			defer release()
			if err := ctx.Err(); err != nil && !errors.Is(context.Cause(ctx), ErrRunSuperseded) {
				t.Errorf("unexpected cancel cause: %v", context.Cause(ctx))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, reg.Active())
}

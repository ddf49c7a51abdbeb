package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoRunsDetached(t *testing.T) {
	r := New(context.Background())

	done := make(chan struct{})
	id := r.Go("test-task", func(ctx context.Context) error {
		close(done)
		return nil
	})
	require.NotEmpty(t, id)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	require.NoError(t, r.Wait(context.Background()))
}

func TestGoUniqueTaskIDs(t *testing.T) {
	r := New(context.Background())

	a := r.Go("a", func(context.Context) error { return nil })
	b := r.Go("b", func(context.Context) error { return nil })
	assert.NotEqual(t, a, b)

	require.NoError(t, r.Wait(context.Background()))
}

func TestGoFailureDoesNotPanic(t *testing.T) {
	r := New(context.Background())

	r.Go("failing", func(context.Context) error { return assert.AnError })
	require.NoError(t, r.Wait(context.Background()))
}

func TestWaitTimesOut(t *testing.T) {
	r := New(context.Background())

	release := make(chan struct{})
	var finished atomic.Bool
	r.Go("slow", func(context.Context) error {
		<-release
		finished.Store(true)
		return nil
	})

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Wait(waitCtx)
	require.Error(t, err)
	assert.False(t, finished.Load())

	close(release)
	require.NoError(t, r.Wait(context.Background()))
}

func TestTasksUseBaseContext(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	r := New(base)

	observed := make(chan error, 1)
	r.Go("ctx-task", func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		observed <- ctx.Err()
		return nil
	})

	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("task never observed cancellation")
	}
	require.NoError(t, r.Wait(context.Background()))
}

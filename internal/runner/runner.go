// Package runner executes detached background tasks whose outcomes are
// observable only through logs.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner launches named background tasks detached from the request that
// spawned them. Each task gets its own context derived from the base
// context, so in-flight work survives request cancellation but stops on
// shutdown.
type Runner struct {
	base context.Context
	wg   sync.WaitGroup
}

// New creates a Runner whose tasks derive from base.
func New(base context.Context) *Runner {
	return &Runner{base: base}
}

// Go starts fn in the background. The caller gets no handle: success or
// failure is reported through the log, keyed by the generated task id.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) string {
	taskID := uuid.NewString()
	log := zap.L().With(
		zap.String("task", name),
		zap.String("task_id", taskID),
	)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		start := time.Now()
		log.Info("task started")

		if err := fn(r.base); err != nil {
			log.Error("task failed",
				zap.Error(err),
				zap.Duration("elapsed", time.Since(start)),
			)
			return
		}
		log.Info("task finished", zap.Duration("elapsed", time.Since(start)))
	}()

	return taskID
}

// Wait blocks until every launched task has returned, or until ctx is
// done. Used during shutdown to drain in-flight pipelines.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package workerpool provides a thin, bounded-concurrency pool shared
// by the solver coordinator and the client facade's batch-validate
// mode, backed by github.com/sourcegraph/conc/pool for panic-safe
// goroutine fan-out.
package workerpool

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// Pool runs tasks with bounded concurrency; a panic in one task is
// recovered and surfaced as an error from Wait rather than crashing the
// process or the sibling tasks.
type Pool struct {
	inner *pool.ContextPool
}

// New creates a Pool bound to ctx with at most maxGoroutines concurrent
// tasks. maxGoroutines <= 0 means unbounded.
func New(ctx context.Context, maxGoroutines int) *Pool {
	p := pool.New().WithContext(ctx)
	if maxGoroutines > 0 {
		p = p.WithMaxGoroutines(maxGoroutines)
	}
	return &Pool{inner: p}
}

// Go schedules fn to run in the pool. fn should respect ctx
// cancellation for tasks that can observe it.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.inner.Go(func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return fn(ctx)
	})
}

// Wait blocks until every scheduled task has returned, then returns the
// first non-nil error encountered (if any).
func (p *Pool) Wait() error {
	return p.inner.Wait()
}

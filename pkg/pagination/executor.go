package pagination

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Executor runs n independent units of work and returns once all finished.
// Tasks report their own outcome; an Executor never stops early.
type Executor interface {
	Run(ctx context.Context, n int, task func(ctx context.Context, i int))
	Name() string
}

// Sequential runs tasks one after another in index order.
type Sequential struct{}

// Run implements Executor.
func (Sequential) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	for i := 0; i < n; i++ {
		task(ctx, i)
	}
}

// Name implements Executor.
func (Sequential) Name() string { return "sequential" }

// Concurrent starts every task at once. Limit, when positive, caps the
// number of running goroutines; a rate gate inside the task usually bounds
// upstream parallelism already.
type Concurrent struct {
	Limit int
}

// Run implements Executor.
func (c Concurrent) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	var g errgroup.Group
	if c.Limit > 0 {
		g.SetLimit(c.Limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			task(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// Name implements Executor.
func (Concurrent) Name() string { return "concurrent" }

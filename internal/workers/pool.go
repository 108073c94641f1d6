package workers

import (
	"context"
	"errors"
	"sync"
)

// DefaultPoolSize is used when a pool is constructed with a non-positive
// worker count.
const DefaultPoolSize = 4

// Task is a single unit of background work.
type Task func(ctx context.Context) error

// Pool executes batches of tasks with a fixed concurrency limit.
type Pool struct {
	size int
}

// NewPool returns a pool running at most size tasks concurrently.
// A non-positive size selects [DefaultPoolSize].
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}

	return &Pool{size: size}
}

// Size reports the pool's concurrency limit.
func (p *Pool) Size() int {
	return p.size
}

// Run executes every task in the batch and blocks until all have finished.
// Task failures do not stop the rest of the batch; the errors of all failed
// tasks are joined into the returned error. Cancelling ctx stops dispatching
// tasks that have not started yet, and ctx.Err() is included in the result.
func (p *Pool) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task)

	var mu sync.Mutex
	var errs []error

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if err := task(ctx); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

dispatch:
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			break dispatch
		case queue <- task:
		}
	}
	close(queue)

	wg.Wait()

	return errors.Join(errs...)
}

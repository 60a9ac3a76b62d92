package loader

import (
	"context"
)

// Task is one unit of work joined by JoinAll.
type Task func(ctx context.Context) (err error)

// JoinAll starts every task at once and returns nil only if all of them succeed. The first
// error observed is returned immediately; tasks still running are neither cancelled nor
// awaited, and whatever they produce is discarded.
func JoinAll(ctx context.Context, tasks ...Task) (err error) {
	// Buffered so late finishers never block after an early return.
	results := make(chan error, len(tasks))

	for _, task := range tasks {
		go func(task Task) {
			results <- task(ctx)
		}(task)
	}

	for range tasks {
		select {
		case err = <-results:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			err = ctx.Err()
			return err
		}
	}

	return err
}

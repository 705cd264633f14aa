package agents

import (
	"context"
	"errors"
	"sync"

	"taskbot/syncs"
)

type RunAll func(
	ctx context.Context,
	tasks []Task,
	generator Generator,
	dispatcher Dispatcher,
	concurrency int,
) ([]*Report, error)

// RunAll runs tasks concurrently, bounded by a semaphore. Every task gets
// its own loop and expression context; reports come back in task order.
func (Module) RunAll(
	runTask RunTask,
) RunAll {
	return func(
		ctx context.Context,
		tasks []Task,
		generator Generator,
		dispatcher Dispatcher,
		concurrency int,
	) ([]*Report, error) {
		if concurrency <= 0 {
			concurrency = 1
		}
		semaphore := syncs.NewSemaphore(concurrency)

		reports := make([]*Report, len(tasks))
		errs := make([]error, len(tasks))
		var wg sync.WaitGroup
		for i, task := range tasks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				semaphore.Acquire()
				defer semaphore.Release()
				reports[i], errs[i] = runTask(ctx, task, generator, dispatcher)
			}()
		}
		wg.Wait()

		return reports, errors.Join(errs...)
	}
}

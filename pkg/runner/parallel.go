package runner

import (
	"context"
	"sync"
)

// parallelResult pairs a result with its original index so
// results can be returned in submission order.
type parallelResult struct {
	index  int
	result *Result
	err    error
}

// runParallel executes jobs concurrently with a semaphore
// limiting maxConcurrency goroutines. Results are returned in
// the same order as the input jobs.
func runParallel(
	ctx context.Context,
	r *DefaultRunner,
	jobs []Job,
	maxConcurrency int,
) ([]*Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan parallelResult, len(jobs))

	var wg sync.WaitGroup

	r.metrics.SetActiveJobs(len(jobs))
	defer r.metrics.SetActiveJobs(0)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelResult{
					index: idx,
					err:   ctx.Err(),
				}
				return
			}

			result, err := r.Run(ctx, j)
			resultsCh <- parallelResult{
				index:  idx,
				result: result,
				err:    err,
			}
		}(i, job)
	}

	// Close channel after all goroutines complete.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Collect results in submission order.
	ordered := make([]*Result, len(jobs))
	var firstErr error

	for pr := range resultsCh {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		ordered[pr.index] = pr.result
	}

	// Filter out nil entries if context was cancelled.
	results := make([]*Result, 0, len(jobs))
	for _, res := range ordered {
		if res != nil {
			results = append(results, res)
		}
	}

	return results, firstErr
}

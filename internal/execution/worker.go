package execution

import (
	"context"
	"sync"
	"time"

	"dct/internal/config"
	"dct/internal/domain"
	"dct/internal/ui"
)

// WorkerPool manages a pool of workers for parallel job execution
type WorkerPool struct {
	config   *config.Config
	driver   JobDriver
	progress *ui.ProgressBar
	logger   *ui.Logger
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, driver JobDriver, logger *ui.Logger) *WorkerPool {
	return &WorkerPool{
		config: cfg,
		driver: driver,
		logger: logger,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs all jobs, honouring the configured fail-fast flag
func (wp *WorkerPool) Execute(ctx context.Context, jobs []domain.Job) ([]domain.Verdict, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, jobs, wp.config.Flags.FailFast)
}

// ExecuteWithOptions runs jobs on at most Processors workers. Verdicts keep
// the order of jobs. With failFast no new job starts after the first FAIL and
// jobs never started have no verdict. A harness-fatal error from any job
// cancels the remaining work and is returned with the verdicts completed so far.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, jobs []domain.Job, failFast bool) ([]domain.Verdict, time.Duration, error) {
	if len(jobs) == 0 {
		return nil, 0, nil
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	feedCtx, stopFeeding := context.WithCancel(runCtx)
	defer stopFeeding()

	queue := make(chan int)
	go func() {
		defer close(queue)
		for i := range jobs {
			select {
			case <-feedCtx.Done():
				return
			case queue <- i:
			}
		}
	}()

	// One slot per job index, so workers never share an append target
	slots := make([]*domain.Verdict, len(jobs))

	var mu sync.Mutex
	var passed, failed int
	var firstErr error
	startTime := time.Now()

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}
	wp.logger.Debugf(1, "running %d job(s) on %d worker(s)", len(jobs), workerCount)

	var wg sync.WaitGroup
	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range queue {
				if feedCtx.Err() != nil {
					continue
				}
				wp.logger.Debugf(2, "worker %d: %s", workerID, jobs[i].Name)

				verdict, err := wp.driver.Run(runCtx, jobs[i])
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancelRun()
					continue
				}
				slots[i] = &verdict
				if verdict.Passed() {
					passed++
				} else {
					failed++
					if failFast {
						stopFeeding()
					}
				}
				if wp.progress != nil {
					wp.progress.Update(passed, failed)
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	verdicts := make([]domain.Verdict, 0, len(jobs))
	for _, slot := range slots {
		if slot != nil {
			verdicts = append(verdicts, *slot)
		}
	}
	if firstErr != nil {
		return verdicts, time.Since(startTime), firstErr
	}
	if err := ctx.Err(); err != nil {
		return verdicts, time.Since(startTime), err
	}
	return verdicts, time.Since(startTime), nil
}

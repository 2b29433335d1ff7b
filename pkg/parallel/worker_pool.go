// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// PoolConfig configures the worker pool behavior.
type PoolConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: min(runtime.NumCPU(), 8)
	MaxWorkers int

	// Timeout bounds the whole Execute call. Zero means no timeout.
	Timeout time.Duration

	// CollectMetrics enables collection of execution metrics.
	CollectMetrics bool
}

// DefaultPoolConfig returns a default pool configuration.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}
	return PoolConfig{MaxWorkers: workers}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// WithTimeout returns a new config with the specified timeout.
func (c PoolConfig) WithTimeout(d time.Duration) PoolConfig {
	c.Timeout = d
	return c
}

// WithMetrics returns a new config with metrics collection enabled.
func (c PoolConfig) WithMetrics() PoolConfig {
	c.CollectMetrics = true
	return c
}

// PoolMetrics holds execution statistics.
type PoolMetrics struct {
	TotalTasks     int64
	CompletedTasks int64
	FailedTasks    int64
	TotalDuration  time.Duration
	MaxTaskTime    time.Duration
	MinTaskTime    time.Duration
}

// TaskResult holds the result of one input.
type TaskResult[T any, R any] struct {
	Input    T
	Result   R
	Error    error
	Duration time.Duration
}

// WorkerPool applies one function to many inputs concurrently.
type WorkerPool[T any, R any] struct {
	config  PoolConfig
	mu      sync.Mutex
	metrics PoolMetrics
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool[T any, R any](config PoolConfig) *WorkerPool[T, R] {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	return &WorkerPool[T, R]{config: config}
}

// Execute calls fn for every input and returns the results in input order.
// Inputs not started before ctx is done get ctx.Err() as their error.
func (p *WorkerPool[T, R]) Execute(ctx context.Context, inputs []T, fn func(ctx context.Context, input T) (R, error)) []TaskResult[T, R] {
	if len(inputs) == 0 {
		return nil
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	results := make([]TaskResult[T, R], len(inputs))
	started := make([]bool, len(inputs))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(p.config.MaxWorkers, len(inputs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				taskStart := time.Now()
				result, err := fn(ctx, inputs[idx])
				duration := time.Since(taskStart)

				results[idx] = TaskResult[T, R]{
					Input:    inputs[idx],
					Result:   result,
					Error:    err,
					Duration: duration,
				}
				if p.config.CollectMetrics {
					p.record(duration, err)
				}
			}
		}()
	}

dispatch:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break dispatch
		case indexes <- i:
			started[i] = true
		}
	}
	close(indexes)
	wg.Wait()

	for i := range results {
		if !started[i] {
			results[i] = TaskResult[T, R]{Input: inputs[i], Error: ctx.Err()}
		}
	}

	if p.config.CollectMetrics {
		p.mu.Lock()
		p.metrics.TotalDuration += time.Since(start)
		p.mu.Unlock()
	}

	return results
}

func (p *WorkerPool[T, R]) record(duration time.Duration, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.TotalTasks++
	if err != nil {
		p.metrics.FailedTasks++
	} else {
		p.metrics.CompletedTasks++
	}

	if duration > p.metrics.MaxTaskTime {
		p.metrics.MaxTaskTime = duration
	}
	if p.metrics.MinTaskTime == 0 || duration < p.metrics.MinTaskTime {
		p.metrics.MinTaskTime = duration
	}
}

// Metrics returns the current execution metrics.
func (p *WorkerPool[T, R]) Metrics() PoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

// ForEach executes fn for each item in parallel and returns how many
// succeeded together with the first error seen.
func ForEach[T any](
	ctx context.Context,
	items []T,
	config PoolConfig,
	fn func(ctx context.Context, item T) error,
) (processed int64, firstError error) {
	var processedCount atomic.Int64
	var errOnce sync.Once

	pool := NewWorkerPool[T, struct{}](config)
	pool.Execute(ctx, items, func(ctx context.Context, item T) (struct{}, error) {
		if err := fn(ctx, item); err != nil {
			errOnce.Do(func() { firstError = err })
			return struct{}{}, err
		}
		processedCount.Add(1)
		return struct{}{}, nil
	})

	return processedCount.Load(), firstError
}

// ProgressTracker reports progress of a batch through a callback at a fixed
// interval.
type ProgressTracker struct {
	total     int64
	completed atomic.Int64
	callback  func(completed, total int64)
	interval  time.Duration
	stopCh    chan struct{}
	stopped   atomic.Bool
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker(total int64, callback func(completed, total int64), interval time.Duration) *ProgressTracker {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &ProgressTracker{
		total:    total,
		callback: callback,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins progress tracking in a background goroutine.
func (pt *ProgressTracker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pt.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-pt.stopCh:
				return
			case <-ticker.C:
				if pt.callback != nil {
					pt.callback(pt.completed.Load(), pt.total)
				}
			}
		}
	}()
}

// Increment increments the completed count.
func (pt *ProgressTracker) Increment() {
	pt.completed.Add(1)
}

// Stop stops progress tracking. It is safe to call more than once.
func (pt *ProgressTracker) Stop() {
	if pt.stopped.CompareAndSwap(false, true) {
		close(pt.stopCh)
	}
}

// Completed returns the current completed count.
func (pt *ProgressTracker) Completed() int64 {
	return pt.completed.Load()
}

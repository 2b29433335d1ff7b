package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Execute(t *testing.T) {
	pool := NewWorkerPool[int, int](DefaultPoolConfig())

	inputs := []int{1, 2, 3, 4, 5}
	results := pool.Execute(context.Background(), inputs, func(ctx context.Context, input int) (int, error) {
		return input * 2, nil
	})

	if len(results) != len(inputs) {
		t.Fatalf("Expected %d results, got %d", len(inputs), len(results))
	}

	for i, r := range results {
		if r.Error != nil {
			t.Errorf("Unexpected error for input %d: %v", inputs[i], r.Error)
		}
		if r.Input != inputs[i] || r.Result != inputs[i]*2 {
			t.Errorf("Result %d out of order: %+v", i, r)
		}
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	pool := NewWorkerPool[int, int](DefaultPoolConfig())
	results := pool.Execute(context.Background(), nil, func(ctx context.Context, input int) (int, error) {
		t.Error("fn must not be called")
		return 0, nil
	})
	if results != nil {
		t.Errorf("Expected nil results, got %v", results)
	}
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	pool := NewWorkerPool[int, int](PoolConfig{MaxWorkers: 2})

	var running, peak atomic.Int32
	inputs := make([]int, 20)
	pool.Execute(context.Background(), inputs, func(ctx context.Context, input int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return input, nil
	})

	if peak.Load() > 2 {
		t.Errorf("Expected at most 2 concurrent workers, saw %d", peak.Load())
	}
}

func TestWorkerPool_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool[int, int](PoolConfig{MaxWorkers: 1})
	var calls atomic.Int32
	results := pool.Execute(ctx, []int{1, 2, 3}, func(ctx context.Context, input int) (int, error) {
		calls.Add(1)
		return input, ctx.Err()
	})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("Result %d: expected context.Canceled, got %v", i, r.Error)
		}
		if r.Input != i+1 {
			t.Errorf("Result %d: expected input %d, got %d", i, i+1, r.Input)
		}
	}
}

func TestWorkerPool_Timeout(t *testing.T) {
	pool := NewWorkerPool[int, int](PoolConfig{MaxWorkers: 1, Timeout: 20 * time.Millisecond})

	results := pool.Execute(context.Background(), []int{1, 2, 3}, func(ctx context.Context, input int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	for i, r := range results {
		if !errors.Is(r.Error, context.DeadlineExceeded) {
			t.Errorf("Result %d: expected deadline exceeded, got %v", i, r.Error)
		}
	}
}

func TestWorkerPool_Metrics(t *testing.T) {
	pool := NewWorkerPool[int, int](DefaultPoolConfig().WithWorkers(3).WithMetrics())

	pool.Execute(context.Background(), []int{1, 2, 3, 4}, func(ctx context.Context, input int) (int, error) {
		if input%2 == 0 {
			return 0, errors.New("even")
		}
		return input, nil
	})

	m := pool.Metrics()
	if m.TotalTasks != 4 || m.CompletedTasks != 2 || m.FailedTasks != 2 {
		t.Errorf("Unexpected metrics: %+v", m)
	}
	if m.MaxTaskTime < m.MinTaskTime {
		t.Errorf("Max task time %v below min %v", m.MaxTaskTime, m.MinTaskTime)
	}
}

func TestForEach(t *testing.T) {
	boom := errors.New("boom")

	processed, err := ForEach(context.Background(), []string{"a", "b", "bad", "c"}, DefaultPoolConfig(),
		func(ctx context.Context, item string) error {
			if item == "bad" {
				return boom
			}
			return nil
		})

	if processed != 3 {
		t.Errorf("Expected 3 processed, got %d", processed)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestProgressTracker(t *testing.T) {
	var last atomic.Int64
	pt := NewProgressTracker(3, func(completed, total int64) {
		last.Store(completed)
	}, 5*time.Millisecond)

	pt.Start(context.Background())
	pt.Increment()
	pt.Increment()

	deadline := time.Now().Add(time.Second)
	for last.Load() != 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	pt.Stop()
	pt.Stop()

	if pt.Completed() != 2 {
		t.Errorf("Expected 2 completed, got %d", pt.Completed())
	}
	if last.Load() != 2 {
		t.Errorf("Expected callback to observe 2, got %d", last.Load())
	}
}

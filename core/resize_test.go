package core

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// TestPool_ResizeGrow verifies growing the worker set
// Given: a pool of 1 worker occupied by a gated task
// When: the pool is resized to 3 and more gated tasks are submitted
// Then: the new workers pick up work immediately
func TestPool_ResizeGrow(t *testing.T) {
	// Arrange
	p := newTestPool(t, 1)
	defer p.ForceShutdown()

	release, unblock := gate()
	defer unblock()
	gated := func() (any, error) {
		<-release
		return nil, nil
	}
	if _, _, err := p.Submit(gated, PriorityNormal); err != nil {
		t.Fatal(err)
	}
	waitUntil(t, time.Second, func() bool { return p.ActiveWorkers() == 1 }, "first worker not busy")

	// Act
	if err := p.Resize(3); err != nil {
		t.Fatalf("Resize(3) = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := p.Submit(gated, PriorityNormal); err != nil {
			t.Fatal(err)
		}
	}

	// Assert
	waitUntil(t, time.Second, func() bool { return p.ActiveWorkers() == 3 }, "grown workers not dispatching")
	if p.Size() != 3 {
		t.Errorf("Size() = %d, want 3", p.Size())
	}
	if p.TargetSize() != 3 {
		t.Errorf("TargetSize() = %d, want 3", p.TargetSize())
	}
	unblock()
}

// TestPool_ResizeShrinkConverges verifies best-effort shrink
// Given: an idle pool of 4 workers
// When: the pool is resized to 1
// Then: live workers converge to the target; no task is preempted
func TestPool_ResizeShrinkConverges(t *testing.T) {
	// Arrange
	p := newTestPool(t, 4)
	defer p.Shutdown()

	// Act
	if err := p.Resize(1); err != nil {
		t.Fatalf("Resize(1) = %v", err)
	}

	// Assert - poll for convergence, shrink is best-effort
	waitUntil(t, 2*time.Second, func() bool { return p.Size() == 1 }, "workers did not converge to target")

	// The remaining worker still serves tasks.
	h, _, err := p.Submit(func() (any, error) { return "ok", nil }, PriorityNormal)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := h.Wait(); v != "ok" {
		t.Errorf("post-shrink task = %v, want ok", v)
	}
}

// TestPool_ResizeShrinkDoesNotPreempt verifies running work survives
// Given: two workers both running gated tasks
// When: the pool shrinks to 1
// Then: both running tasks complete, then the worker set converges
func TestPool_ResizeShrinkDoesNotPreempt(t *testing.T) {
	// Arrange
	p := newTestPool(t, 2)
	defer p.Shutdown()

	var mu sync.Mutex
	finished := 0
	release, unblock := gate()
	defer unblock()
	for i := 0; i < 2; i++ {
		if _, _, err := p.Submit(func() (any, error) {
			<-release
			mu.Lock()
			finished++
			mu.Unlock()
			return nil, nil
		}, PriorityNormal); err != nil {
			t.Fatal(err)
		}
	}
	waitUntil(t, time.Second, func() bool { return p.ActiveWorkers() == 2 }, "workers not saturated")

	// Act
	if err := p.Resize(1); err != nil {
		t.Fatalf("Resize(1) = %v", err)
	}
	unblock()

	// Assert
	waitUntil(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return finished == 2
	}, "running tasks did not finish")
	waitUntil(t, 2*time.Second, func() bool { return p.Size() == 1 }, "workers did not converge")
}

// TestPool_ResizeInvalidAndAfterShutdown verifies resize boundaries
// Given: a pool
// When: resize is called with zero, and again after shutdown
// Then: the first fails with ErrInvalidConfig, the second with ErrShutdown
func TestPool_ResizeInvalidAndAfterShutdown(t *testing.T) {
	p := newTestPool(t, 1)

	if err := p.Resize(0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Resize(0) = %v, want ErrInvalidConfig", err)
	}

	p.Shutdown()
	if err := p.Resize(2); !errors.Is(err, ErrShutdown) {
		t.Errorf("Resize after shutdown = %v, want ErrShutdown", err)
	}
}

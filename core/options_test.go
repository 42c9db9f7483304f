package core

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock hands out strictly increasing instants.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(start time.Time, step time.Duration) *fakeClock {
	return &fakeClock{now: start, step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// capturingLogger retains every record for assertions.
type capturingLogger struct {
	mu      sync.Mutex
	records []string
}

func (l *capturingLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, level+" "+msg)
}

func (l *capturingLogger) Debug(msg string, fields ...Field) { l.log("debug", msg) }
func (l *capturingLogger) Info(msg string, fields ...Field)  { l.log("info", msg) }
func (l *capturingLogger) Warn(msg string, fields ...Field)  { l.log("warn", msg) }
func (l *capturingLogger) Error(msg string, fields ...Field) { l.log("error", msg) }

func (l *capturingLogger) contains(fragment string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

// TestPool_InjectedClock verifies the clock option drives timestamps
// Given: a pool using a fake clock
// When: a task runs to completion
// Then: its timestamps come from the fake clock and stay ordered
func TestPool_InjectedClock(t *testing.T) {
	// Arrange
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := newFakeClock(base, time.Second)
	p := newTestPool(t, 1, WithClock(clk))
	defer p.Shutdown()

	// Act
	h, id, err := p.Submit(func() (any, error) { return nil, nil }, PriorityNormal)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = h.Wait()
	waitUntil(t, time.Second, func() bool {
		info, ok := p.TaskInfo(id)
		return ok && info.State == TaskCompleted
	}, "task did not complete")

	// Assert
	info, _ := p.TaskInfo(id)
	if info.SubmittedAt.Before(base) {
		t.Errorf("SubmittedAt = %s, want after %s", info.SubmittedAt, base)
	}
	if !info.SubmittedAt.Before(info.StartedAt) {
		t.Errorf("SubmittedAt %s not before StartedAt %s", info.SubmittedAt, info.StartedAt)
	}
	if !info.StartedAt.Before(info.FinishedAt) {
		t.Errorf("StartedAt %s not before FinishedAt %s", info.StartedAt, info.FinishedAt)
	}
}

// TestPool_ThreadNameHook verifies worker naming
// Given: a pool of 3 workers with a capturing name hook
// When: the workers start
// Then: the hook sees three distinct workerpool-<id> names
func TestPool_ThreadNameHook(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	names := make(map[string]bool)
	hook := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		names[name] = true
	}

	// Act
	p := newTestPool(t, 3, WithThreadNameHook(hook))
	defer p.Shutdown()

	// Assert
	waitUntil(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 3
	}, "hook not called for every worker")

	mu.Lock()
	defer mu.Unlock()
	for _, want := range []string{"workerpool-0", "workerpool-1", "workerpool-2"} {
		if !names[want] {
			t.Errorf("hook never saw %q (got %v)", want, names)
		}
	}
}

// TestPool_LifecycleLogging verifies the observable lifecycle events
// Given: a pool narrating through a capturing logger
// When: the pool starts and shuts down
// Then: initialization, worker start/exit and shutdown records appear
func TestPool_LifecycleLogging(t *testing.T) {
	// Arrange
	logger := &capturingLogger{}

	// Act
	p := newTestPool(t, 2, WithLogger(logger), WithName("observed"))
	waitUntil(t, time.Second, func() bool { return logger.contains("worker started") }, "no worker start record")
	p.Shutdown()

	// Assert
	for _, fragment := range []string{"pool initialized", "worker started", "pool shutting down", "worker exited"} {
		if !logger.contains(fragment) {
			t.Errorf("log missing %q", fragment)
		}
	}
}

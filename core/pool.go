package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// waitPollInterval paces WaitAll's idle checks.
const waitPollInterval = 5 * time.Millisecond

// Pool executes submitted tasks on a bounded set of long-lived workers,
// highest priority first. One mutex guards the pending queue, the
// registry, the shutdown flags and the worker target; a condition
// variable wakes idle workers; statistics live behind their own mutex.
type Pool struct {
	name string

	mu      sync.Mutex
	cond    *sync.Cond
	queue   *pendingQueue
	tasks   *registry
	target  int // desired worker count
	workers int // live workers; may exceed target while shrinking
	nextID  int // worker id sequence
	seq     uint64
	stopped bool // graceful shutdown requested
	forced  bool // immediate shutdown requested

	wg     sync.WaitGroup
	active atomic.Int64

	stats     *statsCollector
	history   *executionHistory
	startedAt time.Time

	logger         Logger
	metrics        Metrics
	clock          Clock
	threadNameHook func(string)

	shutdownOnce sync.Once
	forceOnce    sync.Once
}

// New creates a pool with the given number of workers. Zero or negative
// counts are rejected with ErrInvalidConfig.
func New(workers int, opts ...Option) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count %d", ErrInvalidConfig, workers)
	}

	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		name:           cfg.name,
		queue:          newPendingQueue(),
		tasks:          newRegistry(),
		stats:          newStatsCollector(),
		history:        newExecutionHistory(cfg.historyCapacity),
		logger:         cfg.logger,
		metrics:        cfg.metrics,
		clock:          cfg.clock,
		threadNameHook: cfg.threadNameHook,
	}
	p.cond = sync.NewCond(&p.mu)
	p.startedAt = p.clock.Now()

	p.mu.Lock()
	p.target = workers
	p.spawnLocked(workers)
	p.mu.Unlock()

	p.logger.Info("pool initialized", F("pool", p.name), F("workers", workers))
	return p, nil
}

// NewDefault creates a pool sized to the hardware thread count.
func NewDefault(opts ...Option) (*Pool, error) {
	return New(runtime.NumCPU(), opts...)
}

// spawnLocked starts n additional workers. Caller holds the pool mutex.
func (p *Pool) spawnLocked(n int) {
	for range n {
		id := p.nextID
		p.nextID++
		p.workers++
		p.wg.Add(1)
		go p.workerLoop(id)
	}
}

// Submit enqueues work at the given priority with a pool-generated id.
func (p *Pool) Submit(work Work, priority Priority) (*Handle, string, error) {
	return p.SubmitWithID("", work, priority)
}

// SubmitWithID enqueues work under a caller-supplied id; an empty id asks
// the pool to mint one. The returned handle delivers the outcome; the
// task runs whether or not the handle is ever consumed.
func (p *Pool) SubmitWithID(id string, work Work, priority Priority) (*Handle, string, error) {
	if work == nil {
		return nil, "", fmt.Errorf("%w: nil work", ErrInvalidConfig)
	}

	p.mu.Lock()
	if p.stopped || p.forced {
		p.mu.Unlock()
		p.metrics.RecordTaskRejected(p.name, "shutdown")
		return nil, "", ErrShutdown
	}
	if id == "" {
		id = "task-" + uuid.NewString()
	}
	p.seq++
	t := &task{
		id:        id,
		priority:  priority,
		seq:       p.seq,
		submitted: p.clock.Now(),
		state:     TaskPending,
		work:      work,
		handle:    newHandle(),
		heapIndex: -1,
	}
	if err := p.tasks.put(t); err != nil {
		p.mu.Unlock()
		p.metrics.RecordTaskRejected(p.name, "duplicate_id")
		return nil, "", err
	}
	p.queue.insert(t)
	depth := p.queue.size()
	p.mu.Unlock()

	p.metrics.RecordQueueDepth(p.name, depth)
	p.cond.Signal()
	return t.handle, id, nil
}

// Cancel transitions a PENDING task to CANCELLED and removes it from the
// queue. It returns false when the task is unknown, already running, or
// already terminal. Running work is never interrupted.
func (p *Pool) Cancel(id string) bool {
	p.mu.Lock()
	t, ok := p.tasks.get(id)
	if !ok || t.state != TaskPending {
		p.mu.Unlock()
		return false
	}
	t.state = TaskCancelled
	p.queue.remove(t)
	depth := p.queue.size()
	p.mu.Unlock()

	t.handle.complete(nil, ErrTaskCancelled)
	p.stats.recordCancelled()
	p.metrics.RecordTaskFinished(p.name, TaskCancelled)
	p.metrics.RecordQueueDepth(p.name, depth)
	return true
}

// CancelAllPending drains the queue, cancels every drained task, and
// returns how many were cancelled. Workers are not woken; the work is
// simply gone.
func (p *Pool) CancelAllPending() int {
	p.mu.Lock()
	drained := p.queue.drain()
	for _, t := range drained {
		t.state = TaskCancelled
	}
	p.mu.Unlock()

	for _, t := range drained {
		t.handle.complete(nil, ErrTaskCancelled)
		p.stats.recordCancelled()
		p.metrics.RecordTaskFinished(p.name, TaskCancelled)
	}
	if len(drained) > 0 {
		p.metrics.RecordQueueDepth(p.name, 0)
	}
	return len(drained)
}

// WaitAll blocks until the queue is empty and no worker is executing a
// task, or ctx is done. Idleness is checked on the whole pool, so tasks
// submitted while it waits are waited for as well.
func (p *Pool) WaitAll(ctx context.Context) error {
	if p.idle() {
		return nil
	}
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.idle() {
				return nil
			}
		}
	}
}

// WaitAllFor is WaitAll bounded by a timeout. It returns false when the
// timeout elapses first; submitted tasks remain in progress.
func (p *Pool) WaitAllFor(timeout time.Duration) bool {
	if p.idle() {
		return true
	}
	if timeout <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.WaitAll(ctx) == nil
}

func (p *Pool) idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.size() == 0 && p.active.Load() == 0
}

// Resize sets the worker target. Growing spawns workers that become
// eligible immediately. Shrinking is best-effort: excess workers exit at
// their next loop iteration, and Size may report above target until they
// have.
func (p *Pool) Resize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: worker count %d", ErrInvalidConfig, n)
	}
	p.mu.Lock()
	if p.stopped || p.forced {
		p.mu.Unlock()
		return ErrShutdown
	}
	if n > p.workers {
		p.spawnLocked(n - p.workers)
	}
	p.target = n
	p.mu.Unlock()

	p.cond.Broadcast()
	p.logger.Info("pool resized", F("pool", p.name), F("target", n))
	return nil
}

// Shutdown stops the pool gracefully: no new submissions are accepted,
// workers drain the queue, and the call returns once every worker has
// exited and every previously submitted, non-cancelled task is terminal.
// Calling it again is a no-op that waits for the same completion. Must
// not be called from inside task work.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		p.cond.Broadcast()
		p.logger.Info("pool shutting down", F("pool", p.name))
	})
	p.wg.Wait()
}

// ForceShutdown stops the pool immediately: pending tasks are drained
// and CANCELLED, idle workers exit at once, and workers running a task
// finish that one task before exiting.
func (p *Pool) ForceShutdown() {
	p.forceOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.forced = true
		drained := p.queue.drain()
		for _, t := range drained {
			t.state = TaskCancelled
		}
		p.mu.Unlock()

		for _, t := range drained {
			t.handle.complete(nil, ErrTaskCancelled)
			p.stats.recordCancelled()
			p.metrics.RecordTaskFinished(p.name, TaskCancelled)
		}
		p.metrics.RecordQueueDepth(p.name, 0)
		p.cond.Broadcast()
		p.logger.Info("pool force shutdown", F("pool", p.name), F("cancelled", len(drained)))
	})
	p.wg.Wait()
}

// IsShuttingDown reports whether graceful or immediate shutdown has been
// requested.
func (p *Pool) IsShuttingDown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped || p.forced
}

// Name returns the pool name.
func (p *Pool) Name() string { return p.name }

// Size returns the number of live workers. After a shrink it may stay
// above the target until excess workers have exited.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// TargetSize returns the desired worker count set at construction or by
// the last Resize.
func (p *Pool) TargetSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// ActiveWorkers returns how many workers are executing a task right now.
func (p *Pool) ActiveWorkers() int {
	return int(p.active.Load())
}

// PendingCount returns the number of queued tasks.
func (p *Pool) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.size()
}

// TaskInfo returns the observable snapshot of one task, or false when
// the id is unknown.
func (p *Pool) TaskInfo(id string) (TaskInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tasks.get(id)
	if !ok {
		return TaskInfo{}, false
	}
	return t.info(), true
}

// TaskInfos returns a consistent snapshot of every registered task.
func (p *Pool) TaskInfos() []TaskInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.snapshot()
}

// EvictTerminal removes every terminal record from the registry and
// returns how many were evicted. Pending and running records stay.
func (p *Pool) EvictTerminal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	evicted := 0
	for _, info := range p.tasks.snapshot() {
		if info.State.Terminal() {
			p.tasks.remove(info.ID)
			evicted++
		}
	}
	return evicted
}

// RecentTasks returns recently finished executions, newest first.
func (p *Pool) RecentTasks(limit int) []ExecutionRecord {
	return p.history.recent(limit)
}

// Stats snapshots the pool counters. It has no side effects.
func (p *Pool) Stats() Stats {
	completed, failed, cancelled, avg := p.stats.snapshot()
	p.mu.Lock()
	pending := p.queue.size()
	workers := p.workers
	p.mu.Unlock()
	return Stats{
		Workers:         workers,
		ActiveWorkers:   int(p.active.Load()),
		PendingTasks:    pending,
		CompletedTotal:  completed,
		FailedTotal:     failed,
		CancelledTotal:  cancelled,
		AverageDuration: avg,
		StartedAt:       p.startedAt,
	}
}

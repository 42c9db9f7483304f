package core

import "fmt"

// workerLoop is the body of one worker goroutine. It sleeps on the pool
// condition variable, dispatches the highest-priority pending task, runs
// it outside the pool mutex, then records the terminal transition. User
// failures never escape the loop.
func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()

	name := fmt.Sprintf("workerpool-%d", id)
	p.threadNameHook(name)
	p.logger.Debug("worker started", F("pool", p.name), F("worker", name))

	for {
		p.mu.Lock()
		for !p.wakeLocked() {
			p.cond.Wait()
		}
		if p.exitLocked() {
			p.workers--
			p.mu.Unlock()
			p.logger.Debug("worker exited", F("pool", p.name), F("worker", name))
			return
		}

		t := p.queue.popHighest()
		if t == nil {
			p.mu.Unlock()
			continue
		}
		if t.state != TaskPending {
			// Cancelled between observation and dispatch; skip.
			p.mu.Unlock()
			continue
		}
		t.state = TaskRunning
		t.started = p.clock.Now()
		p.active.Add(1)
		p.mu.Unlock()

		value, err := runWork(t)
		p.finishTask(t, value, err, id)
	}
}

// wakeLocked reports whether a waiting worker should stop sleeping.
func (p *Pool) wakeLocked() bool {
	return p.forced || p.stopped || p.queue.size() > 0 || p.workers > p.target
}

// exitLocked reports whether the worker should exit instead of
// dispatching. Graceful shutdown drains the queue first; immediate
// shutdown and shrink do not.
func (p *Pool) exitLocked() bool {
	if p.forced {
		return true
	}
	if p.stopped && p.queue.size() == 0 {
		return true
	}
	return p.workers > p.target
}

// runWork invokes the user closure, converting a panic into a TaskError.
func runWork(t *task) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &TaskError{TaskID: t.id, Cause: panicText(rec)}
		}
	}()
	return t.work()
}

func panicText(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// finishTask records the terminal transition, completes the handle,
// updates statistics, then releases the worker's running claim. The
// ordering matters: a waiter released by the handle observes the
// terminal state, and WaitAll cannot return before the counters include
// this task.
func (p *Pool) finishTask(t *task, value any, err error, workerID int) {
	now := p.clock.Now()

	p.mu.Lock()
	t.finished = now
	if err != nil {
		t.state = TaskFailed
		t.errText = err.Error()
	} else {
		t.state = TaskCompleted
	}
	state := t.state
	info := t.info()
	t.work = nil
	p.mu.Unlock()

	t.handle.complete(value, err)

	duration := t.finished.Sub(t.started)
	if duration < 0 {
		duration = 0
	}
	p.stats.recordFinished(state, duration)
	p.metrics.RecordTaskDuration(p.name, t.priority, duration)
	p.metrics.RecordTaskFinished(p.name, state)
	p.history.add(ExecutionRecord{Info: info, Duration: duration, Worker: workerID})

	p.active.Add(-1)
}

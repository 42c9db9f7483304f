package workerpool

import (
	"time"

	"github.com/renholt/go-worker-pool/core"
)

// TaskRef is a foreign-facing numeric task reference. Refs are minted by
// the runtime from a monotonic counter, separate from the pool's textual
// id space, for embedders that key tasks by integer instead of holding
// handles.
type TaskRef uint64

type refEntry struct {
	id     string
	handle *core.Handle
}

// SubmitTask submits work and returns a numeric reference to it.
func (r *Runtime) SubmitTask(work core.Work, priority core.Priority) (TaskRef, error) {
	handle, id, err := r.pool.Submit(work, priority)
	if err != nil {
		return 0, err
	}

	r.refMu.Lock()
	r.nextRef++
	ref := r.nextRef
	r.refs[ref] = &refEntry{id: id, handle: handle}
	r.refMu.Unlock()
	return ref, nil
}

func (r *Runtime) lookup(ref TaskRef) (*refEntry, bool) {
	r.refMu.Lock()
	defer r.refMu.Unlock()
	e, ok := r.refs[ref]
	return e, ok
}

// TaskState returns the current lifecycle state of a referenced task.
func (r *Runtime) TaskState(ref TaskRef) (core.State, bool) {
	e, ok := r.lookup(ref)
	if !ok {
		return 0, false
	}
	info, ok := r.pool.TaskInfo(e.id)
	if !ok {
		return 0, false
	}
	return info.State, true
}

// TaskDetail returns the full observable snapshot of a referenced task.
func (r *Runtime) TaskDetail(ref TaskRef) (core.TaskInfo, bool) {
	e, ok := r.lookup(ref)
	if !ok {
		return core.TaskInfo{}, false
	}
	return r.pool.TaskInfo(e.id)
}

// CancelTask cancels a referenced task if it is still pending.
func (r *Runtime) CancelTask(ref TaskRef) bool {
	e, ok := r.lookup(ref)
	if !ok {
		return false
	}
	return r.pool.Cancel(e.id)
}

// WaitTask waits up to timeout for a referenced task's outcome. ok is
// false when the reference is unknown or the timeout elapsed.
func (r *Runtime) WaitTask(ref TaskRef, timeout time.Duration) (value any, err error, ok bool) {
	e, found := r.lookup(ref)
	if !found {
		return nil, nil, false
	}
	return e.handle.WaitFor(timeout)
}

// ReleaseTask drops the runtime's reference bookkeeping for ref. The
// task itself is unaffected.
func (r *Runtime) ReleaseTask(ref TaskRef) {
	r.refMu.Lock()
	defer r.refMu.Unlock()
	delete(r.refs, ref)
}

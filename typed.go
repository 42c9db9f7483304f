package workerpool

import (
	"context"
	"time"

	"github.com/renholt/go-worker-pool/core"
)

// TypedHandle is a typed veneer over a core.Handle for tasks submitted
// through Submit.
type TypedHandle[T any] struct {
	h *core.Handle
}

// Submit enqueues a typed work function on pool and returns a typed
// handle for its result.
func Submit[T any](pool *core.Pool, priority core.Priority, fn func() (T, error)) (*TypedHandle[T], string, error) {
	return SubmitWithID[T](pool, "", priority, fn)
}

// SubmitWithID is Submit with a caller-supplied task id.
func SubmitWithID[T any](pool *core.Pool, id string, priority core.Priority, fn func() (T, error)) (*TypedHandle[T], string, error) {
	h, taskID, err := pool.SubmitWithID(id, func() (any, error) {
		return fn()
	}, priority)
	if err != nil {
		return nil, "", err
	}
	return &TypedHandle[T]{h: h}, taskID, nil
}

// Wait blocks for the task's outcome.
func (h *TypedHandle[T]) Wait() (T, error) {
	v, err := h.h.Wait()
	return assertValue[T](v, err)
}

// WaitContext is Wait bounded by ctx.
func (h *TypedHandle[T]) WaitContext(ctx context.Context) (T, error) {
	v, err := h.h.WaitContext(ctx)
	return assertValue[T](v, err)
}

// WaitFor waits up to d; ok is false on timeout.
func (h *TypedHandle[T]) WaitFor(d time.Duration) (value T, err error, ok bool) {
	v, err, ok := h.h.WaitFor(d)
	if !ok {
		var zero T
		return zero, nil, false
	}
	value, err = assertValue[T](v, err)
	return value, err, true
}

// Ready reports whether the outcome is available.
func (h *TypedHandle[T]) Ready() bool { return h.h.Ready() }

// Untyped returns the underlying core handle.
func (h *TypedHandle[T]) Untyped() *core.Handle { return h.h }

func assertValue[T any](v any, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	value, _ := v.(T)
	return value, nil
}

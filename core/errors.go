package core

import (
	"errors"
	"fmt"
)

var (
	// ErrShutdown is returned by Submit and Resize after graceful or
	// immediate shutdown has been requested.
	ErrShutdown = errors.New("workerpool: pool is shutting down")

	// ErrDuplicateID is returned by Submit when a caller-supplied id
	// collides with a live registry entry.
	ErrDuplicateID = errors.New("workerpool: duplicate task id")

	// ErrInvalidConfig is returned for rejected construction or resize
	// parameters, such as a zero worker count.
	ErrInvalidConfig = errors.New("workerpool: invalid configuration")

	// ErrTaskCancelled is delivered through the result handle of a task
	// that was cancelled while pending.
	ErrTaskCancelled = errors.New("workerpool: task cancelled")
)

// TaskError reports a failure captured from user work that panicked.
// Failures signalled by an error return are delivered as-is.
type TaskError struct {
	TaskID string
	Cause  string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("workerpool: task %s panicked: %s", e.TaskID, e.Cause)
}

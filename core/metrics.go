package core

import "time"

// Metrics receives pool execution events. Implementations must be safe
// for concurrent use and fast; they are called from worker goroutines
// and from submit/cancel paths, never under the pool mutex.
type Metrics interface {
	// RecordTaskDuration records how long a task ran before reaching
	// COMPLETED or FAILED.
	RecordTaskDuration(pool string, priority Priority, d time.Duration)

	// RecordTaskFinished records one terminal transition.
	RecordTaskFinished(pool string, state State)

	// RecordQueueDepth records the pending-queue depth after a change.
	RecordQueueDepth(pool string, depth int)

	// RecordTaskRejected records a submission the pool refused.
	RecordTaskRejected(pool string, reason string)
}

// NilMetrics is the default no-op Metrics implementation.
type NilMetrics struct{}

func (NilMetrics) RecordTaskDuration(pool string, priority Priority, d time.Duration) {}
func (NilMetrics) RecordTaskFinished(pool string, state State)                        {}
func (NilMetrics) RecordQueueDepth(pool string, depth int)                            {}
func (NilMetrics) RecordTaskRejected(pool string, reason string)                      {}

package workerpool

import "github.com/renholt/go-worker-pool/core"

// Re-export the commonly used core types so most applications only
// import the workerpool package.

// Work is the unit of work submitted to a pool.
type Work = core.Work

// Priority orders dispatch of pending tasks.
type Priority = core.Priority

// State is the lifecycle state of a submitted task.
type State = core.State

// TaskInfo is the observable snapshot of one task record.
type TaskInfo = core.TaskInfo

// Handle delivers the outcome of one submitted task.
type Handle = core.Handle

// Pool executes submitted tasks on a bounded set of workers.
type Pool = core.Pool

// Stats is a point-in-time snapshot of pool counters.
type Stats = core.Stats

// Logger is the structured logging capability the pool narrates through.
type Logger = core.Logger

// Field is a key-value pair attached to a log record.
type Field = core.Field

// Priority levels.
const (
	PriorityLow      Priority = core.PriorityLow
	PriorityNormal   Priority = core.PriorityNormal
	PriorityHigh     Priority = core.PriorityHigh
	PriorityCritical Priority = core.PriorityCritical
)

// Task states.
const (
	TaskPending   State = core.TaskPending
	TaskRunning   State = core.TaskRunning
	TaskCompleted State = core.TaskCompleted
	TaskFailed    State = core.TaskFailed
	TaskCancelled State = core.TaskCancelled
)

// Sentinel errors.
var (
	ErrShutdown      = core.ErrShutdown
	ErrDuplicateID   = core.ErrDuplicateID
	ErrInvalidConfig = core.ErrInvalidConfig
	ErrTaskCancelled = core.ErrTaskCancelled
)

// F creates a log Field.
var F = core.F

// NewPool creates a standalone pool with the given worker count.
var NewPool = core.New

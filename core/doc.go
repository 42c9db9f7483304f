// Package core implements the priority worker pool: a bounded set of
// long-lived workers dispatching submitted tasks highest priority first,
// with per-task lifecycle state, cancellation of pending work, dynamic
// resize, graceful and immediate shutdown, and incrementally maintained
// statistics.
//
// The root workerpool package wraps this with a process-wide runtime
// (configuration, logging, HTTP client, platform probe); most users
// import only that. Import core directly to embed a pool with custom
// collaborators:
//
//	pool, err := core.New(4,
//		core.WithName("ingest"),
//		core.WithLogger(core.NewDefaultLogger(core.LevelInfo)),
//	)
//	if err != nil {
//		// zero workers and other invalid configurations are rejected
//	}
//	defer pool.Shutdown()
//
//	handle, id, err := pool.Submit(func() (any, error) {
//		return compute(), nil
//	}, core.PriorityHigh)
//	value, err := handle.Wait()
//
// Only PENDING tasks can be cancelled; running work is never
// interrupted. Results flow through single-completion handles that are
// safe to drop without consuming.
package core

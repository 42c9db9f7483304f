// Package workerpool provides a priority worker-pool runtime with a
// process-wide facade: a pool of long-lived workers executing submitted
// tasks highest priority first, plus the thin collaborators an embedding
// application needs around it (configuration, structured logging, an
// HTTP client, and a platform probe).
//
// # Quick start
//
// Initialize the shared runtime at application startup:
//
//	if err := workerpool.Init(workerpool.DefaultConfig()); err != nil {
//		log.Fatal(err)
//	}
//	defer workerpool.Shutdown()
//
//	pool := workerpool.Get().Pool()
//	handle, _, _ := pool.Submit(func() (any, error) {
//		return 42, nil
//	}, workerpool.PriorityNormal)
//	v, err := handle.Wait()
//
// Applications that want several pools, or full control over the
// collaborators, construct core.Pool values directly and skip the
// singleton.
//
// # Typed submission
//
// Submit and TypedHandle put a typed veneer over the untyped core
// handles:
//
//	h, _, _ := workerpool.Submit(pool, workerpool.PriorityHigh, func() (int, error) {
//		return strconv.Atoi(s)
//	})
//	n, err := h.Wait()
//
// # Foreign-facing task references
//
// Runtime hands out monotonically increasing numeric TaskRefs mapping to
// pool task ids, for embedders that need handle-free, integer-keyed
// submission (SubmitTask, TaskState, CancelTask, WaitTask).
package workerpool

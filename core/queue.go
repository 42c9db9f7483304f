package core

import "container/heap"

// pendingQueue orders PENDING tasks by (priority descending, submit
// instant ascending, submission sequence ascending). The sequence breaks
// ties between submissions that land on the same clock reading, so serial
// submissions within one priority class dequeue in FIFO order.
//
// The queue carries no locking of its own; every call happens under the
// pool mutex.
type pendingQueue struct {
	items taskHeap
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{items: make(taskHeap, 0, 16)}
}

func (q *pendingQueue) insert(t *task) {
	heap.Push(&q.items, t)
}

// popHighest removes and returns the highest-priority task, or nil when
// the queue is empty.
func (q *pendingQueue) popHighest() *task {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(&q.items).(*task)
}

// remove takes t out of the queue wherever it sits. No-op when t is not
// queued.
func (q *pendingQueue) remove(t *task) {
	if t.heapIndex < 0 || t.heapIndex >= len(q.items) || q.items[t.heapIndex] != t {
		return
	}
	heap.Remove(&q.items, t.heapIndex)
}

// drain moves every queued task out, leaving the queue empty. The
// returned slice is in arbitrary order.
func (q *pendingQueue) drain() []*task {
	out := make([]*task, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	for _, t := range out {
		t.heapIndex = -1
	}
	return out
}

// drainMatching removes every queued task for which match returns true.
func (q *pendingQueue) drainMatching(match func(*task) bool) []*task {
	var out []*task
	for i := 0; i < len(q.items); {
		if match(q.items[i]) {
			t := heap.Remove(&q.items, i).(*task)
			out = append(out, t)
			i = 0 // the fix-up may have moved an unscanned task below i
			continue
		}
		i++
	}
	return out
}

func (q *pendingQueue) size() int { return len(q.items) }

// taskHeap implements heap.Interface. The element at index 0 is the next
// task to dispatch.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if !a.submitted.Equal(b.submitted) {
		return a.submitted.Before(b.submitted)
	}
	return a.seq < b.seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.heapIndex = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil // release the reference
	t.heapIndex = -1
	*h = old[:n-1]
	return t
}

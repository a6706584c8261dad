package discover

import (
	"sync"

	"github.com/docdex/docdex/bloom"
)

// Queue sizing for Bloom filter deduplication.
const (
	queueExpectedItems     = 10000
	queueFalsePositiveRate = 0.01
)

// Task is one unit of traversal work carrying its depth, so depth caps
// are enforced by the consumer without language-level recursion.
type Task struct {
	Ref   string
	Depth int
}

// Queue is a FIFO work queue with Bloom filter deduplication, used for
// sitemap-index expansion and repository directory walks. It is safe for
// concurrent use by multiple goroutines.
type Queue struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	tasks []Task
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: bloom.NewFilter(queueExpectedItems, queueFalsePositiveRate),
	}
}

// Push enqueues a task. Returns false if the ref has already been seen.
func (q *Queue) Push(ref string, depth int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen.Test(ref) {
		return false
	}
	q.seen.Add(ref)
	q.tasks = append(q.tasks, Task{Ref: ref, Depth: depth})
	return true
}

// PopN dequeues up to n tasks in FIFO order. It returns nil when the
// queue is empty.
func (q *Queue) PopN(n int) []Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || len(q.tasks) == 0 {
		return nil
	}
	if n > len(q.tasks) {
		n = len(q.tasks)
	}
	batch := make([]Task, n)
	copy(batch, q.tasks[:n])
	q.tasks = q.tasks[n:]
	return batch
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Seen returns true if the ref has been queued at some point.
func (q *Queue) Seen(ref string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen.Test(ref)
}

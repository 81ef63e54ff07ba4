// Package queue provides an unbounded, concurrency-safe FIFO hand-off queue.
//
// The queue supports any number of concurrent producers and consumers. Items
// are delivered exactly once, in the order their Push calls completed across
// all producers combined. Pop blocks until an item is available; TryPop never
// blocks, which suits polling consumers that check a cancellation signal
// between polls.
package queue

import "sync"

// Queue is a blocking multi-producer/multi-consumer FIFO channel.
// The zero value is not usable; construct with New.
type Queue[T any] struct {
	mu    sync.Mutex
	ready *sync.Cond
	items []T
	head  int
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes one waiting consumer. It never blocks.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.ready.Signal()
}

// Pop removes and returns the head item, blocking until one is available.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) {
		q.ready.Wait()
	}
	return q.popLocked()
}

// TryPop removes and returns the head item if present. The second return
// value reports whether an item was available.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Len returns the number of queued items. The value may be stale as soon as
// it is returned; use it for diagnostics only, never for synchronization.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// IsEmpty reports whether the queue currently holds no items. Like Len, the
// answer may be stale under concurrent mutation.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// popLocked removes the head item. Callers must hold q.mu and have checked
// that the queue is non-empty.
func (q *Queue[T]) popLocked() T {
	item := q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing slice.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return item
}

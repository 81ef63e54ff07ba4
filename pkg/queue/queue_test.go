package queue

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := New[int]()

	for i := 0; i < 100; i++ {
		q.Push(i)
	}

	assert.Equal(t, 100, q.Len())
	for i := 0; i < 100; i++ {
		item, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, item)
	}
	assert.True(t, q.IsEmpty())
}

func TestQueue_TryPopEmpty(t *testing.T) {
	q := New[string]()

	item, ok := q.TryPop()
	assert.False(t, ok)
	assert.Equal(t, "", item)
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := New[int]()

	done := make(chan int, 1)
	go func() {
		done <- q.Pop()
	}()

	// The consumer should be parked, not spinning on an empty queue.
	select {
	case <-done:
		t.Fatal("Pop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(42)

	select {
	case item := <-done:
		assert.Equal(t, 42, item)
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 500

	q := New[int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(p*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())

	// Every pushed item arrives exactly once, and each producer's own items
	// stay in its push order.
	seen := make([]int, 0, producers*perProducer)
	nextPerProducer := make(map[int]int)
	for {
		item, ok := q.TryPop()
		if !ok {
			break
		}
		seen = append(seen, item)

		p := item / perProducer
		assert.Equal(t, nextPerProducer[p], item%perProducer, "producer %d out of order", p)
		nextPerProducer[p]++
	}

	require.Len(t, seen, producers*perProducer)
	sort.Ints(seen)
	for i, item := range seen {
		require.Equal(t, i, item, "item lost or duplicated")
	}
}

func TestQueue_ConcurrentConsumers(t *testing.T) {
	const items = 1000
	const consumers = 4

	q := New[int]()

	results := make(chan int, items)
	var wg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < items/consumers; i++ {
				results <- q.Pop()
			}
		}()
	}

	for i := 0; i < items; i++ {
		q.Push(i)
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, items)
	for item := range results {
		assert.False(t, seen[item], "item %d delivered twice", item)
		seen[item] = true
	}
	assert.Len(t, seen, items)
}

func TestQueue_ReclaimKeepsOrder(t *testing.T) {
	q := New[int]()

	// Interleave pushes and pops past the compaction threshold.
	next := 0
	pushed := 0
	for round := 0; round < 50; round++ {
		for i := 0; i < 10; i++ {
			q.Push(pushed)
			pushed++
		}
		for i := 0; i < 7; i++ {
			item, ok := q.TryPop()
			require.True(t, ok)
			require.Equal(t, next, item)
			next++
		}
	}
	for {
		item, ok := q.TryPop()
		if !ok {
			break
		}
		require.Equal(t, next, item)
		next++
	}
	assert.Equal(t, pushed, next)
}

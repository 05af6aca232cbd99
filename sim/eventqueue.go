package sim

import (
	"container/heap"
	"sync"
)

// scheduledEntry is one (fire_time, id, event) tuple waiting in the
// scheduler's queue. Entries are strictly ordered: earlier fire_time first,
// ties broken by the smaller insertion id.
type scheduledEntry struct {
	time VTime
	id   insertionID
	ev   *eventImpl
}

// eventQueue is a thread-safe priority queue of scheduledEntry, ordered the
// way spec.md §3 describes a Scheduled Entry.
type eventQueue struct {
	mu      sync.Mutex
	entries entryHeap
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(&q.entries)
	return q
}

func (q *eventQueue) push(e scheduledEntry) {
	q.mu.Lock()
	heap.Push(&q.entries, e)
	q.mu.Unlock()
}

func (q *eventQueue) pop() scheduledEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return heap.Pop(&q.entries).(scheduledEntry)
}

func (q *eventQueue) peek() scheduledEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entries[0]
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

type entryHeap []scheduledEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].id < h[j].id
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(scheduledEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

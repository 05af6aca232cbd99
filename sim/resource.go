package sim

import "container/list"

// Resource is a counted semaphore. Pending requests are held as Events in
// FIFO order; each release fires the oldest non-aborted waiter.
type Resource struct {
	s         *Scheduler
	capacity  uint64
	available uint64
	waiters   *list.List // of Event
}

// NewResource creates a Resource with the given starting availability. The
// starting availability also becomes the Resource's reported Capacity, since
// nothing in spec.md's model ever grows a Resource beyond what it started
// with.
func NewResource(s *Scheduler, available uint64) *Resource {
	return &Resource{
		s:         s,
		capacity:  available,
		available: available,
		waiters:   list.New(),
	}
}

// Request returns an Event that fires once the resource has been acquired.
func (r *Resource) Request() Event {
	ev := newEvent(r.s)
	r.waiters.PushBack(ev)
	r.drain()
	return ev
}

// Release returns one unit of the resource to the pool and immediately
// tries to hand it to the oldest waiting, non-aborted request.
func (r *Resource) Release() {
	r.available++
	r.drain()
}

// Available returns the current, unheld count.
func (r *Resource) Available() uint64 { return r.available }

// Capacity returns the Resource's starting availability.
func (r *Resource) Capacity() uint64 { return r.capacity }

// Waiting returns the number of requests still queued for a unit.
func (r *Resource) Waiting() int { return r.waiters.Len() }

func (r *Resource) drain() {
	for r.available > 0 && r.waiters.Len() > 0 {
		front := r.waiters.Front()
		r.waiters.Remove(front)

		ev := front.Value.(Event)
		if ev.Aborted() {
			continue
		}

		ev.Trigger()
		r.available--
	}
}

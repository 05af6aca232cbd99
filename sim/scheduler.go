package sim

import (
	"log"
	"sync"
)

// Scheduler owns the virtual clock and the time-ordered queue of events. It
// is the sole root of a simulation: Resource and Store hold a back-reference
// to it, and multiple independent Schedulers may coexist in the same
// process.
type Scheduler struct {
	HookableBase

	now   VTime
	ids   idCounter
	queue *eventQueue

	liveMu sync.Mutex
	live   map[*process]struct{}
}

// New creates a Scheduler with an empty queue and now() == Zero.
func New() *Scheduler {
	return &Scheduler{
		queue: newEventQueue(),
		live:  make(map[*process]struct{}),
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() VTime { return s.now }

// Empty reports whether the queue has no more scheduled entries.
func (s *Scheduler) Empty() bool { return s.queue.len() == 0 }

// Event returns a fresh Pending Event bound to this scheduler.
func (s *Scheduler) Event() Event { return newEvent(s) }

// NewValueEvent returns a fresh Pending ValueEvent[V] bound to this
// scheduler. (Named NewValueEvent rather than a generic method, since Go
// methods cannot carry their own type parameters.)
func NewValueEvent[V any](s *Scheduler) *ValueEvent[V] { return newValueEvent[V](s) }

// Timeout returns a new Event scheduled to fire at now()+delay. delay must
// be non-negative.
func (s *Scheduler) Timeout(delay VTime) Event {
	ev := newEvent(s)
	ev.triggerAfter(delay)
	return ev
}

// TimeoutValue returns a new ValueEvent[V] carrying value, scheduled to fire
// at now()+delay. delay must be non-negative.
func TimeoutValue[V any](s *Scheduler, delay VTime, value V) *ValueEvent[V] {
	ev := newValueEvent[V](s)
	ev.triggerAfter(delay, value)
	return ev
}

// schedule pushes (now()+delay, next id, ev) onto the heap. It never sets
// ev's state; callers (Trigger/triggerAfter) do that.
func (s *Scheduler) schedule(ev *eventImpl, delay VTime) {
	if delay < 0 {
		log.Panicf("sim: cannot schedule with negative delay %v", delay)
	}

	fireTime := s.now + delay
	ev.time = fireTime

	s.queue.push(scheduledEntry{
		time: fireTime,
		id:   s.ids.nextID(),
		ev:   ev,
	})
}

// Step pops the earliest entry, advances now() to its fire time, and
// processes it. The queue must be non-empty.
func (s *Scheduler) Step() {
	if s.Empty() {
		log.Panic("sim: Step called with an empty queue")
	}

	entry := s.queue.pop()
	if entry.time < s.now {
		log.Panicf("sim: time went backwards: entry at %v, now %v", entry.time, s.now)
	}

	s.now = entry.time

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeEvent, Item: entry.ev})
	entry.ev.process()
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterEvent, Item: entry.ev})
}

// Run repeats Step until the queue is empty.
func (s *Scheduler) Run() {
	for !s.Empty() {
		s.Step()
	}
}

// RunUntil repeats Step while the next entry's fire time is strictly less
// than target, then sets now() to target. Events scheduled exactly at
// target are not processed (see spec.md's Open Questions resolution in
// DESIGN.md).
func (s *Scheduler) RunUntil(target VTime) {
	if target < s.now {
		log.Panicf("sim: RunUntil target %v is before now %v", target, s.now)
	}

	for !s.Empty() && s.queue.peek().time < target {
		s.Step()
	}

	s.now = target
}

// registerLive tracks a process frame for shutdown cleanup.
func (s *Scheduler) registerLive(p *process) {
	s.liveMu.Lock()
	s.live[p] = struct{}{}
	s.liveMu.Unlock()
}

// forget stops tracking a process frame that has finished naturally.
func (s *Scheduler) forget(p *process) {
	s.liveMu.Lock()
	delete(s.live, p)
	s.liveMu.Unlock()
}

// Shutdown destroys every still-suspended process frame. Ordering across
// frames is unspecified beyond "no frame is leaked", per spec.md §5.
func (s *Scheduler) Shutdown() {
	s.liveMu.Lock()
	live := make([]*process, 0, len(s.live))
	for p := range s.live {
		live = append(live, p)
	}
	s.live = make(map[*process]struct{})
	s.liveMu.Unlock()

	for _, p := range live {
		p.destroy()
	}
}

package sim

import "log"

// eventState is the state of an Event. Transitions are allowed only from
// Pending to {Triggered, Aborted}, and from Triggered to Processed; Aborted
// and Processed are terminal.
type eventState int32

const (
	statePending eventState = iota
	stateTriggered
	stateProcessed
	stateAborted
)

// Event is a point-in-time happening in the simulation. Its state machine
// drives process suspension and resumption: a process that awaits a Pending
// or Triggered Event parks until the Event is processed, while awaiting a
// Processed Event returns immediately.
type Event interface {
	// ID returns a short, human-readable identifier for logging.
	ID() string

	// Time returns the virtual time the event was scheduled to fire at.
	// Only meaningful once the event is Triggered or Processed.
	Time() VTime

	Pending() bool
	Triggered() bool
	Processed() bool
	Aborted() bool

	// Trigger transitions a Pending event to Triggered and schedules it to
	// be processed at the current virtual time. A no-op if not Pending.
	Trigger()

	// Abort transitions a Pending event to Aborted, destroying every
	// process frame currently parked on it. A no-op if not Pending.
	Abort()

	// AddCallback appends a callback to be invoked, in insertion order,
	// when the event is processed. Silently dropped if the event is
	// already Processed or Aborted.
	AddCallback(cb func(Event))

	// Or is sugar for Scheduler.AnyOf(e, other).
	Or(other Event) Event

	// And is sugar for Scheduler.AllOf(e, other).
	And(other Event) Event

	// waiters/process-internal plumbing, package-private.
	addWaiter(w waiter)
	process()
	sched() *Scheduler
}

// waiter is a suspended process frame parked on an Event. It is the Go
// rendering of a coroutine handle awaiting the event.
type waiter interface {
	// isAborted reports whether the owning process has since been aborted,
	// even though it has not reached this waiter's event yet. Abort
	// propagation to a parked frame is deferred to the next time the frame
	// is due for resumption or destruction (see process.go).
	isAborted() bool

	// resume hands control to the parked frame and blocks until it parks
	// again (on some other event) or finishes.
	resume()

	// destroy forces the parked frame to unwind without running any more
	// user code.
	destroy()
}

// eventImpl is the shared state behind every Event and ValueEvent. Multiple
// Event/ValueEvent handles can point at the same eventImpl; the event lives
// as long as any handle, or the scheduler's queue, retains it.
type eventImpl struct {
	id    string
	s     *Scheduler
	state eventState
	time  VTime

	waiters   []waiter
	callbacks []func(Event)
}

func newEvent(s *Scheduler) *eventImpl {
	return &eventImpl{
		id: newDebugID(),
		s:  s,
	}
}

func (e *eventImpl) ID() string       { return e.id }
func (e *eventImpl) Time() VTime      { return e.time }
func (e *eventImpl) Pending() bool    { return e.state == statePending }
func (e *eventImpl) Aborted() bool    { return e.state == stateAborted }
func (e *eventImpl) Processed() bool  { return e.state == stateProcessed }
func (e *eventImpl) Triggered() bool  { return e.state == stateTriggered || e.Processed() }
func (e *eventImpl) sched() *Scheduler { return e.s }

// Trigger implements Event.Trigger.
func (e *eventImpl) Trigger() {
	if !e.Pending() {
		return
	}

	e.state = stateTriggered
	e.s.schedule(e, 0)
}

// triggerAfter is the internal counterpart used by Scheduler.Timeout: it
// triggers the event at now+delay instead of now+0.
func (e *eventImpl) triggerAfter(delay VTime) {
	if delay < 0 {
		log.Panicf("sim: negative delay %v passed to timeout", delay)
	}

	if !e.Pending() {
		return
	}

	e.state = stateTriggered
	e.s.schedule(e, delay)
}

// Abort implements Event.Abort.
func (e *eventImpl) Abort() {
	if !e.Pending() {
		return
	}

	e.state = stateAborted

	e.s.InvokeHook(HookCtx{Domain: e.s, Pos: HookPosAbort, Item: e})

	waiters := e.waiters
	e.waiters = nil
	e.callbacks = nil

	for _, w := range waiters {
		w.destroy()
	}
}

// AddCallback implements Event.AddCallback.
func (e *eventImpl) AddCallback(cb func(Event)) {
	if e.Processed() || e.Aborted() {
		return
	}

	e.callbacks = append(e.callbacks, cb)
}

func (e *eventImpl) addWaiter(w waiter) {
	e.waiters = append(e.waiters, w)
}

// process is invoked exactly once by the Scheduler when this event's
// scheduled entry is popped from the heap. It resumes every waiter, in
// insertion order, then runs every callback, in insertion order.
func (e *eventImpl) process() {
	if e.Processed() || e.Aborted() {
		return
	}

	e.state = stateProcessed

	waiters := e.waiters
	e.waiters = nil

	for _, w := range waiters {
		if w.isAborted() {
			w.destroy()
			continue
		}

		w.resume()
	}

	cbs := e.callbacks
	e.callbacks = nil

	for _, cb := range cbs {
		cb(e)
	}
}

// Or implements Event.Or: sugar for Scheduler.AnyOf(e, other).
func (e *eventImpl) Or(other Event) Event { return e.s.AnyOf(e, other) }

// And implements Event.And: sugar for Scheduler.AllOf(e, other).
func (e *eventImpl) And(other Event) Event { return e.s.AllOf(e, other) }

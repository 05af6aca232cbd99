package sim

import "runtime"

// ctrlSignal is sent on a process's resume channel to tell its parked
// goroutine what to do next.
type ctrlSignal int

const (
	ctrlResume ctrlSignal = iota
	ctrlAbort
)

// process is the Go rendering of a coroutine frame: a goroutine running the
// user's process body, plus the pair of channels used to hand control back
// and forth with whichever goroutine is currently driving the simulation.
//
// Exactly one goroutine is ever runnable at a time: either the one that
// called resume/destroy (which then blocks), or the process goroutine it
// just woke up (which runs until it parks again or finishes). This mirrors
// the single-threaded cooperative model of spec.md §5 using real goroutines
// only as the suspension mechanism.
type process struct {
	completion Event

	resumeCh   chan ctrlSignal
	parkedCh   chan struct{}
	terminated chan struct{}
}

func newProcess(completion Event) *process {
	return &process{
		completion: completion,
		resumeCh:   make(chan ctrlSignal),
		parkedCh:   make(chan struct{}),
		terminated: make(chan struct{}),
	}
}

// isAborted implements waiter.isAborted. Abort propagation to a process
// parked on some other event is deferred: it is detected here, the next
// time that other event is processed or aborted, rather than reaching into
// the parked goroutine immediately (see SPEC_FULL.md §4.1).
func (p *process) isAborted() bool { return p.completion.Aborted() }

// resume implements waiter.resume.
func (p *process) resume() {
	p.resumeCh <- ctrlResume

	select {
	case <-p.parkedCh:
	case <-p.terminated:
	}
}

// destroy implements waiter.destroy.
func (p *process) destroy() {
	p.resumeCh <- ctrlAbort
	<-p.terminated
}

// start blocks until the process's very first resume (the initial
// zero-delay timeout firing). It returns false if the process was aborted
// before it ever ran a single line of its body.
func (p *process) start() bool {
	return <-p.resumeCh == ctrlResume
}

// park suspends the calling goroutine until the next resume or destroy. It
// returns false if the process should unwind without running more user
// code.
func (p *process) park() bool {
	p.parkedCh <- struct{}{}
	return <-p.resumeCh == ctrlResume
}

// Proc is the handle a process body uses to await events and to reach back
// into the scheduler that is running it.
type Proc struct {
	Sim  *Scheduler
	self *process
}

// Await suspends the calling process until ev is processed, returning
// immediately if ev is already Processed. If ev is Aborted, the process is
// destroyed on the spot: no code after this call runs.
func (p *Proc) Await(ev Event) {
	if ev.Processed() {
		return
	}

	if ev.Aborted() {
		runtime.Goexit()
	}

	ev.addWaiter(p.self)

	if !p.self.park() {
		runtime.Goexit()
	}
}

// AwaitValue awaits ev like Await, then returns its value.
func AwaitValue[V any](p *Proc, ev *ValueEvent[V]) V {
	p.Await(ev)
	return ev.Value()
}

// Go starts a process: body runs in its own goroutine, suspended until an
// initial zero-delay timeout fires (so the body's first line always
// observes Sim.Now() at or after the time Go was called). Go returns the
// process's completion event, triggered when body returns.
func Go(s *Scheduler, body func(p *Proc)) Event {
	completion := newEvent(s)
	proc := newProcess(completion)
	s.registerLive(proc)

	p := &Proc{Sim: s, self: proc}

	go func() {
		defer func() {
			s.forget(proc)
			close(proc.terminated)
		}()

		if !proc.start() {
			return
		}

		body(p)
		completion.Trigger()
	}()

	start := newEvent(s)
	start.addWaiter(proc)
	start.triggerAfter(0)

	return completion
}

// GoValue starts a value-returning process the way Go does, triggering the
// returned ValueEvent[V] with body's return value when body returns.
func GoValue[V any](s *Scheduler, body func(p *Proc) V) *ValueEvent[V] {
	completion := newValueEvent[V](s)
	proc := newProcess(completion)
	s.registerLive(proc)

	p := &Proc{Sim: s, self: proc}

	go func() {
		defer func() {
			s.forget(proc)
			close(proc.terminated)
		}()

		if !proc.start() {
			return
		}

		result := body(p)
		completion.TriggerValue(result)
	}()

	start := newEvent(s)
	start.addWaiter(proc)
	start.triggerAfter(0)

	return completion
}

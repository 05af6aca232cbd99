package sim

import "log"

// ValueEvent is an Event that additionally carries a value, set once at
// trigger time and readable by anyone holding a handle once the event is
// Triggered or Processed. It embeds *eventImpl unchanged, so a *ValueEvent[V]
// satisfies Event directly: TriggerValue (not Trigger) is the value-setting
// entry point, since Go methods cannot overload the zero-arg Trigger the
// Event interface requires.
type ValueEvent[V any] struct {
	*eventImpl

	value    V
	hasValue bool
}

func newValueEvent[V any](s *Scheduler) *ValueEvent[V] {
	return &ValueEvent[V]{eventImpl: newEvent(s)}
}

// TriggerValue sets the event's value then transitions it to Triggered, as
// spec.md §4.2 describes for value_event::trigger(v).
func (ve *ValueEvent[V]) TriggerValue(value V) {
	if !ve.Pending() {
		return
	}

	ve.value = value
	ve.hasValue = true
	ve.eventImpl.Trigger()
}

// triggerAfter mirrors eventImpl.triggerAfter but also sets the value; used
// by Scheduler.TimeoutValue.
func (ve *ValueEvent[V]) triggerAfter(delay VTime, value V) {
	if !ve.Pending() {
		return
	}

	ve.value = value
	ve.hasValue = true
	ve.eventImpl.triggerAfter(delay)
}

// Value returns the event's value. Reading the value of an event that is
// not yet Triggered or Processed is a contract violation.
func (ve *ValueEvent[V]) Value() V {
	if !ve.hasValue {
		log.Panic("sim: reading the value of an unset ValueEvent")
	}

	return ve.value
}

package sim

// AnyOf returns a fresh Event that fires as soon as any one of evs fires.
// If an input is already Processed, the result is scheduled immediately at
// the current time. Aborted inputs never fire the result; if every input
// is aborted (or never fires), the result remains Pending forever — the
// resolution this module picked for spec.md's open question on all-aborted
// inputs (see DESIGN.md).
func (s *Scheduler) AnyOf(evs ...Event) Event {
	result := newEvent(s)

	for _, ev := range evs {
		attachAnyOf(result, ev)
	}

	return result
}

func attachAnyOf(result *eventImpl, ev Event) {
	if ev.Processed() {
		result.Trigger()
		return
	}

	ev.AddCallback(func(Event) {
		result.Trigger()
	})
}

// AnyOfValue is the value-carrying variant of AnyOf: the winning input's
// value is copied into the result at its trigger time.
func AnyOfValue[V any](s *Scheduler, evs ...*ValueEvent[V]) *ValueEvent[V] {
	result := newValueEvent[V](s)

	for _, ev := range evs {
		attachAnyOfValue(result, ev)
	}

	return result
}

func attachAnyOfValue[V any](result *ValueEvent[V], ev *ValueEvent[V]) {
	if ev.Processed() {
		result.TriggerValue(ev.Value())
		return
	}

	ev.AddCallback(func(Event) {
		result.TriggerValue(ev.Value())
	})
}

// AllOf returns a fresh Event that fires once every one of evs has fired.
// It never fires if any input is aborted before it is processed.
func (s *Scheduler) AllOf(evs ...Event) Event {
	result := newEvent(s)
	pending := 0

	for _, ev := range evs {
		if !ev.Processed() {
			pending++
		}
	}

	if pending == 0 {
		result.Trigger()
		return result
	}

	remaining := &pending

	for _, ev := range evs {
		attachAllOf(result, ev, remaining)
	}

	return result
}

func attachAllOf(result *eventImpl, ev Event, remaining *int) {
	if ev.Processed() {
		return
	}

	ev.AddCallback(func(Event) {
		*remaining--
		if *remaining == 0 {
			result.Trigger()
		}
	})
}

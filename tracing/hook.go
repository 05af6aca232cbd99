package tracing

import (
	"github.com/flowsim/desim/sim"
)

// EventHook is a sim.Hook that records every event the Scheduler processes
// into a Recorder, the way the teacher's EventLogger writes event info into
// a *log.Logger — except the destination here is a SQLite table instead of
// a log stream.
type EventHook struct {
	recorder *Recorder
}

// NewEventHook wraps recorder in a sim.Hook ready to be passed to
// Scheduler.AcceptHook.
func NewEventHook(recorder *Recorder) *EventHook {
	return &EventHook{recorder: recorder}
}

// Func implements sim.Hook.
func (h *EventHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent && ctx.Pos != sim.HookPosAbort {
		return
	}

	ev, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	h.recorder.Record(EventEntry{
		Time:     float64(ev.Time()),
		EventID:  ev.ID(),
		Kind:     kindOf(ev),
		HookName: ctx.Pos.Name,
	})
}

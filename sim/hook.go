package sim

// HookPos enumerates the points at which a Hook can be invoked.
type HookPos struct {
	Name string
}

// HookCtx carries the information about the site a hook fires at.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is anything that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// Hook is a short piece of program invoked by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookPosBeforeEvent fires just before the Scheduler processes an event.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent fires just after the Scheduler has processed an event.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosAbort fires when an Event or Process is aborted.
var HookPosAbort = &HookPos{Name: "Abort"}

// HookableBase provides the bookkeeping used by every Hookable in this
// package.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook runs every registered hook against ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

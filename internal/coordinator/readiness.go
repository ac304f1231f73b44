package coordinator

import (
	"sandpad/internal/compiler"
	"sandpad/internal/trace"
)

// checkReadinessLocked evaluates the readiness predicate: every declared file
// has a cached execution-variant output. When it holds, the runtime error is
// cleared and a closure invoking the run trigger is returned; the caller
// invokes it after releasing the coordinator lock.
//
// The check fires on every satisfying observation, not just the first.
// Editing one file of an already-ready set re-triggers a run as soon as its
// fresh response lands; downstream consumers debounce or tolerate repeats.
func (c *Coordinator) checkReadinessLocked() func() {
	snapshot, ok := c.cache.Snapshot(c.files, compiler.VariantExecution)
	if !ok {
		return nil
	}

	c.errs.RunStarted()
	c.tracer.Emit(trace.Point(trace.ScopePipeline, "run", c.entry))
	c.emitLocked(Event{Kind: EventRunTriggered, Filename: c.entry})

	trigger := c.run
	if trigger == nil {
		return nil
	}
	entry := c.entry
	return func() {
		trigger(snapshot, entry)
	}
}

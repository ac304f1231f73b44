// Package trace provides a lightweight tracing subsystem for the sandpad
// workspace.
//
// The workspace is event-driven: edits go out as compile requests, worker
// replies come back in arbitrary order, and runs are triggered when the file
// set becomes ready. Trace events make that flow observable without attaching
// a debugger to a live session.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	sandpad run --trace=- --trace-level=flow
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - nopTracer: zero-overhead no-op when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumpable after the fact
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only dropped/anomalous messages
//   - LevelFlow: workspace and pipeline boundaries
//   - LevelDetail: per-file requests and responses
//   - LevelDebug: everything including raw wire traffic
//
// # Context Propagation
//
// Tracers travel through the workspace via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//	t.Emit(trace.Point(trace.ScopeFile, "submit", "a.js"))
package trace

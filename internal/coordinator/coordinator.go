// Package coordinator glues the workspace together: edits go out as compile
// requests, unordered worker responses land in the per-variant caches, and a
// run is triggered whenever the whole file set has execution output.
package coordinator

import (
	"fmt"
	"sync"

	"sandpad/internal/compiler"
	"sandpad/internal/session"
	"sandpad/internal/source"
	"sandpad/internal/trace"
)

// RunTrigger receives the compiled program when the file set is ready.
// compiled maps every declared filename to its execution-variant output.
// Triggers fire on every satisfying cache write, not only the first;
// consumers must tolerate repeated runs.
type RunTrigger func(compiled map[string]string, entry string)

// Options configures a Coordinator.
type Options struct {
	// Files is the declared file set: filename to initial source text.
	Files map[string]string
	// Entry is the filename handed to the player as the program entry point.
	Entry string
	// Execution and Preview select which compile pipelines are active.
	Execution bool
	Preview   bool
	// StrictOrdering discards responses for a key while a newer request for
	// the same key is still outstanding. Off by default: the cache is plain
	// last-writer-wins.
	StrictOrdering bool

	Gateway  compiler.Gateway
	Run      RunTrigger
	Progress Sink
	Tracer   trace.Tracer
	// Artifacts, when set, warm-starts the cache from disk and persists
	// successful compiles.
	Artifacts *session.Store
}

// Coordinator owns the compile caches and error state. All event handlers
// are serialized: worker responses may arrive on a different goroutine than
// edits, so every mutation happens under one mutex.
type Coordinator struct {
	mu sync.Mutex

	sources   *source.Store
	cache     *compiler.Cache
	errs      ErrorState
	gateway   compiler.Gateway
	release   func()
	run       RunTrigger
	progress  Sink
	tracer    trace.Tracer
	artifacts *session.Store

	entry     string
	files     []string
	execution bool
	preview   bool
	strict    bool

	// Per-key request/response counters back the optional staleness guard.
	submitted     map[compiler.Key]uint64
	applied       map[compiler.Key]uint64
	submittedHash map[compiler.Key]session.Digest

	closed bool
}

// New builds a Coordinator and subscribes it to the gateway's response
// stream. The subscription is released by Close.
func New(opts Options) (*Coordinator, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("missing compile gateway")
	}
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("empty file set")
	}
	if _, ok := opts.Files[opts.Entry]; !ok {
		return nil, fmt.Errorf("entry file %q is not in the file set", opts.Entry)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	store := source.NewStore(opts.Files)
	c := &Coordinator{
		sources:       store,
		cache:         compiler.NewCache(),
		gateway:       opts.Gateway,
		run:           opts.Run,
		progress:      opts.Progress,
		tracer:        tracer,
		artifacts:     opts.Artifacts,
		entry:         opts.Entry,
		files:         store.Filenames(),
		execution:     opts.Execution,
		preview:       opts.Preview,
		strict:        opts.StrictOrdering,
		submitted:     make(map[compiler.Key]uint64),
		applied:       make(map[compiler.Key]uint64),
		submittedHash: make(map[compiler.Key]session.Digest),
	}
	c.release = opts.Gateway.Subscribe(c.handleResult)
	return c, nil
}

// Start submits initial compile requests for every file in every active
// pipeline. Files whose artifacts are still valid on disk are preloaded
// instead of recompiled; if that alone satisfies readiness, a run fires.
func (c *Coordinator) Start() {
	var runNow func()
	c.mu.Lock()
	if !c.closed {
		c.tracer.Emit(trace.Point(trace.ScopePipeline, "start", fmt.Sprintf("%d files", len(c.files))))
		for _, name := range c.files {
			c.compileFileLocked(name)
		}
		runNow = c.checkReadinessLocked()
	}
	c.mu.Unlock()
	if runNow != nil {
		runNow()
	}
}

// OnEdit replaces a file's source text and recompiles it in every active
// pipeline. The previous cache entry is not invalidated: stale output stays
// visible and runnable until the new response overwrites it.
func (c *Coordinator) OnEdit(filename, newCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err := c.sources.Edit(filename, newCode); err != nil {
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "edit-unknown-file", filename))
		return
	}
	key := compiler.Key{Filename: filename}
	if c.execution {
		key.Variant = compiler.VariantExecution
		c.sendLocked(key, newCode)
	}
	if c.preview {
		key.Variant = compiler.VariantPreview
		c.sendLocked(key, newCode)
	}
}

// OnRunRequested re-evaluates readiness against the current cache without
// issuing new compiles. With an incomplete cache it does nothing.
func (c *Coordinator) OnRunRequested() {
	var runNow func()
	c.mu.Lock()
	if !c.closed {
		runNow = c.checkReadinessLocked()
	}
	c.mu.Unlock()
	if runNow != nil {
		runNow()
	}
}

// OnRuntimeFailure records a failure reported by the running program.
func (c *Coordinator) OnRuntimeFailure(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.errs.RunFailed(message)
	c.tracer.Emit(trace.Point(trace.ScopeWorkspace, "runtime-error", message))
	c.emitLocked(Event{Kind: EventRuntimeFailed, Message: message})
}

// ToggleDetails sets the error details visibility flag.
func (c *Coordinator) ToggleDetails(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs.ToggleDetails(visible)
}

// Errors returns a copy of the current error state.
func (c *Coordinator) Errors() ErrorSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.Snapshot()
}

// Ready reports whether every declared file has execution output cached.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.HasAll(c.files, compiler.VariantExecution)
}

// ExecutionCode returns the cached execution output for a file.
func (c *Coordinator) ExecutionCode(filename string) (string, bool) {
	return c.cache.Get(compiler.Key{Filename: filename, Variant: compiler.VariantExecution})
}

// PreviewCode returns the cached preview output for a file.
func (c *Coordinator) PreviewCode(filename string) (string, bool) {
	return c.cache.Get(compiler.Key{Filename: filename, Variant: compiler.VariantPreview})
}

// SourceText returns the current source text of a file.
func (c *Coordinator) SourceText(filename string) (string, bool) {
	return c.sources.Text(filename)
}

// Files returns the declared file set in sorted order.
func (c *Coordinator) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Entry returns the declared entry filename.
func (c *Coordinator) Entry() string {
	return c.entry
}

// Close releases the gateway subscription. Responses arriving afterwards are
// dropped at the gateway; a torn-down coordinator never sees them.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	release := c.release
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

// compileFileLocked preloads or submits one file for every active pipeline.
func (c *Coordinator) compileFileLocked(filename string) {
	text, ok := c.sources.Text(filename)
	if !ok {
		return
	}
	for _, variant := range []compiler.Variant{compiler.VariantExecution, compiler.VariantPreview} {
		if variant == compiler.VariantExecution && !c.execution {
			continue
		}
		if variant == compiler.VariantPreview && !c.preview {
			continue
		}
		key := compiler.Key{Filename: filename, Variant: variant}
		if c.warmStartLocked(key, text) {
			continue
		}
		c.sendLocked(key, text)
	}
}

// warmStartLocked preloads a cache entry from the artifact store.
func (c *Coordinator) warmStartLocked(key compiler.Key, text string) bool {
	if c.artifacts == nil {
		return false
	}
	a, ok, err := c.artifacts.Get(session.HashSource(text), uint8(key.Variant))
	if err != nil {
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "artifact-read-failed", err.Error()))
		return false
	}
	if !ok {
		return false
	}
	c.cache.Put(key, a.Code)
	c.tracer.Emit(trace.Point(trace.ScopeFile, "warm-start", key.String()))
	return true
}

// sendLocked records the outgoing request and hands it to the gateway.
func (c *Coordinator) sendLocked(key compiler.Key, code string) {
	c.submitted[key]++
	c.submittedHash[key] = session.HashSource(code)
	c.tracer.Emit(trace.Point(trace.ScopeFile, "submit", key.String()))
	c.emitLocked(Event{Kind: EventSubmitted, Filename: key.Filename, Variant: key.Variant})
	c.gateway.Submit(key.Filename, code, key.Variant)
}

// handleResult is the sole response entry point, invoked by the gateway.
func (c *Coordinator) handleResult(res compiler.Result) {
	var runNow func()
	c.mu.Lock()
	runNow = c.applyResultLocked(res)
	c.mu.Unlock()
	if runNow != nil {
		runNow()
	}
}

func (c *Coordinator) applyResultLocked(res compiler.Result) func() {
	if c.closed {
		return nil
	}
	key := res.Key

	// Correlation errors are logged anomalies, never fatal.
	if !c.sources.Has(key.Filename) {
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "unknown-key", key.String()))
		c.emitLocked(Event{Kind: EventDropped, Filename: key.Filename, Variant: key.Variant})
		return nil
	}

	c.applied[key]++
	if c.strict && c.applied[key] < c.submitted[key] {
		// A newer request for this key is still in flight; this response is
		// necessarily stale. Only taken with StrictOrdering enabled.
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "stale-response", key.String()))
		return nil
	}

	if !res.OK {
		c.errs.CompileFailed(res.Message)
		c.tracer.Emit(trace.Point(trace.ScopeFile, "compile-failed", key.String()))
		c.emitLocked(Event{Kind: EventCompileFailed, Filename: key.Filename, Variant: key.Variant, Message: res.Message})
		return nil
	}

	// Any successful compile of any file in any variant clears the global
	// compiler error.
	c.errs.CompileSucceeded()
	c.cache.Put(key, res.Code)
	c.persistLocked(key, res.Code)
	c.tracer.Emit(trace.Point(trace.ScopeFile, "compiled", key.String()))
	c.emitLocked(Event{Kind: EventCompiled, Filename: key.Filename, Variant: key.Variant})

	if key.Variant != compiler.VariantExecution {
		// Preview responses fill the preview cache only; no readiness
		// implication.
		return nil
	}
	return c.checkReadinessLocked()
}

// persistLocked stores a successful compile in the artifact store,
// best-effort.
func (c *Coordinator) persistLocked(key compiler.Key, code string) {
	if c.artifacts == nil {
		return
	}
	// submittedHash holds the hash of the newest submitted source. While a
	// newer request is outstanding this response cannot be attributed to
	// that hash; persisting would file stale code under the fresh source and
	// poison the next session's warm start.
	if c.applied[key] != c.submitted[key] {
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "artifact-skip-inflight", key.String()))
		return
	}
	hash, ok := c.submittedHash[key]
	if !ok {
		return
	}
	err := c.artifacts.Put(&session.Artifact{
		Filename:   key.Filename,
		Variant:    uint8(key.Variant),
		SourceHash: hash,
		Code:       code,
	})
	if err != nil {
		c.tracer.Emit(trace.Drop(trace.ScopeFile, "artifact-write-failed", err.Error()))
	}
}

// emitLocked forwards one progress event to the sink, if any.
func (c *Coordinator) emitLocked(ev Event) {
	if c.progress != nil {
		c.progress.OnEvent(ev)
	}
}

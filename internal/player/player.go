// Package player executes compiled programs. The sandbox itself is opaque to
// the coordinator: it consumes a filename-to-code mapping plus an entry
// filename and reports runtime failures back through a callback.
package player

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"sandpad/internal/trace"
)

// Runner executes a compiled program. Run must tolerate being called
// repeatedly: the coordinator triggers on every satisfying cache write.
type Runner interface {
	Run(compiled map[string]string, entry string)
}

// Callbacks deliver run results back to the workspace.
type Callbacks struct {
	// OnOutput receives one line of program output at a time.
	OnOutput func(line string)
	// OnFailure receives a runtime failure message.
	OnFailure func(message string)
	// OnDone is invoked when a run ends, successfully or not.
	OnDone func()
}

// ProcessRunner materializes the compiled map into a temp directory and
// execs the configured interpreter on the entry file. A new run cancels the
// previous one, which debounces the coordinator's repeated triggers.
type ProcessRunner struct {
	command []string
	cb      Callbacks
	tracer  trace.Tracer
	baseCtx context.Context

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProcessRunner builds a runner around an interpreter command, e.g.
// ["node"]. The entry file path is appended on each run.
func NewProcessRunner(ctx context.Context, command []string, cb Callbacks, tracer trace.Tracer) (*ProcessRunner, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("missing player command")
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	return &ProcessRunner{
		command: command,
		cb:      cb,
		tracer:  tracer,
		baseCtx: ctx,
	}, nil
}

// Run starts a fresh execution, cancelling any run still in progress.
// It returns immediately; results arrive through the callbacks.
func (r *ProcessRunner) Run(compiled map[string]string, entry string) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.baseCtx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	r.tracer.Emit(trace.Point(trace.ScopeWorkspace, "run", entry))
	go func() {
		defer r.wg.Done()
		r.execute(ctx, compiled, entry)
	}()
}

// Close cancels the active run and waits for it to finish.
func (r *ProcessRunner) Close() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *ProcessRunner) execute(ctx context.Context, compiled map[string]string, entry string) {
	dir, err := os.MkdirTemp("", "sandpad-run-*")
	if err != nil {
		r.fail(fmt.Sprintf("failed to prepare run directory: %v", err))
		return
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	for name, code := range compiled {
		rel := filepath.FromSlash(name)
		// Filenames come from the manifest, but a ".." component would
		// write outside the run directory.
		if !filepath.IsLocal(rel) {
			r.fail(fmt.Sprintf("refusing to materialize %q outside the run directory", name))
			return
		}
		dst := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			r.fail(fmt.Sprintf("failed to lay out %q: %v", name, err))
			return
		}
		if err := os.WriteFile(dst, []byte(code), 0o600); err != nil {
			r.fail(fmt.Sprintf("failed to write %q: %v", name, err))
			return
		}
	}

	args := append(append([]string{}, r.command[1:]...), filepath.Join(dir, filepath.FromSlash(entry)))
	// #nosec G204 -- the player command comes from the workspace manifest
	cmd := exec.CommandContext(ctx, r.command[0], args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.fail(fmt.Sprintf("failed to open player stdout: %v", err))
		return
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		r.fail(fmt.Sprintf("failed to start player: %v", err))
		return
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if r.cb.OnOutput != nil {
			r.cb.OnOutput(scanner.Text())
		}
	}

	err = cmd.Wait()
	switch {
	case ctx.Err() != nil:
		// Superseded or shut down; not a program failure.
	case err != nil:
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		r.fail(msg)
	}
	if r.cb.OnDone != nil {
		r.cb.OnDone()
	}
}

func (r *ProcessRunner) fail(message string) {
	r.tracer.Emit(trace.Point(trace.ScopeWorkspace, "run-failed", message))
	if r.cb.OnFailure != nil {
		r.cb.OnFailure(message)
	}
}

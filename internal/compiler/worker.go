package compiler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sandpad/internal/trace"
)

// ErrWorkerClosed is returned by Send after the worker shut down.
var ErrWorkerClosed = errors.New("compiler worker closed")

// maxResponseLine bounds a single worker reply. Compiled output for a
// workspace file fits comfortably; anything larger is a broken worker.
const maxResponseLine = 16 * 1024 * 1024

// closeGrace is how long Close waits for the worker to exit on its own after
// stdin closes before killing it. Variable for tests.
var closeGrace = 5 * time.Second

// ProcessWorker runs the external compiler as a subprocess and speaks
// newline-delimited JSON over its stdin/stdout. Any executable honoring the
// request/response message contract can serve as the compiler.
type ProcessWorker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	kill   context.CancelFunc
	tracer trace.Tracer

	sendMu sync.Mutex
	enc    *json.Encoder
	closed bool

	responses chan Response
	g         *errgroup.Group
}

// StartProcessWorker spawns the compiler command and starts the reader.
// The process is killed when ctx is cancelled.
func StartProcessWorker(ctx context.Context, command []string, tracer trace.Tracer) (*ProcessWorker, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("missing compiler command")
	}
	if tracer == nil {
		tracer = trace.Nop
	}

	cmdCtx, kill := context.WithCancel(ctx)
	// #nosec G204 -- the compiler command comes from the workspace manifest
	cmd := exec.CommandContext(cmdCtx, command[0], command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		kill()
		return nil, fmt.Errorf("failed to open compiler stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		kill()
		return nil, fmt.Errorf("failed to open compiler stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		kill()
		return nil, fmt.Errorf("failed to start compiler %q: %w", command[0], err)
	}

	w := &ProcessWorker{
		cmd:       cmd,
		stdin:     stdin,
		kill:      kill,
		tracer:    tracer,
		enc:       json.NewEncoder(stdin),
		responses: make(chan Response, 64),
	}

	g, gctx := errgroup.WithContext(cmdCtx)
	w.g = g
	g.Go(func() error {
		defer close(w.responses)
		return w.read(gctx, stdout)
	})

	tracer.Emit(trace.Point(trace.ScopeWorkspace, "worker-start", command[0]))
	return w, nil
}

// Send writes one request to the worker's stdin.
func (w *ProcessWorker) Send(req Request) error {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed {
		return ErrWorkerClosed
	}
	if err := w.enc.Encode(req); err != nil {
		return fmt.Errorf("failed to write compile request: %w", err)
	}
	return nil
}

// Responses yields decoded worker replies until the process exits.
func (w *ProcessWorker) Responses() <-chan Response {
	return w.responses
}

// Close stops accepting requests, closes the worker's stdin and waits for
// the process to exit. A worker that ignores stdin EOF is killed after a
// grace period so Close never blocks forever.
func (w *ProcessWorker) Close() error {
	w.sendMu.Lock()
	if w.closed {
		w.sendMu.Unlock()
		return nil
	}
	w.closed = true
	w.sendMu.Unlock()
	defer w.kill()

	closeErr := w.stdin.Close()

	readDone := make(chan error, 1)
	go func() { readDone <- w.g.Wait() }()

	var readErr error
	select {
	case readErr = <-readDone:
	case <-time.After(closeGrace):
		w.tracer.Emit(trace.Drop(trace.ScopeWorkspace, "worker-kill", "ignored stdin close"))
		w.kill()
		readErr = <-readDone
	}
	waitErr := w.cmd.Wait()

	w.tracer.Emit(trace.Point(trace.ScopeWorkspace, "worker-stop", ""))
	if readErr != nil && !errors.Is(readErr, context.Canceled) {
		return readErr
	}
	if closeErr != nil {
		return closeErr
	}
	return waitErr
}

// read scans stdout for newline-delimited JSON responses.
func (w *ProcessWorker) read(ctx context.Context, stdout io.Reader) error {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxResponseLine)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var res Response
		if err := json.Unmarshal(line, &res); err != nil {
			w.tracer.Emit(trace.Drop(trace.ScopeWire, "bad-json", err.Error()))
			continue
		}
		w.responses <- res
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("compiler stdout read failed: %w", err)
	}
	return nil
}

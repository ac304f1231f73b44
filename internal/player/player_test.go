package player

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"sandpad/internal/trace"
)

type runCapture struct {
	mu       sync.Mutex
	lines    []string
	failures []string
	done     chan struct{}
}

func newRunCapture() *runCapture {
	return &runCapture{done: make(chan struct{}, 4)}
}

func (c *runCapture) callbacks() Callbacks {
	return Callbacks{
		OnOutput: func(line string) {
			c.mu.Lock()
			c.lines = append(c.lines, line)
			c.mu.Unlock()
		},
		OnFailure: func(message string) {
			c.mu.Lock()
			c.failures = append(c.failures, message)
			c.mu.Unlock()
		},
		OnDone: func() { c.done <- struct{}{} },
	}
}

func (c *runCapture) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the run to finish")
	}
}

func TestProcessRunnerExecutesEntry(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}
	rc := newRunCapture()
	r, err := NewProcessRunner(context.Background(), []string{"cat"}, rc.callbacks(), trace.Nop)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer r.Close()

	r.Run(map[string]string{
		"main.txt":  "hello from the player\n",
		"other.txt": "ignored\n",
	}, "main.txt")
	rc.wait(t)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.lines) != 1 || rc.lines[0] != "hello from the player" {
		t.Fatalf("unexpected output: %v", rc.lines)
	}
	if len(rc.failures) != 0 {
		t.Fatalf("unexpected failures: %v", rc.failures)
	}
}

func TestProcessRunnerReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	rc := newRunCapture()
	r, err := NewProcessRunner(context.Background(), []string{"sh"}, rc.callbacks(), trace.Nop)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer r.Close()

	r.Run(map[string]string{"main.sh": "echo doomed >&2\nexit 3\n"}, "main.sh")
	rc.wait(t)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.failures) != 1 {
		t.Fatalf("expected one failure, got %v", rc.failures)
	}
	if rc.failures[0] != "doomed" {
		t.Fatalf("failure message must carry stderr: %q", rc.failures[0])
	}
}

func TestProcessRunnerRequiresCommand(t *testing.T) {
	if _, err := NewProcessRunner(context.Background(), nil, Callbacks{}, trace.Nop); err == nil {
		t.Fatal("expected an error for a missing command")
	}
}

func TestProcessRunnerRejectsEscapingFilename(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}
	rc := newRunCapture()
	r, err := NewProcessRunner(context.Background(), []string{"cat"}, rc.callbacks(), trace.Nop)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer r.Close()

	r.Run(map[string]string{"../escape.txt": "outside\n"}, "../escape.txt")

	deadline := time.After(5 * time.Second)
	for {
		rc.mu.Lock()
		n := len(rc.failures)
		rc.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the rejection")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.lines) != 0 {
		t.Fatalf("nothing must run for a rejected filename: %v", rc.lines)
	}
}

func TestProcessRunnerSubdirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on cat")
	}
	rc := newRunCapture()
	r, err := NewProcessRunner(context.Background(), []string{"cat"}, rc.callbacks(), trace.Nop)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer r.Close()

	r.Run(map[string]string{"src/app.txt": "nested\n"}, "src/app.txt")
	rc.wait(t)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.lines) != 1 || rc.lines[0] != "nested" {
		t.Fatalf("unexpected output: %v", rc.lines)
	}
}

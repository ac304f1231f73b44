package compiler

import (
	"sync"
	"testing"
	"time"

	"sandpad/internal/trace"
)

// memTransport is an in-memory Transport for gateway tests.
type memTransport struct {
	mu        sync.Mutex
	sent      []Request
	responses chan Response
}

func newMemTransport() *memTransport {
	return &memTransport{responses: make(chan Response, 16)}
}

func (t *memTransport) Send(req Request) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, req)
	return nil
}

func (t *memTransport) Responses() <-chan Response { return t.responses }

func (t *memTransport) Close() error {
	close(t.responses)
	return nil
}

func (t *memTransport) sentRequests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.sent))
	copy(out, t.sent)
	return out
}

func collectResults(g *WireGateway) (<-chan Result, func()) {
	ch := make(chan Result, 16)
	release := g.Subscribe(func(r Result) { ch <- r })
	return ch, release
}

func TestGatewayRequestShapePerVariant(t *testing.T) {
	tr := newMemTransport()
	g := NewWireGateway(tr, trace.Nop)
	defer func() {
		if err := g.Close(); err != nil {
			t.Fatalf("close gateway: %v", err)
		}
	}()

	g.Submit("a.js", "code", VariantExecution)
	g.Submit("a.js", "code", VariantPreview)

	sent := tr.sentRequests()
	if len(sent) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(sent))
	}

	execReq := sent[0]
	if execReq.Filename != "a.js" {
		t.Fatalf("execution request must use the plain filename, got %q", execReq.Filename)
	}
	if execReq.Options == nil || !execReq.Options.RetainLines {
		t.Fatal("execution request must set retainLines")
	}

	prevReq := sent[1]
	if prevReq.Filename == "a.js" {
		t.Fatal("preview request must carry the marker-prefixed filename")
	}
	if DecodeWireFilename(prevReq.Filename) != (Key{Filename: "a.js", Variant: VariantPreview}) {
		t.Fatalf("preview wire filename does not decode back: %q", prevReq.Filename)
	}
	if prevReq.Options != nil && prevReq.Options.RetainLines {
		t.Fatal("preview request must not set retainLines")
	}
}

func TestGatewayDemuxesResponses(t *testing.T) {
	tr := newMemTransport()
	g := NewWireGateway(tr, trace.Nop)
	results, release := collectResults(g)
	defer release()

	tr.responses <- Response{Filename: "a.js", Type: "code", Code: "out-a"}
	tr.responses <- Response{
		Filename: EncodeWireFilename(Key{Filename: "a.js", Variant: VariantPreview}),
		Type:     "code",
		Code:     "pretty-a",
	}
	tr.responses <- Response{Filename: "b.js", Type: "error", Error: &WireError{Message: "boom"}}

	if err := g.Close(); err != nil {
		t.Fatalf("close gateway: %v", err)
	}

	got := make([]Result, 0, 3)
	for len(got) < 3 {
		select {
		case r := <-results:
			got = append(got, r)
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d results", len(got))
		}
	}

	if got[0].Key != (Key{Filename: "a.js", Variant: VariantExecution}) || !got[0].OK || got[0].Code != "out-a" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
	if got[1].Key != (Key{Filename: "a.js", Variant: VariantPreview}) || got[1].Code != "pretty-a" {
		t.Fatalf("unexpected second result: %+v", got[1])
	}
	if got[2].OK || got[2].Message != "boom" {
		t.Fatalf("unexpected error result: %+v", got[2])
	}
}

func TestGatewayReleasedSubscriptionDropsResponses(t *testing.T) {
	tr := newMemTransport()
	g := NewWireGateway(tr, trace.Nop)
	results, release := collectResults(g)

	release()
	tr.responses <- Response{Filename: "a.js", Type: "code", Code: "late"}

	if err := g.Close(); err != nil {
		t.Fatalf("close gateway: %v", err)
	}

	select {
	case r := <-results:
		t.Fatalf("released subscription received a response: %+v", r)
	default:
	}
}

func TestGatewayIgnoresUnknownResponseType(t *testing.T) {
	tr := newMemTransport()
	g := NewWireGateway(tr, trace.Nop)
	results, release := collectResults(g)
	defer release()

	tr.responses <- Response{Filename: "a.js", Type: "progress"}
	tr.responses <- Response{Filename: "a.js", Type: "code", Code: "ok"}

	if err := g.Close(); err != nil {
		t.Fatalf("close gateway: %v", err)
	}

	r := <-results
	if r.Code != "ok" {
		t.Fatalf("expected the valid response, got %+v", r)
	}
	select {
	case r := <-results:
		t.Fatalf("unknown response type must be dropped, got %+v", r)
	default:
	}
}

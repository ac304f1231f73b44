package compiler

import (
	"sync"

	"sandpad/internal/trace"
)

// Result is a decoded compiler reply, correlated back to its compile key.
type Result struct {
	Key     Key
	OK      bool
	Code    string // compiled output when OK
	Message string // human-readable failure when !OK
}

// Handler consumes decoded compiler replies.
type Handler func(Result)

// Gateway is the boundary to the asynchronous compiler service. Submit is
// fire-and-forget: it never blocks and never returns a value; its effect is
// observed later through the subscribed handler. No retries happen at this
// layer; a failed compile is terminal for that request.
type Gateway interface {
	// Submit sends an async compile request for one file in one variant.
	Submit(filename, code string, variant Variant)

	// Subscribe attaches the response handler and returns a release function.
	// After release, no further responses are delivered.
	Subscribe(h Handler) (release func())

	// Close shuts the gateway down and stops response delivery.
	Close() error
}

// Transport moves encoded compiler messages to and from the service.
type Transport interface {
	Send(Request) error
	// Responses yields raw replies until the transport shuts down.
	Responses() <-chan Response
	Close() error
}

// WireGateway implements Gateway over a Transport, applying the
// variant-specific request shape on the way out and decoding compile keys on
// the way back.
type WireGateway struct {
	transport Transport
	tracer    trace.Tracer

	mu      sync.Mutex
	handler Handler

	pumpDone chan struct{}
}

// NewWireGateway wraps a transport and starts the response pump.
func NewWireGateway(t Transport, tracer trace.Tracer) *WireGateway {
	if tracer == nil {
		tracer = trace.Nop
	}
	g := &WireGateway{
		transport: t,
		tracer:    tracer,
		pumpDone:  make(chan struct{}),
	}
	go g.pump()
	return g
}

// Submit encodes and sends one compile request. Send failures are absorbed:
// the contract is fire-and-forget, and a lost request surfaces to the user
// the same way a slow compiler does: no response until the next edit.
func (g *WireGateway) Submit(filename, code string, variant Variant) {
	req := Request{
		Filename: EncodeWireFilename(Key{Filename: filename, Variant: variant}),
		Code:     code,
	}
	if variant == VariantExecution {
		req.Options = &RequestOptions{RetainLines: true}
	}
	g.tracer.Emit(trace.Point(trace.ScopeWire, "submit", req.Filename))
	if err := g.transport.Send(req); err != nil {
		g.tracer.Emit(trace.Drop(trace.ScopeWire, "send-failed", err.Error()))
	}
}

// Subscribe attaches the single response handler.
func (g *WireGateway) Subscribe(h Handler) func() {
	g.mu.Lock()
	g.handler = h
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		if g.handler != nil {
			g.handler = nil
		}
		g.mu.Unlock()
	}
}

// Close shuts down the transport and waits for the pump to drain.
func (g *WireGateway) Close() error {
	err := g.transport.Close()
	<-g.pumpDone
	return err
}

// pump decodes raw responses and forwards them to the subscribed handler.
func (g *WireGateway) pump() {
	defer close(g.pumpDone)
	for res := range g.transport.Responses() {
		result, ok := decodeResponse(res)
		if !ok {
			g.tracer.Emit(trace.Drop(trace.ScopeWire, "malformed-response", res.Filename))
			continue
		}
		g.tracer.Emit(trace.Point(trace.ScopeWire, "response", result.Key.String()))

		g.mu.Lock()
		h := g.handler
		g.mu.Unlock()
		if h == nil {
			// Subscription released: the consumer is gone, drop silently.
			g.tracer.Emit(trace.Drop(trace.ScopeWire, "no-subscriber", result.Key.String()))
			continue
		}
		h(result)
	}
}

// decodeResponse converts a wire response into a correlated Result.
func decodeResponse(res Response) (Result, bool) {
	key := DecodeWireFilename(res.Filename)
	switch res.Type {
	case "code":
		return Result{Key: key, OK: true, Code: res.Code}, true
	case "error":
		msg := "compile failed"
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		return Result{Key: key, OK: false, Message: msg}, true
	default:
		return Result{}, false
	}
}

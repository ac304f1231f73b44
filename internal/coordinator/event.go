package coordinator

import "sandpad/internal/compiler"

// EventKind classifies a workspace progress event.
type EventKind uint8

const (
	// EventSubmitted reports a compile request going out.
	EventSubmitted EventKind = iota + 1
	// EventCompiled reports a successful compile response.
	EventCompiled
	// EventCompileFailed reports a failed compile response.
	EventCompileFailed
	// EventRunTriggered reports the file set becoming ready and a run firing.
	EventRunTriggered
	// EventRuntimeFailed reports a failure from the running program.
	EventRuntimeFailed
	// EventDropped reports a response that could not be correlated.
	EventDropped
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventSubmitted:
		return "submitted"
	case EventCompiled:
		return "compiled"
	case EventCompileFailed:
		return "compile-failed"
	case EventRunTriggered:
		return "run-triggered"
	case EventRuntimeFailed:
		return "runtime-failed"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event reports coordinator progress for one file (or for the workspace as a
// whole when Filename is the entry file of a run).
type Event struct {
	Kind     EventKind
	Filename string
	Variant  compiler.Variant
	Message  string
}

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel. Events are advisory: when the
// consumer lags, they are dropped rather than blocking the coordinator's
// handlers.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	default:
	}
}

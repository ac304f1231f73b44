package trace

import (
	"sync/atomic"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindBegin marks the start of a logical operation.
	KindBegin Kind = iota + 1
	// KindEnd marks the end of a logical operation.
	KindEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindDrop marks a message that was discarded (anomaly path).
	KindDrop
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeWorkspace represents top-level workspace operations (open, close, run).
	ScopeWorkspace Scope = iota + 1
	// ScopePipeline represents compile pipeline boundaries (batch start/finish, readiness).
	ScopePipeline
	// ScopeFile represents per-file requests and responses.
	ScopeFile
	// ScopeWire represents individual wire messages (most detailed).
	ScopeWire
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeWorkspace:
		return "workspace"
	case ScopePipeline:
		return "pipeline"
	case ScopeFile:
		return "file"
	case ScopeWire:
		return "wire"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time         // wall-clock timestamp
	Seq    uint64            // global sequence number (monotonic)
	Kind   Kind              // event kind
	Scope  Scope             // granularity level
	Name   string            // e.g. "submit", "response", "run"
	Detail string            // optional detail message (usually a filename)
	Extra  map[string]string // extensible key-value pairs
}

var globalSeq atomic.Uint64

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return globalSeq.Add(1)
}

// Point builds an instant event for the given scope.
func Point(scope Scope, name, detail string) *Event {
	return &Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail}
}

// Drop builds an anomaly event for a discarded message.
func Drop(scope Scope, name, detail string) *Event {
	return &Event{Time: time.Now(), Kind: KindDrop, Scope: scope, Name: name, Detail: detail}
}

package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelError only emits dropped/anomalous messages.
	LevelError
	// LevelFlow emits workspace and pipeline boundaries.
	LevelFlow
	// LevelDetail emits per-file events.
	LevelDetail
	// LevelDebug emits everything including wire-level events.
	LevelDebug
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelFlow:
		return "flow"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "error", "ERROR":
		return LevelError, nil
	case "flow", "FLOW":
		return LevelFlow, nil
	case "detail", "DETAIL":
		return LevelDetail, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|flow|detail|debug)", s)
	}
}

// ShouldEmit returns true if an event with the given scope and kind
// should be emitted at this level.
func (l Level) ShouldEmit(scope Scope, kind Kind) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return kind == KindDrop
	case LevelFlow:
		return kind == KindDrop || scope <= ScopePipeline
	case LevelDetail:
		return kind == KindDrop || scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}

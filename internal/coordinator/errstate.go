package coordinator

import "sandpad/internal/errmsg"

// ErrorState tracks the latest compiler failure and the latest runtime
// failure, plus the details-visibility flag. The two failures are stored
// independently; presentation prefers the compiler error when both are set.
//
// Clearing is deliberately global, not per-file: any successful compile
// response of any file in any variant clears the compiler error.
//
// ErrorState is not self-locking; the Coordinator serializes access.
type ErrorState struct {
	compiler    *errmsg.Details
	runtime     *errmsg.Details
	showDetails bool
}

// ErrorSnapshot is a copy of the error state handed to presentation code.
type ErrorSnapshot struct {
	Compiler    *errmsg.Details
	Runtime     *errmsg.Details
	ShowDetails bool
}

// CompileSucceeded clears the compiler error and hides details.
func (s *ErrorState) CompileSucceeded() {
	s.compiler = nil
	s.showDetails = false
}

// CompileFailed records a compiler failure. Details visibility is unchanged.
func (s *ErrorState) CompileFailed(message string) {
	d := errmsg.Parse(message)
	s.compiler = &d
}

// RunStarted clears the runtime error. Nothing else clears it.
func (s *ErrorState) RunStarted() {
	s.runtime = nil
}

// RunFailed records a runtime failure.
func (s *ErrorState) RunFailed(message string) {
	d := errmsg.Parse(message)
	s.runtime = &d
}

// ToggleDetails sets details visibility (user-driven, independent of
// compile and run events).
func (s *ErrorState) ToggleDetails(visible bool) {
	s.showDetails = visible
}

// Snapshot copies the current state.
func (s *ErrorState) Snapshot() ErrorSnapshot {
	snap := ErrorSnapshot{ShowDetails: s.showDetails}
	if s.compiler != nil {
		d := *s.compiler
		snap.Compiler = &d
	}
	if s.runtime != nil {
		d := *s.runtime
		snap.Runtime = &d
	}
	return snap
}

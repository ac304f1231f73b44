// Package compiler is the boundary to the external asynchronous compiler
// service: request submission, response demultiplexing, and the per-variant
// output cache.
package compiler

import "fmt"

// Variant selects which compilation flavor a request belongs to.
type Variant uint8

const (
	// VariantExecution is compiled output intended to be run in the player.
	// Requests ask the compiler to preserve original line numbers so reported
	// error lines map back to the user's source.
	VariantExecution Variant = iota + 1
	// VariantPreview is compiled output intended only for human display of
	// the transpiled code. Independent cache and request stream.
	VariantPreview
)

// String returns the string representation of Variant.
func (v Variant) String() string {
	switch v {
	case VariantExecution:
		return "execution"
	case VariantPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Key correlates a request with its response. The two variants of the same
// filename are independent keys and must never be confused.
type Key struct {
	Filename string
	Variant  Variant
}

// String returns a compact form for logs and traces.
func (k Key) String() string {
	return fmt.Sprintf("%s[%s]", k.Filename, k.Variant)
}

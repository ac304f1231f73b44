package compiler

import "strings"

// previewMarker is prepended to the filename of preview-variant requests on
// the wire. The compiler service carries the filename back verbatim, which is
// the only correlation token available. A NUL byte cannot occur in a real
// filename, so the marker cannot collide and stripping it is reversible.
const previewMarker = "\x00preview:"

// Request is the message sent to the compiler service.
type Request struct {
	Filename string          `json:"filename"`
	Code     string          `json:"code"`
	Options  *RequestOptions `json:"options,omitempty"`
}

// RequestOptions carries variant-specific compiler options.
type RequestOptions struct {
	// RetainLines asks the compiler to preserve original line numbering.
	RetainLines bool `json:"retainLines"`
}

// Response is the message received from the compiler service.
// Type is "code" on success and "error" on failure.
type Response struct {
	Filename string     `json:"filename"`
	Type     string     `json:"type"`
	Code     string     `json:"code,omitempty"`
	Error    *WireError `json:"error,omitempty"`
}

// WireError is the failure payload of an "error" response.
type WireError struct {
	Message string `json:"message"`
}

// EncodeWireFilename maps a compile key onto the wire filename.
func EncodeWireFilename(key Key) string {
	if key.Variant == VariantPreview {
		return previewMarker + key.Filename
	}
	return key.Filename
}

// DecodeWireFilename recovers the compile key from a wire filename.
func DecodeWireFilename(wire string) Key {
	if rest, ok := strings.CutPrefix(wire, previewMarker); ok {
		return Key{Filename: rest, Variant: VariantPreview}
	}
	return Key{Filename: wire, Variant: VariantExecution}
}

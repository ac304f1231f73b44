package compiler

import (
	"strings"
	"testing"
)

func TestWireFilenameRoundTrip(t *testing.T) {
	names := []string{
		"a.js",
		"src/deep/path.js",
		"weird name with spaces.js",
		"preview.js", // contains the word, not the marker
		"файл.js",
	}
	for _, name := range names {
		for _, variant := range []Variant{VariantExecution, VariantPreview} {
			key := Key{Filename: name, Variant: variant}
			got := DecodeWireFilename(EncodeWireFilename(key))
			if got != key {
				t.Fatalf("round trip failed for %v: got %v", key, got)
			}
		}
	}
}

func TestPreviewMarkerCannotCollide(t *testing.T) {
	// The marker starts with a NUL byte, which no real filename contains.
	if !strings.HasPrefix(previewMarker, "\x00") {
		t.Fatalf("preview marker %q must start with a NUL byte", previewMarker)
	}

	// An execution filename never decodes as preview.
	key := DecodeWireFilename("a.js")
	if key.Variant != VariantExecution || key.Filename != "a.js" {
		t.Fatalf("plain filename decoded incorrectly: %v", key)
	}
}

func TestVariantsDecodeIndependently(t *testing.T) {
	exec := EncodeWireFilename(Key{Filename: "a.js", Variant: VariantExecution})
	prev := EncodeWireFilename(Key{Filename: "a.js", Variant: VariantPreview})
	if exec == prev {
		t.Fatal("execution and preview wire filenames must differ")
	}
	if DecodeWireFilename(prev).Variant != VariantPreview {
		t.Fatal("preview wire filename lost its variant")
	}
}

package errmsg

import "testing"

func TestParseBabelStyle(t *testing.T) {
	d := Parse("SyntaxError: Unexpected token (4:12)")
	if d.Summary != "SyntaxError" {
		t.Fatalf("unexpected summary: %q", d.Summary)
	}
	if d.Description != "Unexpected token" {
		t.Fatalf("unexpected description: %q", d.Description)
	}
	if d.Line != 4 {
		t.Fatalf("unexpected line: %d", d.Line)
	}
}

func TestParseLinePrefixStyle(t *testing.T) {
	d := Parse("Error: Line 7: Unexpected identifier")
	if d.Summary != "Error" {
		t.Fatalf("unexpected summary: %q", d.Summary)
	}
	if d.Line != 7 {
		t.Fatalf("unexpected line: %d", d.Line)
	}
}

func TestParseNoLineNumber(t *testing.T) {
	d := Parse("ReferenceError: foo is not defined")
	if d.Summary != "ReferenceError" || d.Description != "foo is not defined" {
		t.Fatalf("unexpected details: %+v", d)
	}
	if d.Line != 0 {
		t.Fatalf("line must be 0 when absent, got %d", d.Line)
	}
}

func TestParsePathPrefixIsNotASummary(t *testing.T) {
	d := Parse("/src/a.js: something went wrong (2:1)")
	if d.Summary == "/src/a.js" {
		t.Fatal("a file path must not be taken as the error summary")
	}
	if d.Line != 2 {
		t.Fatalf("unexpected line: %d", d.Line)
	}
}

func TestParseOpaqueMessage(t *testing.T) {
	d := Parse("everything is broken")
	if d.Summary != "everything is broken" || d.Description != "" {
		t.Fatalf("opaque message must land in the summary: %+v", d)
	}
}

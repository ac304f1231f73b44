// Package errmsg decomposes free-text compiler and runtime failure messages
// into a summary, a description and a source line number. The exact shape
// varies by compiler, so parsing is best-effort: whatever cannot be
// recognized stays in the description.
package errmsg

import (
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Details is the decomposed form of a failure message.
type Details struct {
	Summary     string
	Description string
	Line        int // 0 when no line number was found
}

var (
	// "(4:12)" position suffix, as emitted by babel-style compilers.
	lineColSuffix = regexp.MustCompile(`\s*\((\d+):(\d+)\)\s*$`)
	// "Line 4: ..." prefix, as emitted by esprima-style parsers.
	linePrefix = regexp.MustCompile(`(?i)\bline\s+(\d+)\s*:?`)
)

// Parse extracts Details from a failure message.
func Parse(message string) Details {
	d := Details{Description: strings.TrimSpace(message)}

	if m := lineColSuffix.FindStringSubmatch(d.Description); m != nil {
		d.Line = parseLine(m[1])
		d.Description = strings.TrimSpace(lineColSuffix.ReplaceAllString(d.Description, ""))
	} else if m := linePrefix.FindStringSubmatch(d.Description); m != nil {
		d.Line = parseLine(m[1])
	}

	// "SyntaxError: unexpected token" → summary before the first colon,
	// provided it looks like an error name rather than a file path.
	if name, rest, ok := strings.Cut(d.Description, ":"); ok {
		name = strings.TrimSpace(name)
		if isErrorName(name) {
			d.Summary = name
			d.Description = strings.TrimSpace(rest)
		}
	}
	if d.Summary == "" {
		d.Summary = d.Description
		d.Description = ""
	}
	return d
}

// parseLine converts a matched digit group into an int, clamping on overflow.
func parseLine(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	line, err := safecast.Conv[int](n)
	if err != nil {
		return 0
	}
	return line
}

// isErrorName reports whether s looks like an error class name
// ("SyntaxError", "ReferenceError") as opposed to a file path or sentence.
func isErrorName(s string) bool {
	if s == "" || strings.ContainsAny(s, "/\\. ") {
		return false
	}
	return true
}

// Package version carries build metadata for the sandpad CLI.
package version

import "github.com/fatih/color"

// These are overridden at build time via -ldflags, e.g.
//
//	-X sandpad/internal/version.GitCommit=$(git rev-parse --short HEAD)
var (
	// Version is the semantic version of the CLI.
	Version = colorize("0", "1", "0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is the subject line of the commit the build came from.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// colorize renders major.minor.patch with one color per component, so the
// parts stand out in terminal output while staying plain when piped.
func colorize(major, minor, patch string) string {
	return color.New(color.FgYellow, color.Bold).Sprint(major) + "." +
		color.New(color.FgGreen, color.Bold).Sprint(minor) + "." +
		color.New(color.FgBlue, color.Bold).Sprint(patch)
}

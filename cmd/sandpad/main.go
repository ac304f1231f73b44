package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sandpad/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sandpad",
	Short: "Sandpad live-coding workspace",
	Long:  `Sandpad is a terminal live-coding workspace: edit, compile through an external worker, and run in a sandboxed player`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("trace", "", "trace output path ('-' for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|error|flow|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 1024, "ring buffer capacity for --trace-mode=ring")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

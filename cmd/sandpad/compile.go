package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sandpad/internal/compiler"
	"sandpad/internal/coordinator"
	"sandpad/internal/trace"
)

var compileCmd = &cobra.Command{
	Use:   "compile [dir]",
	Short: "Compile the whole workspace once",
	Long:  `Compile every workspace file through the external worker and write the execution output, without opening the interactive workspace`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("out", filepath.Join("target", "out"), "output directory for compiled files")
	compileCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for the compiler")
}

func runCompile(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	startDir := ""
	if len(args) == 1 {
		startDir = args[0]
	}
	manifest, err := loadWorkspaceManifest(startDir)
	if err != nil {
		return err
	}
	files, err := loadWorkspaceFiles(manifest)
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}

	ctx := cmd.Context()
	worker, err := compiler.StartProcessWorker(ctx, manifest.Config.Compiler.Command, tracer)
	if err != nil {
		return err
	}
	gateway := compiler.NewWireGateway(worker, tracer)
	defer func() {
		if err := gateway.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: compiler worker shutdown: %v\n", err)
		}
	}()

	events := make(chan coordinator.Event, 256)
	done := make(chan map[string]string, 1)

	coord, err := coordinator.New(coordinator.Options{
		Files:     files,
		Entry:     manifest.Config.Workspace.Entry,
		Execution: true,
		Gateway:   gateway,
		Progress:  coordinator.ChannelSink{Ch: events},
		Tracer:    tracer,
		Run: func(compiled map[string]string, entry string) {
			select {
			case done <- compiled:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer coord.Close()

	tracer.Emit(trace.Point(trace.ScopePipeline, "batch-compile", manifest.Root))
	coord.Start()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case compiled := <-done:
			return writeCompiled(outDir, manifest.Root, compiled)
		case ev := <-events:
			if ev.Kind == coordinator.EventCompileFailed {
				return fmt.Errorf("compile failed: %s: %s", ev.Filename, ev.Message)
			}
		case <-deadline.C:
			return fmt.Errorf("timed out after %s waiting for the compiler", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeCompiled materializes the execution outputs under outDir.
func writeCompiled(outDir, root string, compiled map[string]string) error {
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	for name, code := range compiled {
		dst := filepath.Join(outDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
		if err := os.WriteFile(dst, []byte(code), 0o600); err != nil {
			return fmt.Errorf("failed to write output %q: %w", dst, err)
		}
	}
	fmt.Printf("compiled %d files to %s\n", len(compiled), outDir)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sandpad/internal/compiler"
	"sandpad/internal/coordinator"
	"sandpad/internal/player"
	"sandpad/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Open the live-coding workspace",
	Long:  `Open the interactive workspace: edits are compiled by the external worker as you type, and the program re-runs whenever every file has fresh execution output`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkspace,
}

func init() {
	runCmd.Flags().Bool("no-warm", false, "skip the on-disk artifact cache")
	runCmd.Flags().Bool("strict-ordering", false, "discard compile responses that are provably stale")
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("the workspace needs a terminal; use 'sandpad compile' for batch output")
	}

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

	noWarm, err := cmd.Flags().GetBool("no-warm")
	if err != nil {
		return fmt.Errorf("failed to get no-warm flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("strict-ordering")
	if err != nil {
		return fmt.Errorf("failed to get strict-ordering flag: %w", err)
	}

	var artifacts *session.Store
	if !noWarm {
		artifacts, err = session.Open("sandpad")
		if err != nil {
			// Warm start is an optimization; a missing cache dir is not fatal.
			fmt.Fprintf(os.Stderr, "warning: artifact cache unavailable: %v\n", err)
			artifacts = nil
		}
	}

	ctx := cmd.Context()
	worker, err := compiler.StartProcessWorker(ctx, manifest.Config.Compiler.Command, tracer)
	if err != nil {
		return err
	}
	gateway := compiler.NewWireGateway(worker, tracer)

	events := make(chan coordinator.Event, 256)
	output := make(chan string, 256)

	playerCmd := manifest.Config.Player.Command
	var runner *player.ProcessRunner
	var coord *coordinator.Coordinator

	if len(playerCmd) > 0 {
		cb := player.Callbacks{
			OnOutput: func(line string) {
				select {
				case output <- line:
				default:
				}
			},
			OnFailure: func(message string) {
				if coord != nil {
					coord.OnRuntimeFailure(message)
				}
			},
		}
		runner, err = player.NewProcessRunner(ctx, playerCmd, cb, tracer)
		if err != nil {
			return err
		}
	}

	opts := coordinator.Options{
		Files:          files,
		Entry:          manifest.Config.Workspace.Entry,
		Execution:      manifest.Config.Pipelines.Execution,
		Preview:        manifest.Config.Pipelines.Preview,
		StrictOrdering: strict,
		Gateway:        gateway,
		Progress:       coordinator.ChannelSink{Ch: events},
		Tracer:         tracer,
		Artifacts:      artifacts,
	}
	if runner != nil {
		opts.Run = runner.Run
	}
	coord, err = coordinator.New(opts)
	if err != nil {
		return err
	}

	coord.Start()
	uiErr := runWorkspaceUI(coord, events, output)

	coord.Close()
	if runner != nil {
		runner.Close()
	}
	if err := gateway.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compiler worker shutdown: %v\n", err)
	}
	return uiErr
}

package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sandpad/internal/coordinator"
	"sandpad/internal/ui"
)

// runWorkspaceUI blocks inside the Bubble Tea program until the user quits.
func runWorkspaceUI(coord *coordinator.Coordinator, events <-chan coordinator.Event, output <-chan string) error {
	model := ui.NewModel(coord, events, output)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

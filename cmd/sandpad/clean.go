package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandpad/internal/session"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the on-disk compile artifact cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.Open("sandpad")
		if err != nil {
			return err
		}
		if err := store.DropAll(); err != nil {
			return fmt.Errorf("failed to drop artifact cache: %w", err)
		}
		fmt.Println("artifact cache dropped")
		return nil
	},
}

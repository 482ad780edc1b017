// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/internal/sections"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the section database and start over",
	Long: `Reset removes the session database, discarding all saved sections,
versions, claims, and the title. Requires --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset discards all saved work: re-run with --force to confirm")
		}

		path := sections.DatabasePath(engineConfig().Store)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Nothing to reset.")
				return nil
			}
			return fmt.Errorf("removing database: %w", err)
		}
		fmt.Println("Removed", path)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "confirm discarding all saved work")

	rootCmd.AddCommand(resetCmd)
}

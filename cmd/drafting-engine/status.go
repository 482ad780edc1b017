// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pipeline stage states",
	Long: `Status restores the stage graph from the section store and prints the
state of every stage in pipeline order.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, store, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer store.Close()

	report := session.Graph().StatusReport()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("%-20s  %-10s  %s\n", "Stage", "Unlocked", "State")
	for _, s := range report {
		state := "pending"
		switch {
		case s.Completed:
			state = "completed"
		case s.Skipped:
			state = "skipped"
		}
		unlocked := "no"
		if s.Unlocked {
			unlocked = "yes"
		}
		fmt.Printf("%-20s  %-10s  %s\n", s.Stage, unlocked, state)
	}

	done := 0
	for _, stage := range types.StageOrder {
		if session.Graph().Satisfied(stage) {
			done++
		}
	}
	fmt.Printf("\n%d of %d stages satisfied\n", done, len(types.StageOrder))
	return nil
}

func init() {
	statusCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(statusCmd)
}

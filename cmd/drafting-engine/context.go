// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/internal/basis"
)

var contextCmd = &cobra.Command{
	Use:   "context [stage]",
	Short: "Print the antecedent-basis context a stage would generate with",
	Long: `Context builds and prints the cumulative context that generation for
the given stage would receive: the antecedent-basis instructions, every
earlier completed section, and the stored claims. Useful for checking
what terminology a stage inherits before generating.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	stage, err := parseStage(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(engineConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	title, err := store.Title(cmd.Context())
	if err != nil {
		return err
	}

	acc := basis.NewAccumulator(store)
	text, err := acc.BuildContext(cmd.Context(), stage, title)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func init() {
	rootCmd.AddCommand(contextCmd)
}

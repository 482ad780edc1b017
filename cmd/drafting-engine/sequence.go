// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/internal/sequence"
	"github.com/pdiddy/drafting-engine/pkg/types"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Sequence claim features into an operational flow",
	Long: `Sequence asks the model to order the extracted claim features into an
operational flow. Run generates and saves a model-proposed order; move
adjusts the saved order; show prints it with positions.`,
}

// defaultSequencingInstructions asks for the two-block wire format the
// parser expects.
const defaultSequencingInstructions = `You are sequencing patent claim features into the order a running system
would execute them.

You will receive a block labeled "` + sequence.BlockExtracted + `"
with one feature per line in the form C#F# = [text].

Respond with a block labeled "` + sequence.BlockSequenced + `"
containing every feature exactly once, one per line, in the same
C#F# = [text] form, reordered into a logical operational flow. Keep each
feature's text unchanged.`

// --- run subcommand ---

var sequenceRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and save a model-proposed feature order",
	RunE:  runSequenceRun,
}

func runSequenceRun(cmd *cobra.Command, args []string) error {
	instructionsFile, _ := cmd.Flags().GetString("instructions")
	title, _ := cmd.Flags().GetString("title")

	instructions := defaultSequencingInstructions
	if instructionsFile != "" {
		data, err := os.ReadFile(instructionsFile)
		if err != nil {
			return fmt.Errorf("reading instructions file: %w", err)
		}
		instructions = string(data)
	}

	session, store, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := session.SequenceClaims(cmd.Context(), instructions)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: claim %d: %s\n", w.ClaimNumber, w.Reason)
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "Warning: unparsed %s\n", issue)
	}
	if result.List.Len() == 0 {
		return fmt.Errorf("model output contained no parseable feature lines")
	}

	if _, err := session.SaveSequencing(cmd.Context(), title, result.List); err != nil {
		return err
	}

	printSequence(result.List)
	return nil
}

// --- show subcommand ---

var sequenceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved feature order with positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := loadSavedSequence(cmd.Context(), store)
		if err != nil {
			return err
		}
		printSequence(list)
		return nil
	},
}

// --- move subcommand ---

var sequenceMoveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move a feature up or down in the saved order",
	RunE:  runSequenceMove,
}

func runSequenceMove(cmd *cobra.Command, args []string) error {
	up, _ := cmd.Flags().GetInt("up")
	down, _ := cmd.Flags().GetInt("down")
	title, _ := cmd.Flags().GetString("title")
	if (up < 0) == (down < 0) {
		return fmt.Errorf("provide exactly one of --up or --down")
	}

	session, store, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := loadSavedSequence(cmd.Context(), store)
	if err != nil {
		return err
	}

	moved := false
	if up >= 0 {
		moved = list.MoveUp(up - 1)
	} else {
		moved = list.MoveDown(down - 1)
	}
	if !moved {
		return fmt.Errorf("position out of range for a list of %d features", list.Len())
	}

	if _, err := session.SaveSequencing(cmd.Context(), title, list); err != nil {
		return err
	}
	printSequence(list)
	return nil
}

// --- shared helpers ---

type sequenceReader interface {
	GetSection(ctx context.Context, typ types.SectionType) (*types.Section, error)
}

func loadSavedSequence(ctx context.Context, store sequenceReader) (*sequence.List, error) {
	section, err := store.GetSection(ctx, types.StageSection(types.StageSequencing))
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("no sequencing saved: run sequence run first")
	}
	return sequence.ParseSaved(section.Content())
}

func printSequence(list *sequence.List) {
	for i, e := range list.CurrentOrder() {
		fmt.Printf("%2d. %s = [%s]\n", i+1, e.ID, e.Text)
	}
	if list.CustomOrderModified() {
		fmt.Println("\n(order modified from the model proposal)")
	}
}

func init() {
	sequenceRunCmd.Flags().String("instructions", "", "path to a system-instructions file for sequencing")
	sequenceRunCmd.Flags().String("title", "", "section title to record with the snapshot")

	sequenceMoveCmd.Flags().Int("up", -1, "1-based position to move one slot earlier")
	sequenceMoveCmd.Flags().Int("down", -1, "1-based position to move one slot later")
	sequenceMoveCmd.Flags().String("title", "", "section title to record with the snapshot")

	sequenceCmd.AddCommand(sequenceRunCmd)
	sequenceCmd.AddCommand(sequenceShowCmd)
	sequenceCmd.AddCommand(sequenceMoveCmd)

	rootCmd.AddCommand(sequenceCmd)
}

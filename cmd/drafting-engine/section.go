// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Generate, save, and inspect pipeline sections",
	Long: `Section operates on the ten pipeline stages. Generate produces draft
text for review; save persists reviewed text and unlocks the next stage;
skip records a skipped state for the stages that allow it. Show and
history read back stored snapshots.`,
}

// parseStage resolves a stage name argument against the fixed order.
func parseStage(name string) (types.Stage, error) {
	stage := types.Stage(strings.ToLower(strings.TrimSpace(name)))
	if types.StageIndex(stage) < 0 {
		names := make([]string, len(types.StageOrder))
		for i, s := range types.StageOrder {
			names[i] = string(s)
		}
		return "", fmt.Errorf("unknown stage %q: expected one of %s", name, strings.Join(names, ", "))
	}
	return stage, nil
}

// readContent reads section text from --file, or stdin when the flag is
// empty.
func readContent(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading content file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading content from stdin: %w", err)
	}
	return string(data), nil
}

// --- generate subcommand ---

var sectionGenerateCmd = &cobra.Command{
	Use:   "generate [stage]",
	Short: "Generate draft text for a stage",
	Long: `Generate builds the antecedent-basis context from earlier sections,
optionally retrieves reference snippets for the query, and asks the model
for section text. The result is printed for review; nothing is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runSectionGenerate,
}

func runSectionGenerate(cmd *cobra.Command, args []string) error {
	stage, err := parseStage(args[0])
	if err != nil {
		return err
	}

	instructionsFile, _ := cmd.Flags().GetString("instructions")
	query, _ := cmd.Flags().GetString("query")

	instructions := fmt.Sprintf("Write the %s section of a patent application.", stage.Heading())
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

	text, err := session.GenerateSection(cmd.Context(), stage, instructions, query)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// --- save subcommand ---

var sectionSaveCmd = &cobra.Command{
	Use:   "save [stage]",
	Short: "Save reviewed text for a stage and unlock the next",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionSave,
}

func runSectionSave(cmd *cobra.Command, args []string) error {
	stage, err := parseStage(args[0])
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")
	query, _ := cmd.Flags().GetString("query")

	content, err := readContent(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("refusing to save empty content: use section skip for skippable stages")
	}

	session, store, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := session.SaveSection(cmd.Context(), stage, title, query, content)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s (section id %d)\n", stage, id)
	return nil
}

// --- skip subcommand ---

var sectionSkipCmd = &cobra.Command{
	Use:   "skip [stage]",
	Short: "Skip a skippable stage and unlock the next",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parseStage(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")

		session, store, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := session.SkipSection(cmd.Context(), stage, title); err != nil {
			return err
		}
		fmt.Printf("Skipped %s\n", stage)
		return nil
	},
}

// --- show subcommand ---

var sectionShowCmd = &cobra.Command{
	Use:   "show [stage]",
	Short: "Print the current snapshot of a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parseStage(args[0])
		if err != nil {
			return err
		}

		store, err := openStore(engineConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		section, err := store.GetSection(cmd.Context(), types.StageSection(stage))
		if err != nil {
			return err
		}
		if section == nil {
			fmt.Printf("No section saved for %s.\n", stage)
			return nil
		}
		if section.Skipped {
			fmt.Printf("%s was skipped.\n", stage)
			return nil
		}
		fmt.Println(section.Content())
		return nil
	},
}

// --- history subcommand ---

var sectionHistoryCmd = &cobra.Command{
	Use:   "history [stage]",
	Short: "List all saved versions of a stage, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parseStage(args[0])
		if err != nil {
			return err
		}

		store, err := openStore(engineConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		history, err := store.SectionHistory(cmd.Context(), types.StageSection(stage))
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Printf("No versions saved for %s.\n", stage)
			return nil
		}
		for _, s := range history {
			state := fmt.Sprintf("%d paragraphs", len(s.Paragraphs))
			if s.Skipped {
				state = "skipped"
			}
			fmt.Printf("id %d  %s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), state)
		}
		return nil
	},
}

// --- save-dynamic subcommand ---

var sectionSaveDynamicCmd = &cobra.Command{
	Use:   "save-dynamic [kind] [key]",
	Short: "Save a freeform kind:key section outside the stage pipeline",
	Long: `Save-dynamic persists a record identified by kind and key, e.g.
"enablement C1F1" for a per-feature enablement description or
"scenario_diagram 3" for a scenario figure. Dynamic sections are not
stage-gated and do not unlock anything.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		query, _ := cmd.Flags().GetString("query")

		content, err := readContent(cmd)
		if err != nil {
			return err
		}

		session, store, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := session.SaveDynamicSection(cmd.Context(), args[0], args[1], title, query, content)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s:%s (section id %d)\n", args[0], args[1], id)
		return nil
	},
}

// --- drawings subcommand ---

var sectionDrawingsCmd = &cobra.Command{
	Use:   "drawings",
	Short: "Scaffold the brief description of the drawings",
	Long: `Drawings builds the standard drawings section from the stored title
and the --scenario descriptions, one figure per scenario between the
fixed environment diagrams and the closing flowcharts. The text is
printed for review; save it with section save drawings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarios, _ := cmd.Flags().GetStringArray("scenario")

		session, store, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer store.Close()

		text, err := session.ScaffoldDrawings(cmd.Context(), scenarios)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	sectionGenerateCmd.Flags().String("instructions", "", "path to a system-instructions file for this stage")
	sectionGenerateCmd.Flags().String("query", "", "retrieval query and generation request")

	sectionSaveCmd.Flags().String("title", "", "section title to record with the snapshot")
	sectionSaveCmd.Flags().String("query", "", "query that produced this content, for provenance")
	sectionSaveCmd.Flags().String("file", "", "read content from this file instead of stdin")

	sectionSkipCmd.Flags().String("title", "", "section title to record with the skip marker")

	sectionSaveDynamicCmd.Flags().String("title", "", "section title to record with the snapshot")
	sectionSaveDynamicCmd.Flags().String("query", "", "query that produced this content, for provenance")
	sectionSaveDynamicCmd.Flags().String("file", "", "read content from this file instead of stdin")

	sectionDrawingsCmd.Flags().StringArray("scenario", nil, "scenario figure description (repeatable)")

	sectionCmd.AddCommand(sectionGenerateCmd)
	sectionCmd.AddCommand(sectionSaveCmd)
	sectionCmd.AddCommand(sectionSkipCmd)
	sectionCmd.AddCommand(sectionSaveDynamicCmd)
	sectionCmd.AddCommand(sectionShowCmd)
	sectionCmd.AddCommand(sectionHistoryCmd)
	sectionCmd.AddCommand(sectionDrawingsCmd)

	rootCmd.AddCommand(sectionCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current draft to YAML or plain text",
	Long: `Export assembles the current snapshot of every saved stage, plus the
title and claims, into a single document on stdout or --out.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, err := openStore(engineConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), w)
	case "text":
		err = store.ExportText(cmd.Context(), w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or text", format)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		fmt.Fprintln(os.Stderr, "Exported to", outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or text")
	exportCmd.Flags().String("out", "", "write to this file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}

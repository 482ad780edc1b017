// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/drafting-engine/internal/claims"
	"github.com/pdiddy/drafting-engine/pkg/types"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Import and inspect patent claims",
	Long: `Claims manages the claims document backing a drafting session. Import
parses a text document into numbered claims and a title of invention;
list and title read back what is stored; features shows the claim
features that sequencing will order.`,
}

// --- import subcommand ---

var claimsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Parse a claims document and store its claims and title",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaimsImport,
}

func runClaimsImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading claims document: %w", err)
	}

	session, store, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := session.ImportClaimsDocument(cmd.Context(), string(data), filepath.Base(args[0]))
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d claims\n", len(doc.Claims))
	if doc.Title == claims.TitleNotFound {
		fmt.Println("Warning: no title of invention found in document")
	} else {
		fmt.Printf("Title: %s\n", doc.Title)
	}
	return nil
}

// --- list subcommand ---

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored claims",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(engineConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		claimList, err := store.Claims(cmd.Context())
		if err != nil {
			return err
		}
		if len(claimList) == 0 {
			fmt.Println("No claims stored.")
			return nil
		}
		for _, c := range claimList {
			fmt.Printf("Claim %d:\n%s\n\n", c.Number, c.Text)
		}
		return nil
	},
}

// --- title subcommand ---

var claimsTitleCmd = &cobra.Command{
	Use:   "title",
	Short: "Print the stored title of invention",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(engineConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		title, err := store.Title(cmd.Context())
		if err != nil {
			return err
		}
		if title == "" {
			fmt.Println("No title stored.")
			return nil
		}
		fmt.Println(title)
		return nil
	},
}

// --- features subcommand ---

var claimsFeaturesCmd = &cobra.Command{
	Use:   "features",
	Short: "Extract and print claim features",
	Long: `Features converts the stored claims into individually identified
features (C1F1, C1F2, ...), each paraphrased as an operational
capability. Claims whose preamble cannot be classified degrade to a
single verbatim feature with a warning.`,
	RunE: runClaimsFeatures,
}

func runClaimsFeatures(cmd *cobra.Command, args []string) error {
	store, err := openStore(engineConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	claimList, err := store.Claims(cmd.Context())
	if err != nil {
		return err
	}
	if len(claimList) == 0 {
		return fmt.Errorf("no claims stored: run claims import first")
	}

	features, warnings := claims.ExtractFeatures(claimList)
	for _, f := range features {
		marker := ""
		if f.ClaimType == types.ClaimUnknown {
			marker = " (unparsed)"
		}
		fmt.Printf("%s%s = [%s]\n", f.ID, marker, f.ConvertedText)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: claim %d: %s\n", w.ClaimNumber, w.Reason)
	}
	return nil
}

func init() {
	claimsCmd.AddCommand(claimsImportCmd)
	claimsCmd.AddCommand(claimsListCmd)
	claimsCmd.AddCommand(claimsTitleCmd)
	claimsCmd.AddCommand(claimsFeaturesCmd)

	rootCmd.AddCommand(claimsCmd)
}

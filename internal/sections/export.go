// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// ExportDocument holds the assembled document for export: the title,
// claims, and the current snapshot of every fixed stage in stage order.
type ExportDocument struct {
	Title    string          `json:"title" yaml:"title"`
	Claims   []types.Claim   `json:"claims,omitempty" yaml:"claims,omitempty"`
	Sections []types.Section `json:"sections" yaml:"sections"`
}

// Export assembles the current snapshot of every saved fixed-stage section
// in stage order, together with the title and claims.
func (s *Store) Export(ctx context.Context) (*ExportDocument, error) {
	title, err := s.Title(ctx)
	if err != nil {
		return nil, err
	}
	claimList, err := s.Claims(ctx)
	if err != nil {
		return nil, err
	}

	doc := &ExportDocument{Title: title, Claims: claimList}
	for _, stage := range types.StageOrder {
		section, err := s.GetSection(ctx, types.StageSection(stage))
		if err != nil {
			return nil, err
		}
		if section != nil {
			doc.Sections = append(doc.Sections, *section)
		}
	}
	return doc, nil
}

// ExportYAML writes the assembled document as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportText writes the assembled document as readable text: each section
// under its document heading with numbered paragraphs, skipped sections
// marked as such.
func (s *Store) ExportText(ctx context.Context, w io.Writer) error {
	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}

	divider := strings.Repeat("=", 60)
	if doc.Title != "" {
		fmt.Fprintf(w, "%s\n\n", doc.Title)
	}
	for _, section := range doc.Sections {
		fmt.Fprintf(w, "%s\n%s\n%s\n", divider, section.Type.Stage.Heading(), divider)
		if section.Skipped {
			fmt.Fprintln(w, "(SKIPPED - No content generated)")
			continue
		}
		for _, p := range section.Paragraphs {
			fmt.Fprintf(w, "%s %s\n\n", p.Number, p.Text)
		}
	}
	return nil
}

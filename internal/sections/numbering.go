// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections persists document sections and their numbered paragraphs
// in a SQLite store, modeled as a versioned log with a current pointer.
package sections

import (
	"fmt"
	"strings"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// Numbering selects how paragraph labels are assigned within a section.
type Numbering int

const (
	// NumberingSectionReset labels paragraphs [1], [2], ... restarting for
	// every section. This is the default for all stages but drawings.
	NumberingSectionReset Numbering = iota

	// NumberingPatentGlobal labels paragraphs with a 4-digit zero-padded
	// counter seeded at 6 ([0006], [0007], ...), the patent-style continuous
	// scheme the drawings stage uses. Deliberately distinct from the
	// per-section reset scheme.
	NumberingPatentGlobal
)

// patentGlobalSeed is the first paragraph number of the patent-global
// scheme; [0001]-[0005] are reserved for the preceding front matter.
const patentGlobalSeed = 6

const (
	minParagraphLen    = 30
	minFallbackLineLen = 50
)

// NumberParagraphs splits free text into numbered paragraphs. Text is split
// on blank-line boundaries; if that yields at most one chunk it is re-split
// on single newlines with lines under 50 characters discarded (presumed
// headings). Chunks under 30 characters are dropped. The operation is
// deterministic and idempotent for well-formed input: renumbering changes
// only the label sequence, never the content.
func NumberParagraphs(text string, numbering Numbering) []types.Paragraph {
	chunks := splitChunks(text)

	var paragraphs []types.Paragraph
	for i, chunk := range chunks {
		paragraphs = append(paragraphs, types.Paragraph{
			Number: label(numbering, i),
			Text:   chunk,
		})
	}
	return paragraphs
}

func splitChunks(text string) []string {
	chunks := collect(strings.Split(text, "\n\n"), 1)
	if len(chunks) <= 1 {
		chunks = collect(strings.Split(text, "\n"), minFallbackLineLen)
	}

	var kept []string
	for _, c := range chunks {
		if len(c) >= minParagraphLen {
			kept = append(kept, c)
		}
	}
	return kept
}

func collect(parts []string, minLen int) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= minLen && p != "" {
			out = append(out, p)
		}
	}
	return out
}

func label(numbering Numbering, index int) string {
	if numbering == NumberingPatentGlobal {
		return fmt.Sprintf("[%04d]", patentGlobalSeed+index)
	}
	return fmt.Sprintf("[%d]", index+1)
}

// StageNumbering returns the numbering strategy for a fixed stage: the
// drawings stage uses the patent-global scheme, everything else resets per
// section.
func StageNumbering(stage types.Stage) Numbering {
	if stage == types.StageDrawings {
		return NumberingPatentGlobal
	}
	return NumberingSectionReset
}

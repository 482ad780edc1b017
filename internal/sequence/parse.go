// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sequence parses model-proposed operational orderings of claim
// features and maintains the live, user-adjustable sequence.
//
// The wire format is two labeled blocks:
//
//	=== EXTRACTED CLAIM FEATURES ===
//	C1F1 = [The system is configured to ...]
//
//	=== SEQUENCED OPERATIONAL FLOW ===
//	C2F1 = [In an embodiment, the system is configured to ...]
//
// Each body line follows the grammar C\d+F\d+ = [text]. Lines that do not
// match are reported as ParseIssues, not silently dropped.
package sequence

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Block labels of the sequencing wire format.
const (
	BlockExtracted = "=== EXTRACTED CLAIM FEATURES ==="
	BlockSequenced = "=== SEQUENCED OPERATIONAL FLOW ==="
)

// Markers prepended to persisted sequencing content.
const (
	markerModelOrder  = "=== AI-GENERATED SEQUENCE ==="
	markerCustomOrder = "=== USER-MODIFIED SEQUENCE ==="
	markerFinalFlow   = "=== FINAL SEQUENCED OPERATIONAL FLOW ==="
)

// featureLinePattern is the strict line grammar: C#F# = [text].
var featureLinePattern = regexp.MustCompile(`^(C\d+F\d+)\s*=\s*\[(.*)\]$`)

// paragraphLabelPattern matches the paragraph label a stored section
// prepends to its first line, e.g. "[2] ".
var paragraphLabelPattern = regexp.MustCompile(`^\[\d+\]\s*`)

// ErrNoSequencedBlock indicates the model output contains no
// "=== SEQUENCED OPERATIONAL FLOW ===" block at all.
var ErrNoSequencedBlock = errors.New("model output has no sequenced operational flow block")

// Entry is one (feature ID, text) pair in a sequenced list.
type Entry struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// ParseIssue describes a non-empty line inside the sequenced block that did
// not match the line grammar. Issues are warnings: parsing continues.
type ParseIssue struct {
	// Line is the 1-based line number within the sequenced block.
	Line int

	// Text is the offending line.
	Text string
}

func (p ParseIssue) String() string {
	return fmt.Sprintf("line %d: %q does not match C#F# = [text]", p.Line, p.Text)
}

// Result holds a parsed model ordering together with any lines that failed
// the grammar.
type Result struct {
	Entries []Entry
	Issues  []ParseIssue
}

// Parse extracts the sequenced operational flow from raw model output.
// Everything before the sequenced block label is ignored (the extracted
// features block is informational). Returns ErrNoSequencedBlock when the
// label is absent.
func Parse(modelOutput string) (*Result, error) {
	_, body, found := strings.Cut(modelOutput, BlockSequenced)
	if !found {
		return nil, ErrNoSequencedBlock
	}

	result := &Result{}
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := featureLinePattern.FindStringSubmatch(line)
		if m == nil {
			result.Issues = append(result.Issues, ParseIssue{Line: i + 1, Text: line})
			continue
		}
		result.Entries = append(result.Entries, Entry{ID: m[1], Text: m[2]})
	}
	return result, nil
}

// RenderFeatureLines renders entries as grammar-conforming body lines.
func RenderFeatureLines(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s = [%s]\n", e.ID, e.Text)
	}
	return b.String()
}

// RenderExtractedBlock renders the extracted-features block of the wire
// format from (ID, text) pairs.
func RenderExtractedBlock(entries []Entry) string {
	return BlockExtracted + "\n" + RenderFeatureLines(entries)
}

// ParseSaved reconstructs a List from persisted sequencing content,
// tolerating the paragraph labels the store adds on save. The loaded order
// becomes the reset point; the custom-order flag survives the round trip.
// Returns ErrNoSequencedBlock when the final-flow label is absent.
func ParseSaved(content string) (*List, error) {
	_, body, found := strings.Cut(content, markerFinalFlow)
	if !found {
		return nil, ErrNoSequencedBlock
	}

	var entries []Entry
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = paragraphLabelPattern.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		if m := featureLinePattern.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{ID: m[1], Text: m[2]})
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("saved sequencing content has no feature lines")
	}

	l := NewList(entries)
	l.modified = strings.Contains(content, markerCustomOrder)
	return l, nil
}

// RenderSavedContent renders the persisted form of a sequencing result: the
// origin marker (model order or user-modified), the final-flow label, and
// the grammar-conforming feature lines.
func RenderSavedContent(entries []Entry, customOrder bool) string {
	marker := markerModelOrder
	if customOrder {
		marker = markerCustomOrder
	}
	return marker + "\n\n" + markerFinalFlow + "\n\n" + RenderFeatureLines(entries)
}

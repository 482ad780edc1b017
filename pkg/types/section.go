// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// Stage identifies one of the ten fixed document sections in pipeline order.
type Stage string

const (
	StageBackground          Stage = "background"
	StageSummary             Stage = "summary"
	StageDrawings            Stage = "drawings"
	StageTechnicalProblems   Stage = "technical_problems"
	StageTechnicalAdvantages Stage = "technical_advantages"
	StageSummaryParaphrase   Stage = "summary_paraphrase"
	StageFigure2Intro        Stage = "figure2_intro"
	StageSequencing          Stage = "sequencing"
	StageFigure2Enablement   Stage = "figure2_enablement"
	StageScenarioDiagrams    Stage = "scenario_diagrams"
)

// StageOrder is the fixed total order of the ten pipeline stages. Each stage
// has exactly one predecessor; StageBackground is the root and is always
// unlocked.
var StageOrder = []Stage{
	StageBackground,
	StageSummary,
	StageDrawings,
	StageTechnicalProblems,
	StageTechnicalAdvantages,
	StageSummaryParaphrase,
	StageFigure2Intro,
	StageSequencing,
	StageFigure2Enablement,
	StageScenarioDiagrams,
}

// StageIndex returns the position of s in StageOrder, or -1 when s is not a
// fixed stage.
func StageIndex(s Stage) int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Heading returns the document heading for a stage, e.g. "BRIEF DESCRIPTION
// OF DRAWINGS" for StageDrawings.
func (s Stage) Heading() string {
	switch s {
	case StageBackground:
		return "BACKGROUND"
	case StageSummary:
		return "SUMMARY"
	case StageDrawings:
		return "BRIEF DESCRIPTION OF DRAWINGS"
	case StageTechnicalProblems:
		return "TECHNICAL PROBLEMS"
	case StageTechnicalAdvantages:
		return "TECHNICAL ADVANTAGES"
	case StageSummaryParaphrase:
		return "SUMMARY PARAPHRASE"
	case StageFigure2Intro:
		return "FIGURE 2 INTRODUCTION"
	case StageSequencing:
		return "CLAIM SEQUENCING"
	case StageFigure2Enablement:
		return "FIGURE 2 CLAIM ENABLEMENT"
	case StageScenarioDiagrams:
		return "SCENARIO DIAGRAMS"
	}
	return strings.ToUpper(string(s))
}

// SectionType is a tagged union identifying a section record: either one of
// the ten fixed stages, or a dynamic kind:key pair for per-feature and
// per-scenario records (e.g. "enablement:C1F1", "scenario_diagram:3").
type SectionType struct {
	// Stage is set for fixed-stage sections and empty for dynamic ones.
	Stage Stage `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Kind and Key identify a dynamic section. Both are empty for
	// fixed-stage sections.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
}

// StageSection returns the SectionType for a fixed stage.
func StageSection(s Stage) SectionType {
	return SectionType{Stage: s}
}

// DynamicSection returns the SectionType for an open-ended kind:key record.
func DynamicSection(kind, key string) SectionType {
	return SectionType{Kind: kind, Key: key}
}

// IsDynamic reports whether t identifies a dynamic record rather than one
// of the fixed stages.
func (t SectionType) IsDynamic() bool {
	return t.Stage == ""
}

// Tag returns the storage tag for t: the stage name for fixed stages, or
// "kind:key" for dynamic sections.
func (t SectionType) Tag() string {
	if t.IsDynamic() {
		return t.Kind + ":" + t.Key
	}
	return string(t.Stage)
}

// ParseSectionType parses a storage tag back into a SectionType.
func ParseSectionType(tag string) (SectionType, error) {
	if kind, key, ok := strings.Cut(tag, ":"); ok {
		if kind == "" || key == "" {
			return SectionType{}, fmt.Errorf("malformed dynamic section tag %q", tag)
		}
		return DynamicSection(kind, key), nil
	}
	if StageIndex(Stage(tag)) < 0 {
		return SectionType{}, fmt.Errorf("unknown section type %q", tag)
	}
	return StageSection(Stage(tag)), nil
}

// Paragraph is one numbered paragraph owned by a section snapshot.
type Paragraph struct {
	// Number is the paragraph label, "[1]" or "[0006]" depending on the
	// numbering strategy of the owning stage.
	Number string `json:"number" yaml:"number"`

	// Text is the paragraph body.
	Text string `json:"text" yaml:"text"`
}

// Section is one persisted snapshot of a document section. Sections are
// append-only; the most recently created snapshot of a type is the current
// one.
type Section struct {
	// ID is the store-assigned record identifier.
	ID int64 `json:"id" yaml:"id"`

	// Type identifies the fixed stage or dynamic record this snapshot
	// belongs to.
	Type SectionType `json:"type" yaml:"type"`

	// Title is the patent title the section was generated under.
	Title string `json:"title" yaml:"title"`

	// Query is the user query or instruction the content was generated from.
	Query string `json:"query" yaml:"query"`

	// CreatedAt orders snapshots of the same type; the latest wins on read.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Skipped marks a section recorded without content. A skipped section
	// has zero paragraphs.
	Skipped bool `json:"skipped" yaml:"skipped"`

	// Paragraphs holds the numbered content in insertion order. Empty when
	// Skipped is true.
	Paragraphs []Paragraph `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
}

// Content renders the section's paragraphs as "number text" lines, the form
// consumed by the antecedent-basis context builder.
func (s *Section) Content() string {
	var b strings.Builder
	for _, p := range s.Paragraphs {
		b.WriteString(p.Number)
		b.WriteString(" ")
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package basis accumulates antecedent-basis context across a drafting
// session. In patent drafting a term's first mention is unmarked and every
// later mention is prefixed with "the"; to keep that rule intact the
// context for a stage must carry every earlier completed section.
package basis

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// maxContextClaims bounds how many claims are appended to the context.
const maxContextClaims = 3

// claimTruncateLen bounds the characters of each appended claim.
const claimTruncateLen = 500

// antecedentInstructions is the static instruction block explaining the
// first-mention versus "the"-prefixed subsequent-mention rule. Callers
// depend on it verbatim; do not reflow.
const antecedentInstructions = `**CRITICAL - ANTECEDENT BASIS RULES:**
In patent drafting, antecedent basis must be maintained:
- When a term is FIRST introduced in the document, use it without "the" (e.g., "a processing unit", "application containers")
- When that SAME term appears AGAIN (in the same section OR any later section), use "the" before it (e.g., "the processing unit", "the application containers")
- Review ALL previous sections below to identify terms that have already been introduced
- ANY term that appears in the sections below has ALREADY been introduced and MUST use "the" when referenced again

This is a MANDATORY patent drafting requirement for proper claim support.`

// stageInstructions holds supplemental guidance appended for specific
// stages.
var stageInstructions = map[types.Stage]string{
	types.StageTechnicalAdvantages: `**SECTION-SPECIFIC INSTRUCTION:**
You are writing the Technical Advantages section.
- Review the Technical Problems section above carefully
- ANY term mentioned in Technical Problems MUST use "the" when referenced here
- Maintain consistency with all previously established terminology`,
	types.StageFigure2Intro: `**SECTION-SPECIFIC INSTRUCTION:**
You are writing the Figure 2 Introduction.
- All technical terms from earlier sections have been established
- Use "the" before any previously introduced terms
- Reference components with their established names`,
	types.StageFigure2Enablement: `**SECTION-SPECIFIC INSTRUCTION:**
You are writing claim feature enablement descriptions.
- All sections above provide the established terminology
- Maintain antecedent basis with all introduced terms
- Connect claim features to Figure 2 components using established names`,
	types.StageScenarioDiagrams: `**SECTION-SPECIFIC INSTRUCTION:**
You are writing scenario diagram descriptions.
- The entire document context is available above
- Use "the" for all previously introduced terms
- Maintain consistency with Figure 2 component naming`,
}

// SectionSource supplies saved sections and claims, typically the sections
// store.
type SectionSource interface {
	GetSection(ctx context.Context, typ types.SectionType) (*types.Section, error)
	Claims(ctx context.Context) ([]types.Claim, error)
}

// Accumulator builds the cumulative context for section generation. It is
// append-only within a session: completions are registered, never edited.
type Accumulator struct {
	source SectionSource

	// completed caches content registered during this session, keyed by
	// stage. Re-saving a stage overwrites the cache entry (the current
	// pointer), not history.
	completed map[types.Stage]string
}

// NewAccumulator returns an Accumulator reading prior sections from source.
func NewAccumulator(source SectionSource) *Accumulator {
	return &Accumulator{
		source:    source,
		completed: make(map[types.Stage]string),
	}
}

// RegisterCompletion records that a stage was completed with the given
// content. Within a session this is append-only; a later registration of
// the same stage moves the current pointer.
func (a *Accumulator) RegisterCompletion(stage types.Stage, content string) {
	a.completed[stage] = content
}

// completedStages returns the stages registered complete in this session,
// in fixed stage order.
func (a *Accumulator) completedStages() []types.Stage {
	var stages []types.Stage
	for _, stage := range types.StageOrder {
		if _, ok := a.completed[stage]; ok {
			stages = append(stages, stage)
		}
	}
	return stages
}

// BuildContext builds the cumulative antecedent-basis context for
// generating targetStage: the static instruction block, every completed
// non-skipped section strictly before targetStage in fixed order, and up to
// three claims truncated to 500 characters. A session with no prior
// sections yields instructions and claims only; that is valid, not an
// error. The context never includes targetStage or anything after it.
func (a *Accumulator) BuildContext(ctx context.Context, targetStage types.Stage, title string) (string, error) {
	var parts []string

	if title != "" {
		parts = append(parts, fmt.Sprintf("**TITLE OF INVENTION:** %s", title))
	}
	parts = append(parts, antecedentInstructions)

	sectionBlocks, err := a.priorSections(ctx, targetStage)
	if err != nil {
		return "", err
	}
	if len(sectionBlocks) > 0 {
		parts = append(parts, "\n**PREVIOUSLY WRITTEN SECTIONS (for context and antecedent basis):**\n")
		parts = append(parts, strings.Repeat("=", 60))
		parts = append(parts, sectionBlocks...)
	}

	claimBlock, err := a.claimsBlock(ctx)
	if err != nil {
		return "", err
	}
	if claimBlock != "" {
		parts = append(parts, claimBlock)
	}

	if instruction, ok := stageInstructions[targetStage]; ok {
		parts = append(parts, "", instruction)
	}

	return strings.Join(parts, "\n"), nil
}

// priorSections returns one labeled block per completed, non-skipped stage
// strictly before targetStage in fixed order.
func (a *Accumulator) priorSections(ctx context.Context, targetStage types.Stage) ([]string, error) {
	targetIdx := types.StageIndex(targetStage)

	var blocks []string
	for i, stage := range types.StageOrder {
		if targetIdx >= 0 && i >= targetIdx {
			break
		}

		content, ok, err := a.stageContent(ctx, stage)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		blocks = append(blocks,
			fmt.Sprintf("\n### %s Section ###", stageName(stage)),
			content,
			strings.Repeat("-", 40),
		)
	}
	return blocks, nil
}

// stageName renders a stage identifier as a display name, e.g.
// "technical_problems" -> "Technical Problems".
func stageName(stage types.Stage) string {
	words := strings.Split(string(stage), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// stageContent reads a stage's current content, preferring the store and
// falling back to the session cache.
func (a *Accumulator) stageContent(ctx context.Context, stage types.Stage) (string, bool, error) {
	section, err := a.source.GetSection(ctx, types.StageSection(stage))
	if err != nil {
		return "", false, fmt.Errorf("loading context for %s: %w", stage, err)
	}
	if section != nil {
		if section.Skipped {
			return "", false, nil
		}
		return section.Content(), true, nil
	}
	if content, ok := a.completed[stage]; ok {
		return content, true, nil
	}
	return "", false, nil
}

func (a *Accumulator) claimsBlock(ctx context.Context) (string, error) {
	claimList, err := a.source.Claims(ctx)
	if err != nil {
		return "", fmt.Errorf("loading claims for context: %w", err)
	}
	if len(claimList) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("\n**PATENT CLAIMS (for reference):**")
	for i, claim := range claimList {
		if i >= maxContextClaims {
			break
		}
		text := claim.Text
		if runes := []rune(text); len(runes) > claimTruncateLen {
			text = string(runes[:claimTruncateLen]) + "..."
		}
		fmt.Fprintf(&b, "\n\nClaim %d: %s", claim.Number, text)
	}
	return b.String(), nil
}

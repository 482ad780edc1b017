// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the drafting session through the ten fixed
// stages: the unlock/complete/skip state machine and the session-scoped
// operations gated by it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// StageLockedError rejects an operation on a stage whose predecessor has
// not been satisfied. The engine enforces this as a precondition; callers
// never reach generation or persistence for a locked stage.
type StageLockedError struct {
	Stage types.Stage
}

func (e *StageLockedError) Error() string {
	return fmt.Sprintf("stage %s is locked: complete the preceding stage first", e.Stage)
}

// skippableStages may record a skipped terminal state instead of completed.
var skippableStages = map[types.Stage]bool{
	types.StageSummary:  true,
	types.StageDrawings: true,
}

// Skippable reports whether a stage supports the skipped terminal state.
func Skippable(stage types.Stage) bool {
	return skippableStages[stage]
}

type stageState struct {
	unlocked  bool
	completed bool
	skipped   bool
}

// Graph is the fixed ten-stage dependency state machine. Stage states are
// monotonic: once unlocked a stage is never re-locked, and a completed
// stage is never reverted (resetting is an explicit new session, not an
// automatic action).
type Graph struct {
	states map[types.Stage]*stageState
}

// NewGraph returns the initial pipeline state: the root stage unlocked,
// everything else locked.
func NewGraph() *Graph {
	g := &Graph{states: make(map[types.Stage]*stageState, len(types.StageOrder))}
	for _, stage := range types.StageOrder {
		g.states[stage] = &stageState{}
	}
	g.states[types.StageOrder[0]].unlocked = true
	return g
}

// RestoreGraph rebuilds pipeline state from the store: every stage with a
// saved section (completed or skipped) is satisfied and unlocks its
// successor. This is how a CLI invocation resumes a session.
func RestoreGraph(ctx context.Context, source SectionSource) (*Graph, error) {
	g := NewGraph()
	for _, stage := range types.StageOrder {
		section, err := source.GetSection(ctx, types.StageSection(stage))
		if err != nil {
			return nil, fmt.Errorf("restoring pipeline state: %w", err)
		}
		if section == nil {
			break // dependency chain: nothing after the first unsaved stage
		}
		if section.Skipped {
			g.states[stage].skipped = true
		} else {
			g.states[stage].completed = true
		}
		g.UnlockNext(stage)
	}
	return g, nil
}

// IsUnlocked reports whether a stage may be operated on.
func (g *Graph) IsUnlocked(stage types.Stage) bool {
	s, ok := g.states[stage]
	return ok && s.unlocked
}

// IsComplete reports whether a stage has been completed (not skipped).
func (g *Graph) IsComplete(stage types.Stage) bool {
	s, ok := g.states[stage]
	return ok && s.completed
}

// IsSkipped reports whether a stage was skipped.
func (g *Graph) IsSkipped(stage types.Stage) bool {
	s, ok := g.states[stage]
	return ok && s.skipped
}

// Satisfied reports whether a stage counts as done for unlock purposes:
// completed, or skipped where allowed.
func (g *Graph) Satisfied(stage types.Stage) bool {
	s, ok := g.states[stage]
	return ok && (s.completed || s.skipped)
}

// RequireUnlocked returns a *StageLockedError when the stage is locked.
func (g *Graph) RequireUnlocked(stage types.Stage) error {
	if !g.IsUnlocked(stage) {
		return &StageLockedError{Stage: stage}
	}
	return nil
}

// MarkCompleted records a stage as completed. The stage must be unlocked.
// Completion is monotonic; marking an already-completed stage is a no-op.
func (g *Graph) MarkCompleted(stage types.Stage) error {
	if err := g.RequireUnlocked(stage); err != nil {
		return err
	}
	g.states[stage].completed = true
	return nil
}

// MarkSkipped records a stage as skipped, an alternate terminal state only
// the skippable stages support. The stage must be unlocked.
func (g *Graph) MarkSkipped(stage types.Stage) error {
	if err := g.RequireUnlocked(stage); err != nil {
		return err
	}
	if !Skippable(stage) {
		return fmt.Errorf("stage %s cannot be skipped", stage)
	}
	g.states[stage].skipped = true
	return nil
}

// UnlockNext unlocks the stage immediately following current in the fixed
// order. Idempotent; returns the unlocked stage, or false when current is
// the last stage or not a fixed stage.
func (g *Graph) UnlockNext(current types.Stage) (types.Stage, bool) {
	idx := types.StageIndex(current)
	if idx < 0 || idx >= len(types.StageOrder)-1 {
		return "", false
	}
	next := types.StageOrder[idx+1]
	g.states[next].unlocked = true
	return next, true
}

// Status summarizes one stage's state for display.
type Status struct {
	Stage     types.Stage `json:"stage" yaml:"stage"`
	Unlocked  bool        `json:"unlocked" yaml:"unlocked"`
	Completed bool        `json:"completed" yaml:"completed"`
	Skipped   bool        `json:"skipped" yaml:"skipped"`
}

// StatusReport returns the state of every stage in fixed order.
func (g *Graph) StatusReport() []Status {
	report := make([]Status, 0, len(types.StageOrder))
	for _, stage := range types.StageOrder {
		s := g.states[stage]
		report = append(report, Status{
			Stage:     stage,
			Unlocked:  s.unlocked,
			Completed: s.completed,
			Skipped:   s.skipped,
		})
	}
	return report
}

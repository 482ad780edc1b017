// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

func TestNewGraphInitialState(t *testing.T) {
	g := NewGraph()

	if !g.IsUnlocked(types.StageBackground) {
		t.Error("background must start unlocked")
	}
	for _, stage := range types.StageOrder[1:] {
		if g.IsUnlocked(stage) {
			t.Errorf("stage %s unlocked at start", stage)
		}
	}
}

func TestRequireUnlockedReturnsTypedError(t *testing.T) {
	g := NewGraph()

	err := g.RequireUnlocked(types.StageSummary)
	var locked *StageLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v, want *StageLockedError", err)
	}
	if locked.Stage != types.StageSummary {
		t.Errorf("locked stage = %s, want summary", locked.Stage)
	}
}

func TestCompleteUnlocksSuccessorOnly(t *testing.T) {
	g := NewGraph()

	if err := g.MarkCompleted(types.StageBackground); err != nil {
		t.Fatal(err)
	}
	next, ok := g.UnlockNext(types.StageBackground)
	if !ok || next != types.StageSummary {
		t.Fatalf("UnlockNext = (%s, %v), want (summary, true)", next, ok)
	}

	if !g.IsUnlocked(types.StageSummary) {
		t.Error("summary not unlocked after background completed")
	}
	if g.IsUnlocked(types.StageDrawings) {
		t.Error("drawings unlocked early")
	}
}

func TestMarkCompletedLockedStageFails(t *testing.T) {
	g := NewGraph()

	if err := g.MarkCompleted(types.StageDrawings); err == nil {
		t.Error("completing a locked stage must fail")
	}
	if g.IsComplete(types.StageDrawings) {
		t.Error("locked stage recorded as complete")
	}
}

func TestSkipOnlyWhereAllowed(t *testing.T) {
	g := NewGraph()
	g.MarkCompleted(types.StageBackground)
	g.UnlockNext(types.StageBackground)

	if err := g.MarkSkipped(types.StageSummary); err != nil {
		t.Errorf("skipping summary: %v", err)
	}
	if !g.Satisfied(types.StageSummary) {
		t.Error("skipped stage must satisfy the unlock condition")
	}
	g.UnlockNext(types.StageSummary)

	if err := g.MarkSkipped(types.StageDrawings); err != nil {
		t.Errorf("skipping drawings: %v", err)
	}
	g.UnlockNext(types.StageDrawings)

	if err := g.MarkSkipped(types.StageTechnicalProblems); err == nil {
		t.Error("technical_problems must not be skippable")
	}
}

func TestSkipLockedStageFails(t *testing.T) {
	g := NewGraph()

	err := g.MarkSkipped(types.StageSummary)
	var locked *StageLockedError
	if !errors.As(err, &locked) {
		t.Errorf("err = %v, want *StageLockedError", err)
	}
}

func TestUnlockNextBoundaries(t *testing.T) {
	g := NewGraph()

	if _, ok := g.UnlockNext(types.StageScenarioDiagrams); ok {
		t.Error("last stage has no successor")
	}
	if _, ok := g.UnlockNext(types.Stage("bogus")); ok {
		t.Error("unknown stage has no successor")
	}

	// Idempotent.
	g.UnlockNext(types.StageBackground)
	g.UnlockNext(types.StageBackground)
	if !g.IsUnlocked(types.StageSummary) {
		t.Error("repeated unlock lost state")
	}
}

func TestFullPipelineWalk(t *testing.T) {
	g := NewGraph()

	for _, stage := range types.StageOrder {
		if err := g.RequireUnlocked(stage); err != nil {
			t.Fatalf("stage %s locked during ordered walk: %v", stage, err)
		}
		if err := g.MarkCompleted(stage); err != nil {
			t.Fatal(err)
		}
		g.UnlockNext(stage)
	}
	for _, stage := range types.StageOrder {
		if !g.IsComplete(stage) {
			t.Errorf("stage %s not complete after full walk", stage)
		}
	}
}

func TestRestoreGraph(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	// background completed, summary skipped; everything else untouched.
	store.saved[types.StageSection(types.StageBackground).Tag()] = &types.Section{
		Type:       types.StageSection(types.StageBackground),
		Paragraphs: []types.Paragraph{{Number: "[1]", Text: "Background content."}},
	}
	store.saved[types.StageSection(types.StageSummary).Tag()] = &types.Section{
		Type:    types.StageSection(types.StageSummary),
		Skipped: true,
	}

	g, err := RestoreGraph(ctx, store)
	if err != nil {
		t.Fatal(err)
	}

	if !g.IsComplete(types.StageBackground) {
		t.Error("background not restored as complete")
	}
	if !g.IsSkipped(types.StageSummary) {
		t.Error("summary not restored as skipped")
	}
	if !g.IsUnlocked(types.StageDrawings) {
		t.Error("drawings not unlocked after restored summary")
	}
	if g.IsUnlocked(types.StageTechnicalProblems) {
		t.Error("technical_problems unlocked without drawings satisfied")
	}
}

func TestStatusReportCoversAllStages(t *testing.T) {
	g := NewGraph()
	g.MarkCompleted(types.StageBackground)
	g.UnlockNext(types.StageBackground)

	report := g.StatusReport()
	if len(report) != len(types.StageOrder) {
		t.Fatalf("report covers %d stages, want %d", len(report), len(types.StageOrder))
	}
	if report[0].Stage != types.StageBackground || !report[0].Completed {
		t.Errorf("first entry = %+v", report[0])
	}
	if !report[1].Unlocked || report[1].Completed {
		t.Errorf("second entry = %+v", report[1])
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"log"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// Notifier receives completion pings after a section save commits. A
// notifier must not fail the save: implementations report delivery
// problems on their own (logging, metrics) and return nothing.
type Notifier interface {
	SectionSaved(ctx context.Context, stage types.Stage, sectionID int64, title string)
}

// LogNotifier announces completions on the standard logger.
type LogNotifier struct{}

func (LogNotifier) SectionSaved(_ context.Context, stage types.Stage, sectionID int64, title string) {
	log.Printf("section saved: stage=%s id=%d title=%q", stage, sectionID, title)
}

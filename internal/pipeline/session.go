// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/drafting-engine/internal/basis"
	"github.com/pdiddy/drafting-engine/internal/claims"
	"github.com/pdiddy/drafting-engine/internal/generate"
	"github.com/pdiddy/drafting-engine/internal/sections"
	"github.com/pdiddy/drafting-engine/internal/sequence"
	"github.com/pdiddy/drafting-engine/pkg/types"
)

// SectionSource is the store surface the pipeline reads from. The sections
// store satisfies it.
type SectionSource interface {
	GetSection(ctx context.Context, typ types.SectionType) (*types.Section, error)
	Claims(ctx context.Context) ([]types.Claim, error)
	IndependentClaim(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// SectionStore extends SectionSource with the write operations a session
// needs.
type SectionStore interface {
	SectionSource
	SaveSection(ctx context.Context, typ types.SectionType, title, query, content string, skipped bool, numbering sections.Numbering) (int64, error)
}

// Session drives one drafting run: it owns the stage graph, the
// antecedent-basis accumulator, and the external collaborators, and it
// enforces stage gating on every operation.
type Session struct {
	ID        string
	store     SectionStore
	graph     *Graph
	basis     *basis.Accumulator
	generator generate.Generator
	retriever generate.Retriever
	notifier  Notifier
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithRetriever attaches a context retriever. Without one, generation runs
// on the accumulated session context alone.
func WithRetriever(r generate.Retriever) SessionOption {
	return func(s *Session) { s.retriever = r }
}

// WithNotifier attaches a completion notifier.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

// NewSession builds a session over the store and generator, restoring
// stage state from previously saved sections.
func NewSession(ctx context.Context, store SectionStore, gen generate.Generator, opts ...SessionOption) (*Session, error) {
	graph, err := RestoreGraph(ctx, store)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		store:     store,
		graph:     graph,
		basis:     basis.NewAccumulator(store),
		generator: gen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Graph exposes the stage state machine for status reporting.
func (s *Session) Graph() *Graph { return s.graph }

// GenerateSection produces draft text for a stage. The stage must be
// unlocked; a locked stage fails before any generation or retrieval
// happens. The generated text is returned for review, not saved.
func (s *Session) GenerateSection(ctx context.Context, stage types.Stage, instructions, query string) (string, error) {
	if err := s.graph.RequireUnlocked(stage); err != nil {
		return "", err
	}

	title, err := s.store.Title(ctx)
	if err != nil {
		return "", fmt.Errorf("loading title: %w", err)
	}

	sessionContext, err := s.basis.BuildContext(ctx, stage, title)
	if err != nil {
		return "", err
	}

	system := instructions
	if sessionContext != "" {
		system = sessionContext + "\n\n" + instructions
	}

	user := query
	if s.retriever != nil && query != "" {
		snippets, err := s.retriever.Retrieve(ctx, query)
		if err != nil {
			return "", fmt.Errorf("retrieving context for %s: %w", stage, err)
		}
		user = fmt.Sprintf("Reference documents:\n\n%s\nRequest: %s", generate.FormatSnippets(snippets), query)
	}

	// The summary paraphrase restates claim 1, so the claim itself rides
	// along in the user message.
	if stage == types.StageSummaryParaphrase {
		claim, err := s.store.IndependentClaim(ctx)
		if err != nil {
			return "", fmt.Errorf("loading independent claim: %w", err)
		}
		if claim != "" {
			user = strings.TrimSpace("Independent claim to paraphrase:\n\n" + claim + "\n\n" + user)
		}
	}

	return s.generator.Generate(ctx, system, user)
}

// SaveSection persists content for a stage, advances the stage graph, and
// registers the content for antecedent-basis context. Saving a locked
// stage fails without writing. Notification failures never surface; the
// save has already committed.
func (s *Session) SaveSection(ctx context.Context, stage types.Stage, title, query, content string) (int64, error) {
	if err := s.graph.RequireUnlocked(stage); err != nil {
		return 0, err
	}

	// The summary paraphrase always ends with the two fixed closing
	// paragraphs; appending them here keeps callers from having to know.
	if stage == types.StageSummaryParaphrase && content != "" {
		content = ComposeSummaryParaphrase(content)
	}

	typ := types.StageSection(stage)
	id, err := s.store.SaveSection(ctx, typ, title, query, content, false, sections.StageNumbering(stage))
	if err != nil {
		return 0, err
	}

	if err := s.graph.MarkCompleted(stage); err != nil {
		return 0, err
	}
	s.graph.UnlockNext(stage)
	s.basis.RegisterCompletion(stage, content)

	if s.notifier != nil {
		s.notifier.SectionSaved(ctx, stage, id, title)
	}
	return id, nil
}

// SkipSection records a skipped terminal state for a skippable stage and
// unlocks its successor. A skipped stage persists an empty snapshot so a
// resumed session sees the same state.
func (s *Session) SkipSection(ctx context.Context, stage types.Stage, title string) error {
	if err := s.graph.RequireUnlocked(stage); err != nil {
		return err
	}
	if !Skippable(stage) {
		return fmt.Errorf("stage %s cannot be skipped", stage)
	}

	typ := types.StageSection(stage)
	if _, err := s.store.SaveSection(ctx, typ, title, "", "", true, sections.StageNumbering(stage)); err != nil {
		return err
	}

	if err := s.graph.MarkSkipped(stage); err != nil {
		return err
	}
	s.graph.UnlockNext(stage)
	return nil
}

// SaveDynamicSection persists a freeform "kind:key" section. Dynamic
// sections sit outside the stage graph: no gating, no unlock.
func (s *Session) SaveDynamicSection(ctx context.Context, kind, key, title, query, content string) (int64, error) {
	if kind == "" || key == "" || strings.Contains(kind, ":") {
		return 0, fmt.Errorf("invalid dynamic section %q:%q", kind, key)
	}
	typ := types.DynamicSection(kind, key)
	return s.store.SaveSection(ctx, typ, title, query, content, false, sections.NumberingSectionReset)
}

// SequencingResult carries a model-proposed feature ordering plus whatever
// degraded along the way: extraction warnings from claim parsing and parse
// issues from lines the model emitted outside the grammar.
type SequencingResult struct {
	List     *sequence.List
	Warnings []claims.Warning
	Issues   []sequence.ParseIssue
}

// SequenceClaims extracts features from the stored claims, asks the model
// to order them into an operational flow, and parses the response. The
// sequencing stage must be unlocked. Unparseable claims degrade to
// warnings; unparseable response lines degrade to issues; only a missing
// sequenced block is an error.
func (s *Session) SequenceClaims(ctx context.Context, instructions string) (*SequencingResult, error) {
	if err := s.graph.RequireUnlocked(types.StageSequencing); err != nil {
		return nil, err
	}

	claimList, err := s.store.Claims(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading claims: %w", err)
	}
	if len(claimList) == 0 {
		return nil, fmt.Errorf("no claims stored: import a claims document first")
	}

	features, warnings := claims.ExtractFeatures(claimList)
	if len(features) == 0 {
		return nil, fmt.Errorf("no features extracted from %d claims", len(claimList))
	}

	entries := make([]sequence.Entry, len(features))
	for i, f := range features {
		entries[i] = sequence.Entry{ID: f.ID, Text: f.ConvertedText}
	}
	user := sequence.RenderExtractedBlock(entries)
	output, err := s.generator.Generate(ctx, instructions, user)
	if err != nil {
		return nil, err
	}

	parsed, err := sequence.Parse(output)
	if err != nil {
		return nil, err
	}

	return &SequencingResult{
		List:     sequence.NewList(parsed.Entries),
		Warnings: warnings,
		Issues:   parsed.Issues,
	}, nil
}

// SaveSequencing persists the current order of the list as the sequencing
// stage content and advances the graph. The saved content records whether
// the user reordered the model's proposal.
func (s *Session) SaveSequencing(ctx context.Context, title string, list *sequence.List) (int64, error) {
	content := sequence.RenderSavedContent(list.CurrentOrder(), list.CustomOrderModified())
	return s.SaveSection(ctx, types.StageSequencing, title, "", content)
}

// ImportClaimsDocument parses a claims document, persists the claims and
// title, and returns the parse result. Importing replaces any previously
// stored claims.
func (s *Session) ImportClaimsDocument(ctx context.Context, text, sourceName string) (*claims.Document, error) {
	doc, err := claims.ParseDocument(text)
	if err != nil {
		return nil, err
	}

	type claimsWriter interface {
		SaveClaims(ctx context.Context, claimList []types.Claim, source string) error
		SaveTitle(ctx context.Context, title, source string) error
	}
	writer, ok := s.store.(claimsWriter)
	if !ok {
		return nil, fmt.Errorf("store does not support claims import")
	}

	if err := writer.SaveClaims(ctx, doc.Claims, sourceName); err != nil {
		return nil, err
	}
	if doc.Title != claims.TitleNotFound {
		if err := writer.SaveTitle(ctx, doc.Title, sourceName); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ScaffoldDrawings builds the standard drawings section from the stored
// title and the scenario descriptions, ready to save under the drawings
// stage. The drawings stage must be unlocked.
func (s *Session) ScaffoldDrawings(ctx context.Context, scenarioDescriptions []string) (string, error) {
	if err := s.graph.RequireUnlocked(types.StageDrawings); err != nil {
		return "", err
	}

	title, err := s.store.Title(ctx)
	if err != nil {
		return "", fmt.Errorf("loading title: %w", err)
	}
	if title == "" {
		return "", fmt.Errorf("no title stored: import a claims document first")
	}
	return BuildDrawingsSection(title, scenarioDescriptions), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate defines the external collaborator contracts the pipeline
// depends on: a text generator and a context retriever. Both are narrow
// interfaces so tests can supply mocks and deployments can swap providers.
package generate

import (
	"context"
	"fmt"
)

// Generator produces section text from system instructions and a user
// message. Calls are blocking with no automatic retry: a failure is
// reported to the caller and the requesting stage stays in its pre-call
// state.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GenerationError wraps a failed generation call. TimedOut distinguishes
// the explicit request timeout from other failures; both are recoverable by
// re-issuing the call.
type GenerationError struct {
	Err      error
	TimedOut bool
}

func (e *GenerationError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("generation timed out: %v", e.Err)
	}
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Snippet is one ranked text fragment returned by the context retriever.
// The pipeline treats it as opaque context, concatenated verbatim.
type Snippet struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Retriever returns ranked text snippets for a query string.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Snippet, error)
}

// FormatSnippets renders snippets in the form the generation prompts
// expect: "Document N:" headers followed by the verbatim text. An empty
// result renders as an explicit no-documents marker rather than an empty
// string.
func FormatSnippets(snippets []Snippet) string {
	if len(snippets) == 0 {
		return "No relevant documents found."
	}
	out := ""
	for i, s := range snippets {
		out += fmt.Sprintf("Document %d:\n%s\n\n", i+1, s.Text)
	}
	return out
}

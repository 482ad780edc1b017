// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// --- snippet formatting ---

func TestFormatSnippets(t *testing.T) {
	snippets := []Snippet{
		{Text: "First snippet.", Score: 0.9},
		{Text: "Second snippet.", Score: 0.7},
	}

	out := FormatSnippets(snippets)
	if !strings.Contains(out, "Document 1:\nFirst snippet.") {
		t.Errorf("missing first document: %q", out)
	}
	if !strings.Contains(out, "Document 2:\nSecond snippet.") {
		t.Errorf("missing second document: %q", out)
	}
}

func TestFormatSnippetsEmpty(t *testing.T) {
	if got := FormatSnippets(nil); got != "No relevant documents found." {
		t.Errorf("FormatSnippets(nil) = %q", got)
	}
}

// --- generation errors ---

func TestGenerationErrorMessages(t *testing.T) {
	base := errors.New("connection refused")

	plain := &GenerationError{Err: base}
	if !strings.Contains(plain.Error(), "generation failed") {
		t.Errorf("plain error = %q", plain.Error())
	}
	timeout := &GenerationError{Err: base, TimedOut: true}
	if !strings.Contains(timeout.Error(), "timed out") {
		t.Errorf("timeout error = %q", timeout.Error())
	}
	if !errors.Is(plain, base) {
		t.Error("GenerationError must unwrap to its cause")
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(types.GenerationConfig{Model: "gpt-4o"}); err == nil {
		t.Error("expected error without an API key")
	}
	if _, err := NewOpenAIGenerator(types.GenerationConfig{Model: "gpt-4o", APIKey: "sk-test"}); err != nil {
		t.Errorf("unexpected error with key: %v", err)
	}
}

// --- HTTP retriever ---

func TestHTTPRetrieverRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPRetriever(types.RetrievalConfig{}); err == nil {
		t.Error("expected error without a base URL")
	}
}

func TestHTTPRetriever(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req struct {
			Query      string `json:"query"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Query != "cache coherence" {
			t.Errorf("query = %q", req.Query)
		}
		if req.MaxResults != 2 {
			t.Errorf("max_results = %d, want 2", req.MaxResults)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"snippets": []map[string]any{
				{"text": "First snippet.", "score": 0.9},
				{"text": "Second snippet.", "score": 0.5},
			},
		})
	}))
	defer server.Close()

	retriever, err := NewHTTPRetriever(types.RetrievalConfig{
		BaseURL:     server.URL,
		MaxSnippets: 2,
		UserAgent:   "drafting-engine/test",
	})
	if err != nil {
		t.Fatal(err)
	}

	snippets, err := retriever.Retrieve(context.Background(), "cache coherence")
	if err != nil {
		t.Fatal(err)
	}
	if len(snippets) != 2 {
		t.Fatalf("got %d snippets, want 2", len(snippets))
	}
	if snippets[0].Text != "First snippet." || snippets[0].Score != 0.9 {
		t.Errorf("first snippet = %+v", snippets[0])
	}
}

func TestHTTPRetrieverTruncatesToMaxSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"snippets": []map[string]any{
				{"text": "one"}, {"text": "two"}, {"text": "three"},
			},
		})
	}))
	defer server.Close()

	retriever, err := NewHTTPRetriever(types.RetrievalConfig{BaseURL: server.URL, MaxSnippets: 1})
	if err != nil {
		t.Fatal(err)
	}
	snippets, err := retriever.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(snippets) != 1 {
		t.Errorf("got %d snippets, want 1", len(snippets))
	}
}

func TestHTTPRetrieverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	retriever, err := NewHTTPRetriever(types.RetrievalConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = retriever.Retrieve(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error missing status: %v", err)
	}
}

// --- cached retriever ---

type countingRetriever struct {
	calls    int32
	snippets []Snippet
	err      error
}

func (c *countingRetriever) Retrieve(_ context.Context, _ string) ([]Snippet, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.err != nil {
		return nil, c.err
	}
	return c.snippets, nil
}

func TestCachedRetrieverServesFromCache(t *testing.T) {
	inner := &countingRetriever{snippets: []Snippet{{Text: "cached"}}}
	cached := NewCachedRetriever(inner, time.Minute)

	for i := 0; i < 3; i++ {
		snippets, err := cached.Retrieve(context.Background(), "same query")
		if err != nil {
			t.Fatal(err)
		}
		if len(snippets) != 1 || snippets[0].Text != "cached" {
			t.Errorf("snippets = %+v", snippets)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}

	if _, err := cached.Retrieve(context.Background(), "different query"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 after a distinct query", inner.calls)
	}
}

func TestCachedRetrieverDoesNotCacheFailures(t *testing.T) {
	inner := &countingRetriever{err: errors.New("unavailable")}
	cached := NewCachedRetriever(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.Retrieve(context.Background(), "q"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2; failures must not be cached", inner.calls)
	}
}

func TestNewCachedRetrieverZeroTTLReturnsInner(t *testing.T) {
	inner := &countingRetriever{}
	if got := NewCachedRetriever(inner, 0); got != Retriever(inner) {
		t.Error("zero TTL must return the inner retriever unchanged")
	}
}

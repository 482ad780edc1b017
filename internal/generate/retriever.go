// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/drafting-engine/internal/httputil"
	"github.com/pdiddy/drafting-engine/pkg/types"
)

const defaultMaxSnippets = 5

// HTTPRetriever queries a retrieval service over HTTP. The service contract
// is a POST of {"query": ..., "max_results": ...} answered with
// {"snippets": [{"text": ..., "score": ...}]}.
type HTTPRetriever struct {
	cfg    types.RetrievalConfig
	client *http.Client
}

// NewHTTPRetriever builds a retriever from config. A base URL is required.
func NewHTTPRetriever(cfg types.RetrievalConfig) (*HTTPRetriever, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("retrieval base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPRetriever{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type retrievalRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type retrievalResponse struct {
	Snippets []Snippet `json:"snippets"`
}

// Retrieve posts the query and decodes the ranked snippets. Rate limiting
// and transient unavailability are retried with backoff; other failures are
// returned to the caller.
func (r *HTTPRetriever) Retrieve(ctx context.Context, query string) ([]Snippet, error) {
	maxSnippets := r.cfg.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = defaultMaxSnippets
	}

	body, err := json.Marshal(retrievalRequest{Query: query, MaxResults: maxSnippets})
	if err != nil {
		return nil, fmt.Errorf("encoding retrieval request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("querying retrieval service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("retrieval service returned %d: %s", resp.StatusCode, data)
	}

	var decoded retrievalResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding retrieval response: %w", err)
	}

	if len(decoded.Snippets) > maxSnippets {
		decoded.Snippets = decoded.Snippets[:maxSnippets]
	}
	return decoded.Snippets, nil
}

// CachedRetriever memoizes snippet lookups per query for a TTL, sparing the
// retrieval service repeated identical queries within a session.
type CachedRetriever struct {
	inner Retriever
	cache *gocache.Cache
}

// NewCachedRetriever wraps inner with a TTL cache. A non-positive TTL
// returns inner unchanged.
func NewCachedRetriever(inner Retriever, ttl time.Duration) Retriever {
	if ttl <= 0 {
		return inner
	}
	return &CachedRetriever{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Retrieve serves from cache when the query was seen within the TTL.
// Failures are not cached.
func (c *CachedRetriever) Retrieve(ctx context.Context, query string) ([]Snippet, error) {
	if cached, ok := c.cache.Get(query); ok {
		return cached.([]Snippet), nil
	}

	snippets, err := c.inner.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Set(query, snippets, gocache.DefaultExpiration)
	return snippets, nil
}

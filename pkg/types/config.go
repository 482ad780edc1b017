// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the section store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// GenerationConfig holds settings for the text-generation collaborator.
type GenerationConfig struct {
	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (optional, for compatible servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds a single generation call. Expiry is surfaced as a
	// distinct recoverable error; there is no automatic retry.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxTokens limits the generated response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// RetrievalConfig holds settings for the context-retrieval collaborator.
type RetrievalConfig struct {
	// BaseURL is the retrieval service endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "drafting-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxSnippets limits the number of snippets per query (default 5).
	MaxSnippets int `json:"max_snippets" yaml:"max_snippets"`

	// CacheTTL is how long retrieved snippets are cached per query.
	// Zero disables caching.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// Config is the top-level configuration for a drafting session.
type Config struct {
	Store      StoreConfig      `json:"store" yaml:"store"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Retrieval  RetrievalConfig  `json:"retrieval" yaml:"retrieval"`
}

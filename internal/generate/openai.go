// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 4096
)

// OpenAIGenerator implements Generator against the OpenAI Chat Completions
// API (or a compatible endpoint via BaseURL).
type OpenAIGenerator struct {
	client *openai.Client
	cfg    types.GenerationConfig
}

// NewOpenAIGenerator builds a generator from config. An API key is
// required.
func NewOpenAIGenerator(cfg types.GenerationConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Generate issues one blocking chat completion bounded by the configured
// timeout. There is no retry; failures come back as *GenerationError, with
// TimedOut set when the deadline expired.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	timeout := g.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := g.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &GenerationError{
			Err:      err,
			TimedOut: errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded),
		}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("empty response from model %s", g.cfg.Model)}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

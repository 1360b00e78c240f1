// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides chat-completion clients for the language-model APIs
// used by context extraction and email composition.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Options carries per-call generation parameters.
type Options struct {
	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens bounds the completion length (default 1024).
	MaxTokens int
}

// Client produces a single text completion for a system persona and user
// prompt. Implementations are fallible and possibly slow; callers decide the
// retry policy.
type Client interface {
	Complete(ctx context.Context, system, prompt string, opts Options) (string, error)
}

// New creates a Client for the configured provider. The HTTP client is
// injected so callers control timeouts and tests can substitute transports.
func New(cfg types.AIConfig, httpClient *http.Client) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	switch cfg.Provider {
	case types.ProviderOpenAI:
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openAIClient{apiKey: cfg.APIKey, model: model, client: httpClient}, nil
	case types.ProviderClaude:
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &claudeClient{apiKey: cfg.APIKey, model: model, client: httpClient}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: openai, claude)", cfg.Provider)
	}
}

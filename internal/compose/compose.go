// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose produces the email variant bodies for a work record,
// either by filling fixed templates or by prompting a language model.
package compose

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/outreach-engine/internal/llm"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// ErrorSentinel is the literal body stored for a variant slot whose
// generative call failed after exhausting retries.
const ErrorSentinel = "[generation failed]"

// Composer generates one email body per variant slot. Both strategies apply
// the deterministic post-processing pass, so the returned body is always
// fully post-processed and safe to feed into a dependent reminder variant.
type Composer struct {
	client llm.Client
	log    zerolog.Logger
	cfg    types.ComposeConfig
}

// NewComposer creates a Composer. Zero config values fall back to defaults:
// templated strategy, 3 attempts, 2 s between attempts. The client may be
// nil for the templated strategy.
func NewComposer(client llm.Client, log zerolog.Logger, cfg types.ComposeConfig) *Composer {
	if cfg.Strategy == "" {
		cfg.Strategy = types.StrategyTemplated
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Composer{client: client, log: log, cfg: cfg}
}

// Compose produces the post-processed body for one variant slot. For
// reminder variants priorText must be the fully post-processed body of the
// predecessor variant. A generative failure after retries is returned as an
// error; the caller degrades the slot to ErrorSentinel.
func (c *Composer) Compose(ctx context.Context, record *types.WorkRecord, rctx types.ResearchContext, kind types.VariantKind, priorText, platformInfo string) (string, error) {
	switch c.cfg.Strategy {
	case types.StrategyTemplated:
		body, err := fillTemplate(kind, record, rctx, priorText)
		if err != nil {
			return "", err
		}
		return PostProcess(body), nil

	case types.StrategyGenerative:
		if c.client == nil {
			return "", fmt.Errorf("generative strategy requires a language-model client")
		}
		prompt, err := buildPrompt(kind, record, priorText, platformInfo)
		if err != nil {
			return "", err
		}
		body, err := c.callWithRetry(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("generating %s: %w", kind, err)
		}
		return PostProcess(body), nil
	}

	return "", fmt.Errorf("unknown compose strategy %q", c.cfg.Strategy)
}

// callWithRetry calls the model up to MaxAttempts times with a fixed delay
// between attempts.
func (c *Composer) callWithRetry(ctx context.Context, prompt string) (string, error) {
	opts := llm.Options{Temperature: c.cfg.Temperature, MaxTokens: c.cfg.MaxTokens}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		body, err := c.client.Complete(ctx, persona, prompt, opts)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("generative call failed")
	}
	return "", fmt.Errorf("after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "outreach-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the corpus fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Filter is the works-listing filter expression, passed through verbatim.
	Filter string `json:"filter" yaml:"filter"`

	// TargetCount is the number of work records to collect (default 50).
	TargetCount int `json:"target_count" yaml:"target_count"`

	// PerPage is the page size requested from the listing endpoint (default 25).
	PerPage int `json:"per_page" yaml:"per_page"`

	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// RequestsPerSecond caps the request rate against the corpus index
	// (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// AIProvider identifies the language-model API to call.
type AIProvider string

const (
	ProviderOpenAI AIProvider = "openai"
	ProviderClaude AIProvider = "claude"
)

// AIConfig holds shared settings for stages that call a language-model API.
type AIConfig struct {
	// Provider selects the API: openai or claude.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature passed with each call.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the length of each completion (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ComposeStrategy selects how email bodies are produced.
type ComposeStrategy string

const (
	// StrategyTemplated fills fixed templates from the extracted context.
	StrategyTemplated ComposeStrategy = "templated"

	// StrategyGenerative prompts the language model per variant.
	StrategyGenerative ComposeStrategy = "generative"
)

// ComposeConfig holds settings for the email composition stage.
type ComposeConfig struct {
	AIConfig `yaml:",inline"`

	// Strategy selects templated or generative composition.
	Strategy ComposeStrategy `json:"strategy" yaml:"strategy"`

	// MaxAttempts is the number of attempts for a generative call before the
	// slot degrades to the error sentinel (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RetryDelay is the fixed delay between generative attempts (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`
}

// StoreConfig holds settings for the run store.
type StoreConfig struct {
	// Path is the sqlite database file (default "data/outreach.db").
	Path string `json:"path" yaml:"path"`
}

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// Dir is the directory exported files are written to (default "exports").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Compose ComposeConfig `json:"compose" yaml:"compose"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}

// Package llm wraps the generative-model capability behind a small client
// interface. One call is one (instruction, question) pair in, one raw text
// response out: no retries, no backoff, no streaming. Provider faults
// propagate to the caller as plain errors.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Client is the minimal surface the pipeline needs from a model provider.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config selects and configures a provider. It is built once at process
// startup and injected into the client constructor; nothing mutates it
// mid-request.
type Config struct {
	Provider string        // "gemini" or "openai"
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration // zero means no client-side timeout
}

// NewClient creates a provider client from config.
func NewClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		gc := DefaultGeminiConfig(cfg.APIKey)
		if cfg.Model != "" {
			gc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			gc.BaseURL = cfg.BaseURL
		}
		gc.Timeout = cfg.Timeout
		return NewGeminiClientWithConfig(gc), nil

	case "openai":
		oc := DefaultOpenAIConfig(cfg.APIKey)
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		oc.Timeout = cfg.Timeout
		return NewOpenAIClientWithConfig(oc), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: gemini, openai)", cfg.Provider)
	}
}

// CleanSQL strips the markdown fencing and "sql" prefix echoes that models
// emit despite the prompt contract.
func CleanSQL(raw string) string {
	sql := strings.TrimSpace(raw)
	sql = strings.TrimPrefix(sql, "```sql")
	sql = strings.TrimPrefix(sql, "```SQL")
	sql = strings.TrimPrefix(sql, "```")
	sql = strings.TrimSuffix(sql, "```")
	return strings.TrimSpace(sql)
}

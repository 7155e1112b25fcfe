package adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/datasight/datasight-ai/internal/llm/provider/ollama"
	"github.com/datasight/datasight-ai/internal/llm/provider/openai"
	"github.com/datasight/datasight-ai/internal/llm/types"
)

// Package adapter provides a unified interface over text-completion
// providers.
//
// Design philosophy: BYO-LLM. The user brings an API key (or a local
// endpoint) and the service treats the provider as a black-box completion
// call. No bundled keys, no default vendor. With no provider configured the
// analysis engines still work; only routing delegation and narrative
// generation fall back to deterministic defaults.
//
// Supported providers:
//  1. openai: api.openai.com and any OpenAI-compatible endpoint via
//     base_url (Groq, vLLM, LocalAI, LM Studio)
//  2. ollama: local models, zero cost
//  3. none: explicitly run degraded

// Completer is the single capability the pipeline needs from a provider.
type Completer interface {
	// Complete sends a prompt and returns the completion text.
	Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error)
}

// ProviderType identifies which provider the user has configured.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderNone   ProviderType = "none"
)

// ErrProviderNotConfigured is returned when a completion is attempted
// without a configured provider.
var ErrProviderNotConfigured = fmt.Errorf("LLM provider not configured")

// Config holds provider configuration from user settings.
type Config struct {
	Provider ProviderType `json:"provider"`
	APIKey   string       `json:"api_key"`  // for openai-compatible providers
	BaseURL  string       `json:"base_url"` // for ollama / compatible endpoints
	Model    string       `json:"model"`
}

// New creates a Completer from user configuration. A nil config falls back
// to DATASIGHT_LLM_* environment variables. Provider "none" (or empty)
// returns nil with no error; callers must handle a nil Completer as the
// degraded mode.
func New(cfg *Config) (Completer, error) {
	if cfg == nil {
		cfg = &Config{
			Provider: ProviderType(os.Getenv("DATASIGHT_LLM_PROVIDER")),
			APIKey:   os.Getenv("DATASIGHT_LLM_API_KEY"),
			BaseURL:  os.Getenv("DATASIGHT_LLM_BASE_URL"),
			Model:    os.Getenv("DATASIGHT_LLM_MODEL"),
		}
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		client, err := openai.NewClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		return newMetered("openai", client.Model(), client), nil

	case ProviderOllama:
		client := ollama.NewClient(cfg.BaseURL, cfg.Model)
		return newMetered("ollama", client.Model(), client), nil

	case ProviderNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

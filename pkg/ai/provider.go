package ai

import (
	"context"
	"errors"
	"fmt"
)

// Provider defines the interface for text-generation backends.
type Provider interface {
	// Complete submits a prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai", "anthropic", "ollama").
	Name() string
}

// Common errors
var (
	// ErrProviderNotConfigured is returned when no provider is configured.
	ErrProviderNotConfigured = errors.New("AI provider not configured")

	// ErrAPIKeyMissing is returned when the API key is not set.
	ErrAPIKeyMissing = errors.New("API key is required")

	// ErrRateLimited is returned when the provider rate limits the request.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrInvalidResponse is returned when the provider response carries no usable text.
	ErrInvalidResponse = errors.New("invalid response from provider")
)

// ProviderError wraps errors from providers with additional context.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProvider creates a provider based on the configuration.
func NewProvider(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, ErrProviderNotConfigured
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderOllama:
		return NewOllamaProvider(cfg)
	case ProviderOpenRouter:
		// OpenRouter uses an OpenAI-compatible API with a different base URL.
		if cfg.Endpoint == "" {
			cfg.Endpoint = DefaultOpenRouterEndpoint
		}
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderNotConfigured, cfg.Provider)
	}
}

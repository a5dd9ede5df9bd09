// Package ai provides text-generation providers for apiprobe's test-data
// generation.
//
// A Provider accepts a prompt string and returns raw response text. Every
// provider failure (missing credentials, network errors, rate limits,
// malformed responses) is reported uniformly; the generation orchestrator
// treats any of them as "unavailable for this attempt" and falls back to
// local synthesis.
//
// # Supported Providers
//
//   - OpenAI (and OpenAI-compatible endpoints such as OpenRouter)
//   - Anthropic
//   - Ollama (local models)
//
// # Configuration
//
// Configuration is read from environment variables:
//   - APIPROBE_AI_PROVIDER: Provider name ("openai", "anthropic", "ollama")
//   - APIPROBE_AI_API_KEY: API key for the provider
//   - APIPROBE_AI_MODEL: Model name (e.g. "gpt-4o-mini")
//   - APIPROBE_AI_ENDPOINT: Custom endpoint URL (required for Ollama)
//
// # Usage
//
//	cfg := ai.ConfigFromEnv()
//	provider, err := ai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := provider.Complete(ctx, prompt)
package ai

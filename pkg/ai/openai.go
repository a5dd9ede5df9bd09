package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openAIDefaultEndpoint = "https://api.openai.com/v1"
	openAITimeout         = 30 * time.Second
)

// systemPrompt frames every request as a test-data generation task.
const systemPrompt = `You are a test-data generator for API testing. Given a description of an HTTP operation and its schemas, produce realistic, schema-conformant request data.

Rules:
1. Return ONLY a JSON object, no explanations or markdown formatting
2. Respect declared types, formats, enums, patterns and numeric bounds
3. Make values realistic and contextually appropriate for the field names
4. Use the requested locale for names, companies and cities
5. Never include placeholder text like "example" or "test" unless contextually appropriate`

// OpenAIProvider implements the Provider interface using OpenAI's API.
// It also supports OpenAI-compatible endpoints like OpenRouter.
type OpenAIProvider struct {
	apiKey       string
	model        string
	baseURL      string
	httpClient   *http.Client
	maxTokens    int
	temperature  float64
	extraHeaders map[string]string // Additional headers (e.g., OpenRouter attribution)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg *Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for OpenAI", ErrAPIKeyMissing)
	}

	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = openAIDefaultEndpoint
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	temperature := 0.7
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	p := &OpenAIProvider{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: openAITimeout,
		},
		maxTokens:   maxTokens,
		temperature: temperature,
	}

	// Add OpenRouter attribution headers when using their endpoint.
	if cfg.Provider == ProviderOpenRouter || strings.Contains(baseURL, "openrouter.ai") {
		p.extraHeaders = map[string]string{
			"X-Title": "apiprobe",
		}
	}

	return p, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Complete submits the prompt and returns the response text.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIChatRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  "API request failed",
			Cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		if chatResp.Error.Code == "rate_limit_exceeded" {
			return "", ErrRateLimited
		}
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  chatResp.Error.Message,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrInvalidResponse
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// openAIChatRequest represents the request to OpenAI chat completions API.
type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIChatResponse represents the response from OpenAI.
type openAIChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

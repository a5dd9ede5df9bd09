package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	cases := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"nil config", nil, true},
		{"unknown provider", &Config{Provider: "bogus"}, true},
		{"openai without key", &Config{Provider: ProviderOpenAI}, true},
		{"anthropic without key", &Config{Provider: ProviderAnthropic}, true},
		{"openai", &Config{Provider: ProviderOpenAI, APIKey: "sk-test"}, false},
		{"anthropic", &Config{Provider: ProviderAnthropic, APIKey: "sk-test"}, false},
		{"ollama needs no key", &Config{Provider: ProviderOllama}, false},
		{"openrouter", &Config{Provider: ProviderOpenRouter, APIKey: "sk-test"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProvider(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrProviderNotConfigured)

	err := (&Config{Provider: ProviderOpenAI}).Validate()
	assert.ErrorIs(t, err, ErrAPIKeyMissing)

	assert.NoError(t, (&Config{Provider: ProviderOllama, Endpoint: "http://localhost:11434"}).Validate())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvProvider, "anthropic")
	t.Setenv(EnvAPIKey, "sk-test")

	cfg := ConfigFromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, DefaultAnthropicModel, cfg.Model)

	t.Setenv(EnvProvider, "")
	assert.Nil(t, ConfigFromEnv())
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"id\": 1}"}}]}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(&Config{Provider: ProviderOpenAI, APIKey: "sk-test", Endpoint: server.URL})
	require.NoError(t, err)

	text, err := p.Complete(context.Background(), "generate something")
	require.NoError(t, err)
	assert.Equal(t, `{"id": 1}`, text)
}

func TestOpenAIComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(&Config{Provider: ProviderOpenAI, APIKey: "sk-test", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "generate")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestAnthropicComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"ok\": true}"}]}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(&Config{Provider: ProviderAnthropic, APIKey: "sk-test", Endpoint: server.URL})
	require.NoError(t, err)

	text, err := p.Complete(context.Background(), "generate")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
}

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"[1,2]"},"done":true}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&Config{Provider: ProviderOllama, Endpoint: server.URL})
	require.NoError(t, err)

	text, err := p.Complete(context.Background(), "generate")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", text)
}

func TestOllamaComplete_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&Config{Provider: ProviderOllama, Endpoint: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "generate")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ProviderOllama, provErr.Provider)
}

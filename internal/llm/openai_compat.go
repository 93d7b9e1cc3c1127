package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Chat completion endpoints for the OpenAI-compatible providers.
const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	googleURL     = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"
	openAIURL     = "https://api.openai.com/v1/chat/completions"
	deepSeekURL   = "https://api.deepseek.com/v1/chat/completions"
)

// OpenAICompatClient serves every provider speaking the OpenAI chat
// completion protocol with bearer authentication.
type OpenAICompatClient struct {
	name       string
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewOpenAICompatClient builds a client for one OpenAI-compatible provider.
func NewOpenAICompatClient(name, url, apiKey string, logger *logrus.Logger) *OpenAICompatClient {
	return &OpenAICompatClient{
		name:       name,
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Name returns the provider name.
func (c *OpenAICompatClient) Name() string { return c.name }

// Complete sends a single-turn chat completion and decodes the response
// as-is; OpenAI-compatible providers already use the common shape.
func (c *OpenAICompatClient) Complete(ctx context.Context, prompt, modelID string) (*CompletionData, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	payload := chatRequest{
		Model:    modelID,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	body, latency, err := postJSON(ctx, c.httpClient, c.name, c.url, headers, payload)
	if err != nil {
		return nil, 0, err
	}

	var data CompletionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, 0, &TransportError{Provider: c.name, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"provider":   c.name,
		"model":      modelID,
		"latency_ms": latency,
	}).Debug("Completion finished")
	return &data, latency, nil
}

// NewProviderClient builds the client for a resolved provider name.
func NewProviderClient(provider, apiKey string, logger *logrus.Logger) (ProviderClient, error) {
	switch ResolveProvider(provider) {
	case "anthropic":
		return NewAnthropicClient(apiKey, logger), nil
	case "google":
		return NewOpenAICompatClient("google", googleURL, apiKey, logger), nil
	case "openai":
		return NewOpenAICompatClient("openai", openAIURL, apiKey, logger), nil
	case "deepseek":
		return NewOpenAICompatClient("deepseek", deepSeekURL, apiKey, logger), nil
	case "openrouter":
		return NewOpenAICompatClient("openrouter", openRouterURL, apiKey, logger), nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", provider)
}

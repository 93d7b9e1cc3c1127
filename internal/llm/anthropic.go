package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	anthropicURL       = "https://api.anthropic.com/v1/messages"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 8096
)

// AnthropicClient speaks the Anthropic messages API and normalises its
// responses into the common completion shape.
type AnthropicClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewAnthropicClient builds a client for the Anthropic API.
func NewAnthropicClient(apiKey string, logger *logrus.Logger) *AnthropicClient {
	return &AnthropicClient{
		url:        anthropicURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a single-turn message. The messages API requires an
// explicit max_tokens and authenticates via x-api-key rather than a bearer
// token.
func (c *AnthropicClient) Complete(ctx context.Context, prompt, modelID string) (*CompletionData, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	payload := anthropicRequest{
		Model:     modelID,
		MaxTokens: anthropicMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	body, latency, err := postJSON(ctx, c.httpClient, c.Name(), c.url, headers, payload)
	if err != nil {
		return nil, 0, err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, &TransportError{Provider: c.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()

	data := &CompletionData{
		Choices: []CompletionChoice{{Message: CompletionMessage{Content: &text}}},
		Usage: CompletionUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
		},
	}

	c.logger.WithFields(logrus.Fields{
		"provider":   c.Name(),
		"model":      modelID,
		"latency_ms": latency,
	}).Debug("Completion finished")
	return data, latency, nil
}

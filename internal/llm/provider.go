package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// completionTimeout bounds one provider round trip, enforced through
	// context cancellation.
	completionTimeout = 30 * time.Second

	// maxErrorBody caps how much of a provider error body is kept.
	maxErrorBody = 2048
)

// ProviderClient sends a single-turn completion to one provider.
type ProviderClient interface {
	// Name returns the provider name for logs and errors.
	Name() string
	// Complete sends prompt to the given model and returns the normalised
	// response plus wall-clock latency in milliseconds.
	Complete(ctx context.Context, prompt, modelID string) (*CompletionData, int64, error)
}

// CompletionData is the normalised provider response shape shared by every
// client: OpenAI-compatible responses decode into it directly, others are
// converted.
type CompletionData struct {
	Choices []CompletionChoice `json:"choices"`
	Usage   CompletionUsage    `json:"usage"`
}

// CompletionChoice is one generated alternative.
type CompletionChoice struct {
	Message CompletionMessage `json:"message"`
}

// CompletionMessage carries the generated text. Content is a pointer so a
// JSON null from the provider survives decoding.
type CompletionMessage struct {
	Content *string `json:"content"`
}

// CompletionUsage reports provider-side token accounting.
type CompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// postJSON sends one JSON request and returns the raw response body and the
// latency measured from just before the send until the body is fully read.
// Failures are classified into the retryable error kinds.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload interface{}) ([]byte, int64, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, classifyTransport(provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, 0, classifyTransport(provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, &ProviderError{
			Provider: provider,
			Status:   resp.StatusCode,
			Body:     truncate(string(body), maxErrorBody),
		}
	}
	return body, latency, nil
}

func classifyTransport(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{Provider: provider, Err: err}
	}
	return &TransportError{Provider: provider, Err: err}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

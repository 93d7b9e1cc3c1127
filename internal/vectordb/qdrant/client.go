package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// Client talks to Qdrant over its REST API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logrus.Logger

	mu        sync.RWMutex
	connected bool
}

// RequestError is returned for non-2xx responses from Qdrant.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("qdrant request failed with status %d: %s", e.Status, e.Body)
}

// Point is a single vector with its payload.
type Point struct {
	ID      uint64                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ScoredPoint is one search hit.
type ScoredPoint struct {
	ID      uint64                 `json:"id"`
	Score   float32                `json:"score"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewClient builds a Qdrant client. Call Connect before issuing operations.
func NewClient(config Config, logger *logrus.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// Connect verifies the instance is reachable and marks the client usable.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/collections", nil); err != nil {
		return fmt.Errorf("failed to connect to qdrant at %s: %w", c.config.BaseURL, err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.logger.WithField("url", c.config.BaseURL).Info("Connected to Qdrant")
	return nil
}

// IsConnected reports whether Connect has succeeded.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) checkConnected() error {
	if !c.IsConnected() {
		return errors.New("qdrant client is not connected")
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("api-key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &RequestError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// CollectionExists reports whether the named collection is present.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	if err := c.checkConnected(); err != nil {
		return false, err
	}
	_, err := c.doRequest(ctx, http.MethodGet, "/collections/"+name, nil)
	if err == nil {
		return true, nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

// EnsureCollection creates the collection with the given vector dimension and
// cosine distance if it does not already exist.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimension int) error {
	exists, err := c.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}

	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if _, err := c.doRequest(ctx, http.MethodPut, "/collections/"+name, body); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}

	c.logger.WithFields(logrus.Fields{
		"collection": name,
		"dimension":  dimension,
	}).Info("Created Qdrant collection")
	return nil
}

// UpsertPoints writes points into the collection, waiting for them to become
// visible to subsequent searches.
func (c *Client) UpsertPoints(ctx context.Context, collection string, points []Point) error {
	if err := c.checkConnected(); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	body := map[string]interface{}{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	if _, err := c.doRequest(ctx, http.MethodPut, path, body); err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Search returns the nearest points to the query vector.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, opts SearchOptions) ([]ScoredPoint, error) {
	if err := c.checkConnected(); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	body := map[string]interface{}{
		"vector":       vector,
		"limit":        opts.Limit,
		"with_payload": opts.WithPayload,
	}
	respBody, err := c.doRequest(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", collection, err)
	}

	var resp struct {
		Result []ScoredPoint `json:"result"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return resp.Result, nil
}

// CountPoints returns the exact number of points in the collection.
func (c *Client) CountPoints(ctx context.Context, collection string) (uint64, error) {
	if err := c.checkConnected(); err != nil {
		return 0, err
	}

	body := map[string]interface{}{"exact": true}
	respBody, err := c.doRequest(ctx, http.MethodPost, "/collections/"+collection+"/points/count", body)
	if err != nil {
		return 0, fmt.Errorf("failed to count points in %s: %w", collection, err)
	}

	var resp struct {
		Result struct {
			Count uint64 `json:"count"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return resp.Result.Count, nil
}

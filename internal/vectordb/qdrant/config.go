package qdrant

import "time"

// Config holds connection settings for a Qdrant instance.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns settings for a local unauthenticated Qdrant.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:6333",
		Timeout: 10 * time.Second,
	}
}

// SearchOptions tunes a single similarity search.
type SearchOptions struct {
	Limit       int
	WithPayload bool
}

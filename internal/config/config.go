package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Redis     RedisConfig
	Qdrant    QdrantConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Logging   LoggingConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig selects the provider and its credentials.
type LLMConfig struct {
	Provider         string
	APIKeys          map[string]string
	ModelsConfigPath string
}

// APIKeyFor returns the configured key for a provider, or empty.
func (c LLMConfig) APIKeyFor(provider string) string {
	return c.APIKeys[provider]
}

// RedisConfig locates the classification cache.
type RedisConfig struct {
	URL     string
	Timeout time.Duration
}

// QdrantConfig locates the vector store.
type QdrantConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// DatabaseConfig locates the audit database. An empty URL disables
// persistence and audit entries stay in memory.
type DatabaseConfig struct {
	URL string
}

// EmbeddingConfig describes the local embedding runtime.
type EmbeddingConfig struct {
	ModelName string
	CacheDir  string
	Dimension int
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from environment variables, applying
// defaults for everything optional.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "openrouter"),
			APIKeys: map[string]string{
				"openrouter": getEnv("OPENROUTER_API_KEY", ""),
				"google":     getEnv("GOOGLE_API_KEY", ""),
				"anthropic":  getEnv("ANTHROPIC_API_KEY", ""),
				"openai":     getEnv("OPENAI_API_KEY", ""),
				"deepseek":   getEnv("DEEPSEEK_API_KEY", ""),
			},
			ModelsConfigPath: getEnv("MODELS_CONFIG_PATH", ""),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", "redis://localhost:6379"),
			Timeout: getDurationEnv("REDIS_TIMEOUT", 5*time.Second),
		},
		Qdrant: QdrantConfig{
			URL:     getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:  getEnv("QDRANT_API_KEY", ""),
			Timeout: getDurationEnv("QDRANT_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Embedding: EmbeddingConfig{
			ModelName: getEnv("HF_MODEL_NAME", "sentence-transformers/all-MiniLM-L6-v2"),
			CacheDir:  getEnv("MODELS_CACHE_DIR", ".models"),
			Dimension: getIntEnv("EMBEDDING_DIM", 384),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate checks the settings that have no workable default.
func (c *Config) Validate(activeProvider string) error {
	if c.LLM.APIKeyFor(activeProvider) == "" {
		return fmt.Errorf("no API key configured for provider %s", activeProvider)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.prompt.router/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LLM_PROVIDER", "OPENROUTER_API_KEY",
		"REDIS_URL", "QDRANT_URL", "DATABASE_URL",
		"HF_MODEL_NAME", "MODELS_CACHE_DIR", "EMBEDDING_DIM", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Embedding.ModelName)
	assert.Equal(t, ".models", cfg.Embedding.CacheDir)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("EMBEDDING_DIM", "512")
	t.Setenv("REDIS_TIMEOUT", "2s")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKeyFor("anthropic"))
	assert.Equal(t, 512, cfg.Embedding.Dimension)
	assert.Equal(t, 2*time.Second, cfg.Redis.Timeout)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "not-a-number")
	cfg := Load()
	assert.Equal(t, 384, cfg.Embedding.Dimension)
}

func TestValidate_RequiresActiveProviderKey(t *testing.T) {
	cfg := &Config{
		LLM:       LLMConfig{APIKeys: map[string]string{"openrouter": ""}},
		Embedding: EmbeddingConfig{Dimension: 384},
	}
	assert.Error(t, cfg.Validate("openrouter"))

	cfg.LLM.APIKeys["openrouter"] = "sk-or-test"
	assert.NoError(t, cfg.Validate("openrouter"))
}

func TestLoadModelsFile_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `
provider: openrouter
models:
  - id: custom/model-x
    displayName: Model X
    tier: general
    costPer1MInput: 0.5
    costPer1MOutput: 1.5
    contextWindow: 32000
    supportsSensitive: true
    latencyTier: fast
    qualityScore:
      simple: 8
      code: 6
      reasoning: 5
      data_analysis: 6
      creative: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mf, err := LoadModelsFile(path)
	require.NoError(t, err)

	assert.Equal(t, "openrouter", mf.Provider)
	require.Len(t, mf.Models, 1)
	m := mf.Models[0]
	assert.Equal(t, "custom/model-x", m.ID)
	assert.Equal(t, models.LatencyFast, m.LatencyTier)
	assert.True(t, m.SupportsSensitive)
	assert.Equal(t, 8.0, m.QualityScore[models.CategorySimple])
}

func TestLoadModelsFile_MissingFile(t *testing.T) {
	_, err := LoadModelsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadModelsFile_RejectsIncompleteProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `
provider: openrouter
models:
  - id: broken/model
    latencyTier: fast
    contextWindow: 1000
    qualityScore:
      simple: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadModelsFile(path)
	assert.Error(t, err)
}

func TestLoadModelsFile_RejectsEmptyModelList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\nmodels: []\n"), 0o644))

	_, err := LoadModelsFile(path)
	assert.Error(t, err)
}

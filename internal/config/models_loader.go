package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dev.prompt.router/internal/models"
)

// ModelsFile is an optional YAML catalogue that replaces the built-in model
// list for a provider.
type ModelsFile struct {
	Provider string                `yaml:"provider"`
	Models   []models.ModelProfile `yaml:"models"`
}

// LoadModelsFile reads and validates a catalogue file.
func LoadModelsFile(path string) (*ModelsFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("models file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read models file: %w", err)
	}

	var mf ModelsFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse models file: %w", err)
	}

	if mf.Provider == "" {
		return nil, fmt.Errorf("models file %s has no provider", path)
	}
	if len(mf.Models) == 0 {
		return nil, fmt.Errorf("models file %s lists no models", path)
	}
	for i := range mf.Models {
		if err := mf.Models[i].Validate(); err != nil {
			return nil, fmt.Errorf("models file %s entry %d: %w", path, i+1, err)
		}
	}
	return &mf, nil
}

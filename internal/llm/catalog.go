package llm

import (
	"fmt"

	"dev.prompt.router/internal/models"
)

// Catalog is the static model catalogue for one provider. It never changes
// after construction.
type Catalog struct {
	provider string
	models   []models.ModelProfile
}

// NewCatalog validates every profile and builds the catalogue.
func NewCatalog(provider string, profiles []models.ModelProfile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("catalogue for provider %s has no models", provider)
	}
	seen := make(map[string]bool, len(profiles))
	for i := range profiles {
		if err := profiles[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid profile %q: %w", profiles[i].ID, err)
		}
		if seen[profiles[i].ID] {
			return nil, fmt.Errorf("duplicate model id %q in catalogue", profiles[i].ID)
		}
		seen[profiles[i].ID] = true
	}
	owned := make([]models.ModelProfile, len(profiles))
	copy(owned, profiles)
	return &Catalog{provider: provider, models: owned}, nil
}

// Provider returns the provider name the catalogue belongs to.
func (c *Catalog) Provider() string {
	return c.provider
}

// GetAll returns every registered model.
func (c *Catalog) GetAll() []models.ModelProfile {
	out := make([]models.ModelProfile, len(c.models))
	copy(out, c.models)
	return out
}

// Find resolves a model id against the catalogue.
func (c *Catalog) Find(id string) (models.ModelProfile, bool) {
	for _, m := range c.models {
		if m.ID == id {
			return m, true
		}
	}
	return models.ModelProfile{}, false
}

// GetCandidates filters the catalogue. A model is kept iff it supports the
// required sensitivity, its context window is at least minContextWindow, and
// its input cost does not exceed maxCostPer1M when that cap is set.
func (c *Catalog) GetCandidates(sensitivity models.PrivacySensitivity, minContextWindow int, maxCostPer1M *float64) []models.ModelProfile {
	candidates := make([]models.ModelProfile, 0, len(c.models))
	for _, m := range c.models {
		if sensitivity.RequiresPrivate() && !m.SupportsSensitive {
			continue
		}
		if m.ContextWindow < minContextWindow {
			continue
		}
		if maxCostPer1M != nil && m.CostPer1MInput > *maxCostPer1M {
			continue
		}
		candidates = append(candidates, m)
	}
	return candidates
}

package llm

import (
	"math"
	"sort"

	"dev.prompt.router/internal/models"
)

// Strategy ranks candidate models for a category.
type Strategy interface {
	Name() models.RoutingStrategy
	Select(candidates []models.ModelProfile, category models.TaskCategory) []models.ModelProfile
}

type strategyWeights struct {
	quality float64
	cost    float64
	latency float64
}

type weightedStrategy struct {
	name    models.RoutingStrategy
	weights strategyWeights
}

// StrategyFor returns the strategy implementation for a name. Unknown or
// empty names fall back to balanced.
func StrategyFor(name models.RoutingStrategy) Strategy {
	switch name {
	case models.StrategyCostFirst:
		return &weightedStrategy{name: name, weights: strategyWeights{quality: 0.2, cost: 0.7, latency: 0.1}}
	case models.StrategyQualityFirst:
		return &weightedStrategy{name: name, weights: strategyWeights{quality: 0.8, cost: 0.1, latency: 0.1}}
	default:
		return &weightedStrategy{name: models.StrategyBalanced, weights: strategyWeights{quality: 0.5, cost: 0.3, latency: 0.2}}
	}
}

func (s *weightedStrategy) Name() models.RoutingStrategy {
	return s.name
}

// Select returns the candidates ordered by descending score. The input
// slice is not modified, and equal scores keep their catalogue order.
func (s *weightedStrategy) Select(candidates []models.ModelProfile, category models.TaskCategory) []models.ModelProfile {
	type scoredModel struct {
		model models.ModelProfile
		score float64
	}

	scored := make([]scoredModel, len(candidates))
	for i, m := range candidates {
		scored[i] = scoredModel{model: m, score: s.score(m, category)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]models.ModelProfile, len(scored))
	for i, sm := range scored {
		ranked[i] = sm.model
	}
	return ranked
}

// score combines quality, cost and latency on a shared 0..10 scale. Cost
// maps input price to an inverted score, clamped so anything at or above
// $2/1M tokens scores 0.
func (s *weightedStrategy) score(m models.ModelProfile, category models.TaskCategory) float64 {
	quality := m.QualityScore[category]
	costScore := 10 - math.Min(m.CostPer1MInput*5, 10)
	latencyScore := m.LatencyTier.Weight()
	return s.weights.quality*quality + s.weights.cost*costScore + s.weights.latency*latencyScore
}

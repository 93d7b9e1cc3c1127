package llm

import "dev.prompt.router/internal/models"

// SupportedProviders lists every provider with a built-in catalogue.
var SupportedProviders = []string{"openrouter", "google", "anthropic", "openai", "deepseek"}

// DefaultProvider is used when the configured provider is unknown.
const DefaultProvider = "openrouter"

// ResolveProvider maps a configured provider name onto a supported one,
// falling back to the default for anything unrecognised.
func ResolveProvider(name string) string {
	for _, p := range SupportedProviders {
		if name == p {
			return p
		}
	}
	return DefaultProvider
}

func scores(simple, code, reasoning, dataAnalysis, creative float64) map[models.TaskCategory]float64 {
	return map[models.TaskCategory]float64{
		models.CategorySimple:       simple,
		models.CategoryCode:         code,
		models.CategoryReasoning:    reasoning,
		models.CategoryDataAnalysis: dataAnalysis,
		models.CategoryCreative:     creative,
	}
}

// BuiltinProfiles returns the starting catalogue for a provider. Pricing is
// USD per million tokens. A models file can replace these at startup.
func BuiltinProfiles(provider string) []models.ModelProfile {
	switch ResolveProvider(provider) {
	case "google":
		return []models.ModelProfile{
			{
				ID: "gemini-1.5-pro", DisplayName: "Gemini 1.5 Pro", Tier: models.TierHard,
				CostPer1MInput: 1.25, CostPer1MOutput: 5.0, ContextWindow: 2097152,
				Strengths:         []models.TaskCategory{models.CategoryReasoning, models.CategoryDataAnalysis},
				SupportsSensitive: true, LatencyTier: models.LatencyMedium,
				QualityScore: scores(8, 8, 9, 9, 8),
			},
			{
				ID: "gemini-1.5-flash", DisplayName: "Gemini 1.5 Flash", Tier: models.TierGeneral,
				CostPer1MInput: 0.075, CostPer1MOutput: 0.3, ContextWindow: 1048576,
				Strengths:         []models.TaskCategory{models.CategorySimple, models.CategoryDataAnalysis},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 6, 6, 8, 6),
			},
			{
				ID: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", Tier: models.TierMedium,
				CostPer1MInput: 0.1, CostPer1MOutput: 0.4, ContextWindow: 1048576,
				Strengths:         []models.TaskCategory{models.CategorySimple, models.CategoryCode},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 7, 7, 8, 7),
			},
		}
	case "anthropic":
		return []models.ModelProfile{
			{
				ID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet", Tier: models.TierHard,
				CostPer1MInput: 3.0, CostPer1MOutput: 15.0, ContextWindow: 200000,
				Strengths:         []models.TaskCategory{models.CategoryCode, models.CategoryReasoning, models.CategoryCreative},
				SupportsSensitive: true, LatencyTier: models.LatencyMedium,
				QualityScore: scores(9, 10, 10, 9, 9),
			},
			{
				ID: "claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku", Tier: models.TierGeneral,
				CostPer1MInput: 0.8, CostPer1MOutput: 4.0, ContextWindow: 200000,
				Strengths:         []models.TaskCategory{models.CategorySimple, models.CategoryCode},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 7, 6, 6, 7),
			},
			{
				ID: "claude-3-opus-20240229", DisplayName: "Claude 3 Opus", Tier: models.TierHard,
				CostPer1MInput: 15.0, CostPer1MOutput: 75.0, ContextWindow: 200000,
				Strengths:         []models.TaskCategory{models.CategoryReasoning, models.CategoryCreative},
				SupportsSensitive: true, LatencyTier: models.LatencySlow,
				QualityScore: scores(8, 9, 10, 9, 10),
			},
		}
	case "openai":
		return []models.ModelProfile{
			{
				ID: "gpt-4o", DisplayName: "GPT-4o", Tier: models.TierHard,
				CostPer1MInput: 2.5, CostPer1MOutput: 10.0, ContextWindow: 128000,
				Strengths:         []models.TaskCategory{models.CategoryCode, models.CategoryReasoning},
				SupportsSensitive: true, LatencyTier: models.LatencyMedium,
				QualityScore: scores(9, 9, 9, 9, 8),
			},
			{
				ID: "gpt-4o-mini", DisplayName: "GPT-4o mini", Tier: models.TierGeneral,
				CostPer1MInput: 0.15, CostPer1MOutput: 0.6, ContextWindow: 128000,
				Strengths:         []models.TaskCategory{models.CategorySimple},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 7, 6, 7, 7),
			},
			{
				ID: "gpt-4-turbo", DisplayName: "GPT-4 Turbo", Tier: models.TierHard,
				CostPer1MInput: 10.0, CostPer1MOutput: 30.0, ContextWindow: 128000,
				Strengths:         []models.TaskCategory{models.CategoryCode, models.CategoryReasoning},
				SupportsSensitive: true, LatencyTier: models.LatencySlow,
				QualityScore: scores(8, 9, 9, 8, 8),
			},
			{
				ID: "gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo", Tier: models.TierGeneral,
				CostPer1MInput: 0.5, CostPer1MOutput: 1.5, ContextWindow: 16385,
				Strengths:         []models.TaskCategory{models.CategorySimple},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(7, 5, 4, 5, 6),
			},
		}
	case "deepseek":
		return []models.ModelProfile{
			{
				ID: "deepseek-chat", DisplayName: "DeepSeek Chat", Tier: models.TierMedium,
				CostPer1MInput: 0.14, CostPer1MOutput: 0.28, ContextWindow: 65536,
				Strengths:   []models.TaskCategory{models.CategoryCode},
				LatencyTier: models.LatencyMedium,
				QualityScore: scores(7, 8, 7, 7, 6),
			},
			{
				ID: "deepseek-reasoner", DisplayName: "DeepSeek Reasoner", Tier: models.TierHard,
				CostPer1MInput: 0.55, CostPer1MOutput: 2.19, ContextWindow: 65536,
				Strengths:   []models.TaskCategory{models.CategoryReasoning},
				LatencyTier: models.LatencySlow,
				QualityScore: scores(6, 8, 9, 8, 5),
			},
		}
	default: // openrouter
		return []models.ModelProfile{
			{
				ID: "anthropic/claude-3.5-sonnet", DisplayName: "Claude 3.5 Sonnet", Tier: models.TierHard,
				CostPer1MInput: 3.0, CostPer1MOutput: 15.0, ContextWindow: 200000,
				Strengths:         []models.TaskCategory{models.CategoryCode, models.CategoryReasoning, models.CategoryCreative},
				SupportsSensitive: true, LatencyTier: models.LatencyMedium,
				QualityScore: scores(9, 10, 10, 9, 9),
			},
			{
				ID: "anthropic/claude-3.5-haiku", DisplayName: "Claude 3.5 Haiku", Tier: models.TierGeneral,
				CostPer1MInput: 0.8, CostPer1MOutput: 4.0, ContextWindow: 200000,
				Strengths:         []models.TaskCategory{models.CategorySimple, models.CategoryCode},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 7, 6, 6, 7),
			},
			{
				ID: "openai/gpt-4o-mini", DisplayName: "GPT-4o mini", Tier: models.TierGeneral,
				CostPer1MInput: 0.15, CostPer1MOutput: 0.6, ContextWindow: 128000,
				Strengths:         []models.TaskCategory{models.CategorySimple},
				SupportsSensitive: true, LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 7, 6, 7, 7),
			},
			{
				ID: "meta-llama/llama-3.1-70b-instruct", DisplayName: "Llama 3.1 70B", Tier: models.TierMedium,
				CostPer1MInput: 0.3, CostPer1MOutput: 0.4, ContextWindow: 131072,
				Strengths:   []models.TaskCategory{models.CategoryReasoning},
				LatencyTier: models.LatencyMedium,
				QualityScore: scores(7, 6, 7, 6, 6),
			},
			{
				ID: "google/gemini-flash-1.5", DisplayName: "Gemini 1.5 Flash", Tier: models.TierGeneral,
				CostPer1MInput: 0.075, CostPer1MOutput: 0.3, ContextWindow: 1048576,
				Strengths:   []models.TaskCategory{models.CategorySimple, models.CategoryDataAnalysis},
				LatencyTier: models.LatencyFast,
				QualityScore: scores(8, 6, 6, 8, 6),
			},
			{
				ID: "deepseek/deepseek-chat", DisplayName: "DeepSeek Chat", Tier: models.TierMedium,
				CostPer1MInput: 0.14, CostPer1MOutput: 0.28, ContextWindow: 65536,
				Strengths:   []models.TaskCategory{models.CategoryCode},
				LatencyTier: models.LatencyMedium,
				QualityScore: scores(7, 8, 7, 7, 6),
			},
		}
	}
}

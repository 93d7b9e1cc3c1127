package models

// TaskCategory is the closed set of prompt categories the classifier can
// produce. The declaration order is significant: ties during scoring are
// broken by the first category in this order.
type TaskCategory string

const (
	CategorySimple       TaskCategory = "simple"
	CategoryCode         TaskCategory = "code"
	CategoryReasoning    TaskCategory = "reasoning"
	CategoryDataAnalysis TaskCategory = "data_analysis"
	CategoryCreative     TaskCategory = "creative"
)

// AllCategories lists every TaskCategory in tie-break order.
var AllCategories = []TaskCategory{
	CategorySimple,
	CategoryCode,
	CategoryReasoning,
	CategoryDataAnalysis,
	CategoryCreative,
}

// Valid reports whether c is one of the known categories.
func (c TaskCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PrivacySensitivity controls which models a prompt may be routed to.
type PrivacySensitivity string

const (
	SensitivityPublic    PrivacySensitivity = "public"
	SensitivityInternal  PrivacySensitivity = "internal"
	SensitivitySensitive PrivacySensitivity = "sensitive"
)

// RequiresPrivate reports whether the sensitivity level restricts routing
// to models that support sensitive data. Internal and sensitive prompts
// carry the same restriction.
func (s PrivacySensitivity) RequiresPrivate() bool {
	return s == SensitivityInternal || s == SensitivitySensitive
}

// Valid reports whether s is one of the known sensitivity levels.
func (s PrivacySensitivity) Valid() bool {
	switch s {
	case SensitivityPublic, SensitivityInternal, SensitivitySensitive:
		return true
	}
	return false
}

// RoutingStrategy names a weighting profile used to rank candidate models.
type RoutingStrategy string

const (
	StrategyCostFirst    RoutingStrategy = "cost_first"
	StrategyQualityFirst RoutingStrategy = "quality_first"
	StrategyBalanced     RoutingStrategy = "balanced"
)

// Valid reports whether s is one of the known strategies.
func (s RoutingStrategy) Valid() bool {
	switch s {
	case StrategyCostFirst, StrategyQualityFirst, StrategyBalanced:
		return true
	}
	return false
}

// ModelTier is an informational capability band for a model.
type ModelTier string

const (
	TierGeneral ModelTier = "general"
	TierMedium  ModelTier = "medium"
	TierHard    ModelTier = "hard"
)

// LatencyTier is a coarse latency class carrying a ranking weight.
type LatencyTier string

const (
	LatencyFast   LatencyTier = "fast"
	LatencyMedium LatencyTier = "medium"
	LatencySlow   LatencyTier = "slow"
)

// Weight returns the ranking weight for the tier: fast 3, medium 2, slow 1.
// Unknown tiers weigh 1 so a bad catalogue entry ranks last, not crashes.
func (t LatencyTier) Weight() float64 {
	switch t {
	case LatencyFast:
		return 3
	case LatencyMedium:
		return 2
	case LatencySlow:
		return 1
	}
	return 1
}

// Valid reports whether t is one of the known latency tiers.
func (t LatencyTier) Valid() bool {
	switch t {
	case LatencyFast, LatencyMedium, LatencySlow:
		return true
	}
	return false
}

// ModelProfile describes one routable model. Profiles are immutable once
// registered with a catalogue.
type ModelProfile struct {
	ID                string                  `json:"id" yaml:"id"`
	DisplayName       string                  `json:"displayName" yaml:"displayName"`
	Tier              ModelTier               `json:"tier" yaml:"tier"`
	CostPer1MInput    float64                 `json:"costPer1MInput" yaml:"costPer1MInput"`
	CostPer1MOutput   float64                 `json:"costPer1MOutput" yaml:"costPer1MOutput"`
	ContextWindow     int                     `json:"contextWindow" yaml:"contextWindow"`
	Strengths         []TaskCategory          `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	SupportsSensitive bool                    `json:"supportsSensitive" yaml:"supportsSensitive"`
	LatencyTier       LatencyTier             `json:"latencyTier" yaml:"latencyTier"`
	QualityScore      map[TaskCategory]float64 `json:"qualityScore" yaml:"qualityScore"`
}

// Validate checks the profile invariants: non-empty id, non-negative costs,
// positive context window, known latency tier, and a quality score for every
// category in the 0..10 range.
func (p *ModelProfile) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "id", Message: "model id must not be empty"}
	}
	if p.CostPer1MInput < 0 {
		return &ValidationError{Field: "costPer1MInput", Message: "cost must be non-negative"}
	}
	if p.CostPer1MOutput < 0 {
		return &ValidationError{Field: "costPer1MOutput", Message: "cost must be non-negative"}
	}
	if p.ContextWindow <= 0 {
		return &ValidationError{Field: "contextWindow", Message: "context window must be positive"}
	}
	if !p.LatencyTier.Valid() {
		return &ValidationError{Field: "latencyTier", Message: "unknown latency tier: " + string(p.LatencyTier)}
	}
	for _, cat := range AllCategories {
		score, ok := p.QualityScore[cat]
		if !ok {
			return &ValidationError{Field: "qualityScore", Message: "missing quality score for category " + string(cat)}
		}
		if score < 0 || score > 10 {
			return &ValidationError{Field: "qualityScore", Message: "quality score for " + string(cat) + " must be in 0..10"}
		}
	}
	return nil
}

// ClassificationSource states where a classification came from.
type ClassificationSource string

const (
	SourceCache    ClassificationSource = "cache"
	SourceSemantic ClassificationSource = "semantic"
	SourceLLM      ClassificationSource = "llm"
)

// ClassificationResult is the outcome of classifying one prompt.
type ClassificationResult struct {
	Category             TaskCategory             `json:"category"`
	Confidence           float64                  `json:"confidence"`
	Scores               map[TaskCategory]float64 `json:"scores"`
	Signals              []string                 `json:"signals"`
	EstimatedInputTokens int                      `json:"estimatedInputTokens"`
	Source               ClassificationSource     `json:"source"`
}

// RoutingOptions carries the optional per-request routing knobs. All fields
// are optional; zero values mean "no constraint".
type RoutingOptions struct {
	Strategy             RoutingStrategy    `json:"strategy,omitempty"`
	Sensitivity          PrivacySensitivity `json:"sensitivity,omitempty"`
	RequireContextWindow int                `json:"requireContextWindow,omitempty"`
	MaxCostPer1MTokens   *float64           `json:"maxCostPer1MTokens,omitempty"`
	ForceCategory        TaskCategory       `json:"forceCategory,omitempty"`
	ForceModel           string             `json:"forceModel,omitempty"`
}

// Usage reports token counts for one completion.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// LlmResponse is the routed completion returned to callers.
type LlmResponse struct {
	Content          string       `json:"content"`
	Model            string       `json:"model"`
	Category         TaskCategory `json:"category"`
	EstimatedCostUsd float64      `json:"estimatedCostUsd"`
	LatencyMs        int64        `json:"latencyMs"`
	Usage            Usage        `json:"usage"`
	FallbackUsed     bool         `json:"fallbackUsed"`
}

// AuditEntry is one best-effort record of a routed completion.
type AuditEntry struct {
	PromptHash    string               `json:"promptHash"`
	PromptPreview string               `json:"promptPreview"`
	Category      TaskCategory         `json:"category"`
	Confidence    float64              `json:"confidence"`
	Source        ClassificationSource `json:"source"`
	Model         string               `json:"model"`
	CostUsd       float64              `json:"costUsd"`
	LatencyMs     int64                `json:"latencyMs"`
	CorrectedTo   TaskCategory         `json:"correctedTo,omitempty"`
}

// EstimateTokens approximates the token count of text as ceil(len/4). It is
// the single token heuristic shared by the classifier and the orchestrator.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

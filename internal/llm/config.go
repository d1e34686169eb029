// Package llm provides the client abstraction over the reasoning service the
// quiz engine consumes. The engine only depends on the Client interface; the
// Gemini implementation is one provider behind it.
package llm

// ModelTier maps an engine task to a model capability level.
type ModelTier string

const (
	// TierAnalysis is used for answer analysis: extraction and classification.
	TierAnalysis ModelTier = "analysis"
	// TierGeneration is used for composing gap-fill questions.
	TierGeneration ModelTier = "generation"
)

// Provider identifies a reasoning-service provider.
type Provider string

// Supported providers.
const (
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the engine.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration. Analysis runs on the
// cheaper flash model; question generation gets the standard model.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierAnalysis:   "gemini-2.5-flash-lite",
			TierGeneration: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the analysis
// model so a missing tier never stalls a session.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierAnalysis]; ok {
		return model
	}
	return ""
}

// Package llm provides the extraction client: LLM configuration, the provider
// abstraction, and PRP extraction from transcripts.
package llm

// ModelTier represents the complexity/capability level of a model.
type ModelTier string

const (
	// TierLite is for simple tasks: incremental task extraction.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured output.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: full PRP extraction.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model configuration for the extraction client.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier, falling back through
// standard and lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

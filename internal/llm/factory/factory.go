// Package factory selects the model provider for a chat request.
package factory

import (
	"fmt"

	"uigen/internal/config"
	"uigen/internal/llm"
	"uigen/internal/llm/providers/anthropic"
	"uigen/internal/llm/providers/lorem"
)

// SelectProvider returns the provider for the current configuration. A
// configured credential selects the real provider with the full step and
// token budget; otherwise the mock provider runs with a small step budget so
// offline runs stay fast.
func SelectProvider(cfg *config.Config) (llm.Provider, *llm.ModelConfig, error) {
	if cfg.HasRealProvider() {
		provider, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("create anthropic provider: %w", err)
		}
		return provider, &llm.ModelConfig{
			Model:     cfg.AnthropicModel,
			MaxSteps:  config.MaxStepsReal,
			MaxTokens: config.MaxOutputTokens,
		}, nil
	}

	return lorem.NewProvider(), &llm.ModelConfig{
		Model:    lorem.ModelName,
		MaxSteps: config.MaxStepsMock,
	}, nil
}

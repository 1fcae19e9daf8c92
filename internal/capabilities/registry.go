// Package capabilities serves the model capability catalog from embedded
// YAML files, one per provider.
package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry manages model capabilities across all providers
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry creates a new capability registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	for _, provider := range []string{"anthropic", "lorem"} {
		if err := r.loadProviderFile(provider); err != nil {
			return nil, fmt.Errorf("failed to load %s capabilities: %w", provider, err)
		}
	}

	return r, nil
}

// loadProviderFile loads a provider's capability YAML file
func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	r.providers[provider] = &providerCaps
	r.mu.Unlock()

	return nil
}

// Providers returns the loaded provider ids in load order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.providers))
	for _, provider := range []string{"anthropic", "lorem"} {
		if _, ok := r.providers[provider]; ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return providerCaps.Models, nil
}

// ProviderName returns the display name of a provider.
func (r *Registry) ProviderName(provider string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}

	return providerCaps.Name, nil
}

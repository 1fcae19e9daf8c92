package capabilities

// ProviderCapabilities is the YAML shape of one provider's capability file.
type ProviderCapabilities struct {
	Provider string              `yaml:"provider"`
	Name     string              `yaml:"name"`
	Models   []ModelCapabilities `yaml:"models"`
}

// ModelCapabilities describes one model.
type ModelCapabilities struct {
	ID            string `yaml:"id" json:"id"`
	DisplayName   string `yaml:"display_name" json:"display_name"`
	ContextWindow int    `yaml:"context_window" json:"context_window"`
	Streaming     bool   `yaml:"streaming" json:"streaming"`
	ToolUse       bool   `yaml:"tool_use" json:"tool_use"`
}

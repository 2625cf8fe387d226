package capabilities

// ModelCapabilities represents the metadata advertised for a chat model.
type ModelCapabilities struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	// Limits
	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`

	// Offline is true for providers that never leave the process (lorem).
	Offline bool `yaml:"offline" json:"offline"`
}

// ProviderCapabilities represents all models for a provider, in the order
// they appear in the YAML file.
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Models   []ModelCapabilities `yaml:"models" json:"models"`
}

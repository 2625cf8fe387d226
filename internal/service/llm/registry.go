package llm

import (
	"fmt"
	"log/slog"

	"tankmate/internal/domain/services/assistant"
)

// Registry holds the configured completion providers by name.
type Registry struct {
	providers map[string]assistant.CompletionService
	logger    *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		providers: make(map[string]assistant.CompletionService),
		logger:    logger,
	}
}

// Register adds a provider under its own name.
func (r *Registry) Register(provider assistant.CompletionService) {
	r.providers[provider.Name()] = provider
	r.logger.Info("completion provider registered", "provider", provider.Name())
}

// GetProvider returns the provider with the given name.
func (r *Registry) GetProvider(name string) (assistant.CompletionService, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// GetForModel resolves a model string (optionally provider-prefixed) to the
// provider that serves it, plus the bare model name.
func (r *Registry) GetForModel(modelStr string) (assistant.CompletionService, string, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return nil, "", err
	}

	p, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, "", fmt.Errorf("model %s: %w", modelStr, err)
	}

	if !p.SupportsModel(info.Model) {
		return nil, "", fmt.Errorf("provider %s does not support model %s", info.Provider, info.Model)
	}

	return p, info.Model, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

package handler

import (
	"log/slog"
	"net/http"

	"tankmate/internal/capabilities"
	"tankmate/internal/config"
	"tankmate/internal/httputil"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID      string                           `json:"id"`
	Name    string                           `json:"name"`
	Default bool                             `json:"default"`
	Models  []capabilities.ModelCapabilities `json:"models"`
}

// GetCapabilities returns model capabilities for all configured providers
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	var providers []ProviderResponse

	if h.config.AnthropicAPIKey != "" {
		if models, err := h.registry.ListProviderModels("anthropic"); err == nil {
			providers = append(providers, ProviderResponse{ID: "anthropic", Name: "Anthropic", Models: models})
		}
	}

	if h.config.OpenRouterAPIKey != "" {
		if models, err := h.registry.ListProviderModels("openrouter"); err == nil {
			providers = append(providers, ProviderResponse{ID: "openrouter", Name: "OpenRouter", Models: models})
		}
	}

	// The offline provider is always available
	if models, err := h.registry.ListProviderModels("lorem"); err == nil {
		providers = append(providers, ProviderResponse{ID: "lorem", Name: "Lorem", Models: models})
	}

	for i := range providers {
		providers[i].Default = providers[i].ID == h.config.DefaultProvider
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
	})
}

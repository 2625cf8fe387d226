package llm

import (
	"log/slog"

	"tankmate/internal/config"
	"tankmate/internal/service/llm/providers/anthropic"
	"tankmate/internal/service/llm/providers/lorem"
	"tankmate/internal/service/llm/providers/openrouter"
)

// SetupProviders builds the provider registry from config. Providers whose
// API key is missing are skipped with a warning; the lorem provider is
// always available so the server works offline.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry(logger)

	if cfg.AnthropicAPIKey != "" {
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(p)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, anthropic provider disabled")
	}

	if cfg.OpenRouterAPIKey != "" {
		p, err := openrouter.NewProvider(cfg.OpenRouterAPIKey)
		if err != nil {
			return nil, err
		}
		registry.Register(p)
	} else {
		logger.Warn("OPENROUTER_API_KEY not set, openrouter provider disabled")
	}

	registry.Register(lorem.NewProvider())

	return registry, nil
}

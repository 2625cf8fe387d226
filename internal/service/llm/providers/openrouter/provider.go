package openrouter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"tankmate/internal/domain/services/assistant"
)

// baseURL is OpenRouter's OpenAI-compatible endpoint.
const baseURL = "https://openrouter.ai/api/v1"

// Provider implements the CompletionService interface against OpenRouter's
// OpenAI-compatible Chat Completions API.
type Provider struct {
	client *openai.Client
}

// NewProvider creates a new OpenRouter provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openrouter"
}

// SupportsModel returns true for any model - OpenRouter routes to most
// upstream providers, so it is the catch-all.
func (p *Provider) SupportsModel(model string) bool {
	return model != ""
}

// Complete generates one assistant reply via OpenRouter.
func (p *Provider) Complete(ctx context.Context, req *assistant.CompletionRequest) (*assistant.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case assistant.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case assistant.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case assistant.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return &assistant.CompletionResponse{
		Content:      completion.Choices[0].Message.Content,
		Model:        completion.Model,
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
	}, nil
}

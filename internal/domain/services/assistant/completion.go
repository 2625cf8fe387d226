package assistant

import (
	"context"
)

// Message roles replayed to the completion service. System entries from the
// transcript are never replayed; RoleSystem is used only for the generated
// aquarium-context entry that prefixes each request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single {role, content} pair sent to a completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries the conversation for one completion call.
type CompletionRequest struct {
	// Messages is the full conversation, oldest first. The first entry may be
	// a system-role aquarium context block.
	Messages []Message

	// Model is the model identifier (e.g. "claude-haiku-4-5-20251001").
	Model string
}

// CompletionResponse is the provider's reply.
type CompletionResponse struct {
	// Content is the raw assistant text, including any embedded command
	// blocks. Parsing is the caller's concern.
	Content string

	// Model is the model that was used (may differ from request if aliased).
	Model string

	InputTokens  int
	OutputTokens int
}

// CompletionService defines the interface all completion providers implement.
// The chat engine treats it as an opaque call that may fail; no retry or
// backoff happens above this boundary.
type CompletionService interface {
	// Complete generates one assistant reply for the given conversation.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "anthropic", "openrouter")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

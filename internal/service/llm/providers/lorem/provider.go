package lorem

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	loremgen "github.com/bozaro/golorem"

	"tankmate/internal/domain/services/assistant"
)

// Provider is an offline filler-text provider for development and manual
// testing: no API key, no network. The "lorem-suggest" model appends a valid
// ADD_ITEM command block so the whole suggestion pipeline can be exercised
// without a real assistant.
type Provider struct {
	generator *loremgen.Lorem
	calls     atomic.Uint64
}

// cannedItems rotate through the suggest model's command blocks.
var cannedItems = []struct {
	itemType string
	itemName string
}{
	{"fish", "Neon Tetra"},
	{"plant", "Java Fern"},
	{"equipment", "Sponge Filter"},
	{"fish", "Corydoras Panda"},
	{"plant", "Anubias Nana"},
}

// NewProvider creates a new lorem provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true for lorem-* models.
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete returns filler prose, plus a command block for "lorem-suggest".
func (p *Provider) Complete(_ context.Context, req *assistant.CompletionRequest) (*assistant.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	n := p.calls.Add(1)

	var b strings.Builder
	b.WriteString(p.generator.Paragraph(2, 4))

	if req.Model == "lorem-suggest" {
		item := cannedItems[int(n)%len(cannedItems)]
		fmt.Fprintf(&b, "\n###\n[ADD_ITEM type=%q]%s[/ADD_ITEM]", item.itemType, item.itemName)
	}

	return &assistant.CompletionResponse{
		Content:      b.String(),
		Model:        req.Model,
		InputTokens:  len(req.Messages),
		OutputTokens: 1,
	}, nil
}

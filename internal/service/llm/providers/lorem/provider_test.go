package lorem

import (
	"context"
	"strings"
	"testing"

	"tankmate/internal/domain/services/assistant"
)

func TestProviderSupportsModel(t *testing.T) {
	p := NewProvider()

	if !p.SupportsModel("lorem-fast") {
		t.Error("lorem-fast should be supported")
	}
	if !p.SupportsModel("lorem-suggest") {
		t.Error("lorem-suggest should be supported")
	}
	if p.SupportsModel("claude-haiku-4-5") {
		t.Error("non-lorem model should not be supported")
	}
}

func TestCompleteRejectsUnknownModel(t *testing.T) {
	p := NewProvider()

	_, err := p.Complete(context.Background(), &assistant.CompletionRequest{Model: "claude-haiku-4-5"})
	if err == nil {
		t.Fatal("expected error for unsupported model")
	}
}

func TestCompleteReturnsProse(t *testing.T) {
	p := NewProvider()

	resp, err := p.Complete(context.Background(), &assistant.CompletionRequest{Model: "lorem-fast"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content == "" {
		t.Error("expected filler prose")
	}
	if strings.Contains(resp.Content, "###") {
		t.Errorf("plain lorem model must not emit a command block: %q", resp.Content)
	}
}

func TestCompleteSuggestModelEmitsCommandBlock(t *testing.T) {
	p := NewProvider()

	resp, err := p.Complete(context.Background(), &assistant.CompletionRequest{Model: "lorem-suggest"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !strings.Contains(resp.Content, "###") {
		t.Fatalf("suggest model should emit the separator: %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "[ADD_ITEM type=\"") || !strings.Contains(resp.Content, "[/ADD_ITEM]") {
		t.Errorf("suggest model should emit a well-formed command tag: %q", resp.Content)
	}
}

func TestCompleteSuggestModelRotatesItems(t *testing.T) {
	p := NewProvider()

	seen := make(map[string]struct{})
	for i := 0; i < len(cannedItems); i++ {
		resp, err := p.Complete(context.Background(), &assistant.CompletionRequest{Model: "lorem-suggest"})
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		_, after, _ := strings.Cut(resp.Content, "###")
		seen[strings.TrimSpace(after)] = struct{}{}
	}

	if len(seen) != len(cannedItems) {
		t.Errorf("expected %d distinct command blocks, got %d", len(cannedItems), len(seen))
	}
}

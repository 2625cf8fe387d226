package chat

import (
	"testing"

	chatModels "tankmate/internal/domain/models/chat"
)

func TestSuggestionLedgerIngest(t *testing.T) {
	inventory := map[string]struct{}{
		"neon tetra": {},
	}

	tests := []struct {
		name      string
		commands  []chatModels.SuggestedItem
		wantNames []string
	}{
		{
			name: "valid commands pass through",
			commands: []chatModels.SuggestedItem{
				{Type: chatModels.ItemTypeFish, Name: "Guppy"},
				{Type: chatModels.ItemTypePlant, Name: "Java Fern"},
			},
			wantNames: []string{"Guppy", "Java Fern"},
		},
		{
			name: "invalid type dropped",
			commands: []chatModels.SuggestedItem{
				{Type: "rock", Name: "Lava Rock"},
				{Type: chatModels.ItemTypeFish, Name: "Guppy"},
			},
			wantNames: []string{"Guppy"},
		},
		{
			name: "empty name dropped",
			commands: []chatModels.SuggestedItem{
				{Type: chatModels.ItemTypeFish, Name: "   "},
				{Type: chatModels.ItemTypeFish, Name: "Guppy"},
			},
			wantNames: []string{"Guppy"},
		},
		{
			name: "inventory duplicate dropped case-insensitively",
			commands: []chatModels.SuggestedItem{
				{Type: chatModels.ItemTypeFish, Name: "NEON Tetra"},
				{Type: chatModels.ItemTypeFish, Name: "Guppy"},
			},
			wantNames: []string{"Guppy"},
		},
		{
			name: "batch duplicate keeps first occurrence",
			commands: []chatModels.SuggestedItem{
				{Type: chatModels.ItemTypeFish, Name: "Guppy"},
				{Type: chatModels.ItemTypeFish, Name: "guppy"},
			},
			wantNames: []string{"Guppy"},
		},
		{
			name:      "empty batch clears the ledger",
			commands:  nil,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewSuggestionLedger()
			got := ledger.Ingest(tt.commands, inventory)

			if len(got) != len(tt.wantNames) {
				t.Fatalf("got %d suggestions, want %d: %+v", len(got), len(tt.wantNames), got)
			}
			for i, want := range tt.wantNames {
				if got[i].Name != want {
					t.Errorf("suggestion %d name = %q, want %q", i, got[i].Name, want)
				}
				if got[i].ID == "" {
					t.Errorf("suggestion %d has no id", i)
				}
			}
		})
	}
}

func TestSuggestionLedgerSupersede(t *testing.T) {
	ledger := NewSuggestionLedger()
	ledger.Ingest([]chatModels.SuggestedItem{
		{Type: chatModels.ItemTypeFish, Name: "Guppy"},
	}, nil)

	got := ledger.Ingest([]chatModels.SuggestedItem{
		{Type: chatModels.ItemTypePlant, Name: "Java Fern"},
	}, nil)

	if len(got) != 1 || got[0].Name != "Java Fern" {
		t.Fatalf("new batch should replace unacted suggestions, got %+v", got)
	}
}

func TestSuggestionLedgerTryResolveByText(t *testing.T) {
	ledger := NewSuggestionLedger()
	ledger.Ingest([]chatModels.SuggestedItem{
		{Type: chatModels.ItemTypeFish, Name: "Neon Tetra"},
		{Type: chatModels.ItemTypePlant, Name: "Java Fern"},
	}, nil)

	item := ledger.TryResolveByText("  neon tetra  ")
	if item == nil {
		t.Fatal("expected case-insensitive match")
	}
	if item.Name != "Neon Tetra" {
		t.Errorf("resolved name = %q, want %q", item.Name, "Neon Tetra")
	}
	if len(ledger.Open()) != 1 {
		t.Errorf("resolved suggestion should be removed, %d left", len(ledger.Open()))
	}

	// Same text again no longer matches
	if again := ledger.TryResolveByText("neon tetra"); again != nil {
		t.Errorf("second resolve should miss, got %+v", again)
	}

	if miss := ledger.TryResolveByText("angelfish"); miss != nil {
		t.Errorf("unknown name should miss, got %+v", miss)
	}
}

func TestSuggestionLedgerConfirm(t *testing.T) {
	ledger := NewSuggestionLedger()
	open := ledger.Ingest([]chatModels.SuggestedItem{
		{Type: chatModels.ItemTypeFish, Name: "Neon Tetra"},
	}, nil)

	if item := ledger.Confirm("missing-id"); item != nil {
		t.Errorf("unknown id should miss, got %+v", item)
	}

	item := ledger.Confirm(open[0].ID)
	if item == nil || item.Name != "Neon Tetra" {
		t.Fatalf("confirm by id failed, got %+v", item)
	}
	if len(ledger.Open()) != 0 {
		t.Errorf("confirmed suggestion should be removed")
	}
}

func TestSuggestionLedgerClear(t *testing.T) {
	ledger := NewSuggestionLedger()
	ledger.Ingest([]chatModels.SuggestedItem{
		{Type: chatModels.ItemTypeFish, Name: "Neon Tetra"},
	}, nil)

	ledger.Clear()
	if len(ledger.Open()) != 0 {
		t.Errorf("ledger should be empty after clear")
	}
}

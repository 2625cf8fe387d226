package chat

import (
	"strings"

	"github.com/google/uuid"

	chatModels "tankmate/internal/domain/models/chat"
)

// SuggestionLedger tracks the currently-open item suggestions of one session.
//
// It is not safe for concurrent use on its own: the owning ChatSession
// serializes every call under its mutex, which is the only locking the
// single-threaded event model needs.
type SuggestionLedger struct {
	open []chatModels.SuggestedItem
}

// NewSuggestionLedger returns an empty ledger.
func NewSuggestionLedger() *SuggestionLedger {
	return &SuggestionLedger{}
}

// Ingest filters commands and replaces the open-suggestions list with the
// result: a new response's suggestions supersede whatever the user had not
// acted on. Dropped silently (never surfaced to the user):
//   - commands whose type is outside {fish, plant, equipment}
//   - commands whose case-folded name already exists in the inventory
//   - commands repeating a name already accepted in this batch
func (l *SuggestionLedger) Ingest(commands []chatModels.SuggestedItem, inventoryNames map[string]struct{}) []chatModels.SuggestedItem {
	filtered := make([]chatModels.SuggestedItem, 0, len(commands))
	seen := make(map[string]struct{}, len(commands))

	for _, cmd := range commands {
		if !cmd.Type.Valid() {
			continue
		}
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			continue
		}
		folded := strings.ToLower(name)
		if _, exists := inventoryNames[folded]; exists {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}

		cmd.Name = name
		if cmd.ID == "" {
			cmd.ID = uuid.New().String()
		}
		filtered = append(filtered, cmd)
	}

	l.open = filtered
	return l.Open()
}

// TryResolveByText matches the trimmed input case-insensitively against open
// suggestion names. On a hit the suggestion is removed and returned; otherwise
// nil is returned and the ledger is unchanged.
func (l *SuggestionLedger) TryResolveByText(input string) *chatModels.SuggestedItem {
	for i, s := range l.open {
		if s.MatchesName(input) {
			l.open = append(l.open[:i:i], l.open[i+1:]...)
			return &s
		}
	}
	return nil
}

// Confirm removes the given suggestion, matched by id. Used for button-driven
// confirmation where the item is already known rather than re-matched by text.
func (l *SuggestionLedger) Confirm(id string) *chatModels.SuggestedItem {
	for i, s := range l.open {
		if s.ID == id {
			l.open = append(l.open[:i:i], l.open[i+1:]...)
			return &s
		}
	}
	return nil
}

// Clear empties the ledger.
func (l *SuggestionLedger) Clear() {
	l.open = nil
}

// Open returns a copy of the open suggestions in order.
func (l *SuggestionLedger) Open() []chatModels.SuggestedItem {
	out := make([]chatModels.SuggestedItem, len(l.open))
	copy(out, l.open)
	return out
}

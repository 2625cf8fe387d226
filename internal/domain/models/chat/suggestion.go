package chat

import (
	"strings"
)

// ItemType is the closed set of inventory categories the assistant may
// propose. Parsed values outside this set are malformed commands and are
// discarded by the ledger, never surfaced to the user.
type ItemType string

const (
	ItemTypeFish      ItemType = "fish"
	ItemTypePlant     ItemType = "plant"
	ItemTypeEquipment ItemType = "equipment"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeFish, ItemTypePlant, ItemTypeEquipment:
		return true
	}
	return false
}

// ParseItemType normalizes a raw parsed type ("Fish ", "PLANT") into an
// ItemType. The bool is false when the value is outside the closed set.
func ParseItemType(raw string) (ItemType, bool) {
	t := ItemType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// SuggestedItem is an open inventory proposal extracted from an assistant
// response. Name is case-preserved for display; matching is case-folded.
type SuggestedItem struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
	Name string   `json:"name"`
}

// MatchesName reports whether input (trimmed) matches the suggestion name
// case-insensitively.
func (s SuggestedItem) MatchesName(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), s.Name)
}

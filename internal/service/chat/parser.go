package chat

import (
	"regexp"
	"strings"

	chatModels "tankmate/internal/domain/models/chat"
)

// commandSeparator splits the assistant's visible prose from its command
// block. Everything before the first occurrence is shown to the user.
const commandSeparator = "###"

// addItemPattern matches [ADD_ITEM type="<type>"]<name>[/ADD_ITEM] tag pairs.
// Non-greedy, and (?s) lets names span embedded newlines. This is the one
// bit-exact protocol boundary with the prompted assistant - do not loosen it.
var addItemPattern = regexp.MustCompile(`(?s)\[ADD_ITEM type="(.*?)"\](.*?)\[/ADD_ITEM\]`)

// ParseResult is the outcome of splitting one raw assistant response.
type ParseResult struct {
	// VisibleText is the prose shown (revealed) to the user.
	VisibleText string

	// Commands are the extracted item proposals in order of appearance.
	// Types are lower-cased and trimmed but NOT validated against the closed
	// item-type set - domain validation is the ledger's job, not the parser's.
	Commands []chatModels.SuggestedItem
}

// ParseResponse splits raw assistant text into visible prose and structured
// add-item commands. It is a pure function: no side effects, deterministic.
func ParseResponse(raw string) ParseResult {
	before, after, found := strings.Cut(raw, commandSeparator)
	if !found {
		return ParseResult{VisibleText: strings.TrimSpace(raw)}
	}

	result := ParseResult{VisibleText: strings.TrimSpace(before)}

	for _, match := range addItemPattern.FindAllStringSubmatch(after, -1) {
		result.Commands = append(result.Commands, chatModels.SuggestedItem{
			Type: chatModels.ItemType(strings.ToLower(strings.TrimSpace(match[1]))),
			Name: strings.TrimSpace(match[2]),
		})
	}

	return result
}

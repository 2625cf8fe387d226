package chat

// SSE event type constants for session event streams
const (
	EventMessageAdded       = "message_added"       // A message was appended to the transcript
	EventRevealDelta        = "reveal_delta"        // The revealed prefix of the last assistant message grew
	EventRevealComplete     = "reveal_complete"     // Reveal finished (naturally or force-completed)
	EventSuggestionsUpdated = "suggestions_updated" // Open suggestions replaced/changed
	EventItemAdded          = "item_added"          // A confirmed suggestion was forwarded to the inventory
	EventSessionCleared     = "session_cleared"     // Transcript and suggestions were cleared
	EventSessionError       = "session_error"       // Completion-path failure (already recovered in chat)
)

// MessageAddedEvent carries a newly appended transcript message.
type MessageAddedEvent struct {
	Message Message `json:"message"`
}

// RevealDeltaEvent carries the revealed prefix after a tick.
type RevealDeltaEvent struct {
	MessageID string `json:"message_id"`
	Revealed  string `json:"revealed"`
}

// RevealCompleteEvent signals the reveal reached the full target text.
type RevealCompleteEvent struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

// SuggestionsUpdatedEvent carries the full open-suggestions list after any
// change (ingest, confirm, resolve-by-text, clear).
type SuggestionsUpdatedEvent struct {
	Suggestions []SuggestedItem `json:"suggestions"`
}

// ItemAddedEvent signals a confirmed suggestion was handed to the inventory
// collaborator.
type ItemAddedEvent struct {
	ItemType ItemType `json:"item_type"`
	ItemName string   `json:"item_name"`
}

// SessionErrorEvent reports a completion-path failure. The chat has already
// recovered locally (apology message appended); this is informational.
type SessionErrorEvent struct {
	Detail string `json:"detail"`
}

package chat

import (
	"time"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderAssistant, SenderSystem:
		return true
	}
	return false
}

// Message is a single entry in a session transcript.
//
// An assistant message is created with empty Text and its Text grows once per
// reveal tick until the reveal completes; it is the only message ever mutated
// after creation. Messages are never removed individually, only cleared with
// the whole transcript.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	// Timestamp is the display-formatted creation time (e.g. "3:04 PM"),
	// precomputed so UI layers don't need locale-aware formatting.
	Timestamp string `json:"timestamp"`
}

// DisplayTimeLayout is the layout used for Message.Timestamp.
const DisplayTimeLayout = "3:04 PM"

// RevealPhase describes the lifecycle of the assistant-text reveal effect.
type RevealPhase string

const (
	RevealIdle      RevealPhase = "idle"
	RevealRevealing RevealPhase = "revealing"
	RevealCompleted RevealPhase = "completed"
)

// RevealState is the snapshot of an in-flight (or finished) reveal.
type RevealState struct {
	Phase    RevealPhase `json:"phase"`
	Target   string      `json:"target"`
	Revealed string      `json:"revealed"`
}

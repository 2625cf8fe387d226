package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tankmate/internal/domain"
	"tankmate/internal/domain/models/aquarium"
	chatModels "tankmate/internal/domain/models/chat"
	"tankmate/internal/domain/services/assistant"
)

// apologyText is the fixed fallback shown when the completion service fails.
const apologyText = "Sorry, there was an error with the response."

// InventorySink receives a confirmed suggestion. Supplied by the host
// application; the session does not await or validate its effect.
type InventorySink func(itemType chatModels.ItemType, itemName string)

// NamesProvider returns the case-folded names currently in the aquarium's
// inventory, used to drop duplicate suggestions before they reach the user.
type NamesProvider func() map[string]struct{}

// SubmitOutcome tells the caller which path a submit took.
type SubmitOutcome string

const (
	// SubmitNoop - empty or whitespace-only input, nothing happened.
	SubmitNoop SubmitOutcome = "noop"
	// SubmitConfirmed - input matched an open suggestion; no completion call.
	SubmitConfirmed SubmitOutcome = "suggestion_confirmed"
	// SubmitDispatched - a completion request is running in the background.
	SubmitDispatched SubmitOutcome = "completion_dispatched"
	// SubmitAccelerated - input was swallowed to fast-forward an active reveal.
	SubmitAccelerated SubmitOutcome = "reveal_accelerated"
)

// Options configures a new session.
type Options struct {
	Completion     assistant.CompletionService
	Model          string
	RevealInterval time.Duration
	MaxDraftChars  int
	InitialPrompts []string
	Aquarium       *aquarium.Aquarium
	OnAddItem      InventorySink
	InventoryNames NamesProvider // defaults to the aquarium snapshot's names
	Logger         *slog.Logger
}

// Session owns one conversation: transcript, draft, reveal state and open
// suggestions. All state is mutated only inside its own methods under one
// mutex; collaborators (hub, scheduler) never reach back into it except
// through the generation-checked tick path.
type Session struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	history   []chatModels.Message
	draft     string
	awaiting  bool
	reveal    chatModels.RevealState
	revealGen uint64
	epoch     uint64 // bumped on Clear so stale completions are dropped
	ledger    *SuggestionLedger
	tank      *aquarium.Aquarium

	scheduler      *RevealScheduler
	hub            *EventHub
	completion     assistant.CompletionService
	model          string
	onAddItem      InventorySink
	inventoryNames NamesProvider
	initialPrompts []string
	maxDraftChars  int
	logger         *slog.Logger
	now            func() time.Time
}

// Snapshot is a read-only copy of session state for the UI layer.
type Snapshot struct {
	ID             string                     `json:"id"`
	CreatedAt      time.Time                  `json:"created_at"`
	History        []chatModels.Message       `json:"history"`
	Draft          string                     `json:"draft"`
	Awaiting       bool                       `json:"awaiting_completion"`
	Reveal         chatModels.RevealState     `json:"reveal"`
	Suggestions    []chatModels.SuggestedItem `json:"suggestions"`
	InitialPrompts []string                   `json:"initial_prompts"`
	Aquarium       *aquarium.Aquarium         `json:"aquarium,omitempty"`
}

// NewSession creates a session. Completion and Logger are required; the rest
// have sensible defaults.
func NewSession(opts Options) *Session {
	if opts.MaxDraftChars <= 0 {
		opts.MaxDraftChars = 500
	}
	s := &Session{
		id:             uuid.New().String(),
		createdAt:      time.Now(),
		ledger:         NewSuggestionLedger(),
		tank:           opts.Aquarium,
		scheduler:      NewRevealScheduler(opts.RevealInterval),
		hub:            NewEventHub(opts.Logger),
		completion:     opts.Completion,
		model:          opts.Model,
		onAddItem:      opts.OnAddItem,
		inventoryNames: opts.InventoryNames,
		initialPrompts: opts.InitialPrompts,
		maxDraftChars:  opts.MaxDraftChars,
		logger:         opts.Logger,
		now:            time.Now,
	}
	s.reveal = chatModels.RevealState{Phase: chatModels.RevealIdle}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Hub returns the session's event hub for SSE subscriptions.
func (s *Session) Hub() *EventHub { return s.hub }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]chatModels.Message, len(s.history))
	copy(history, s.history)

	return Snapshot{
		ID:             s.id,
		CreatedAt:      s.createdAt,
		History:        history,
		Draft:          s.draft,
		Awaiting:       s.awaiting,
		Reveal:         s.reveal,
		Suggestions:    s.ledger.Open(),
		InitialPrompts: s.initialPrompts,
		Aquarium:       s.tank,
	}
}

// SetDraft stores the not-yet-submitted input, truncated to the draft bound.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runes := []rune(text)
	if len(runes) > s.maxDraftChars {
		runes = runes[:s.maxDraftChars]
	}
	s.draft = string(runes)
}

// SetAquarium replaces the aquarium context snapshot. Takes effect on the
// next completion call; the prompt is rebuilt per send.
func (s *Session) SetAquarium(tank *aquarium.Aquarium) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tank = tank
}

// SubmitOrAccelerate is the send-button contract: while a reveal is active,
// sending fast-forwards the reveal instead of submitting a new message.
func (s *Session) SubmitOrAccelerate(text string) (SubmitOutcome, error) {
	s.mu.Lock()
	if s.reveal.Phase == chatModels.RevealRevealing {
		s.forceCompleteRevealLocked()
		s.mu.Unlock()
		return SubmitAccelerated, nil
	}
	s.mu.Unlock()
	return s.Submit(text)
}

// Submit appends a user message and either resolves it against an open
// suggestion (shortcut path) or dispatches a completion request in the
// background. Empty input is a no-op. An in-flight reveal is force-completed
// first so the transcript never shows two partial messages.
func (s *Session) Submit(text string) (SubmitOutcome, error) {
	s.mu.Lock()

	if text == "" {
		text = s.draft
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		s.mu.Unlock()
		return SubmitNoop, nil
	}

	if s.reveal.Phase == chatModels.RevealRevealing {
		s.forceCompleteRevealLocked()
	}

	s.draft = ""
	s.appendMessageLocked(chatModels.SenderUser, trimmed)

	// Confirmation shortcut: typing an open suggestion's name adds the item
	// without calling the completion service.
	if item := s.ledger.TryResolveByText(trimmed); item != nil {
		s.addItemLocked(*item)
		s.mu.Unlock()
		return SubmitConfirmed, nil
	}

	s.awaiting = true
	msgs := s.buildCompletionMessagesLocked()
	epoch := s.epoch
	s.mu.Unlock()

	// Run the completion outside the lock and outside the caller's request
	// lifetime, mirroring the background dispatch of streaming turns.
	go s.runCompletion(context.Background(), msgs, epoch)

	return SubmitDispatched, nil
}

// ConfirmSuggestion is the button-driven confirmation path: the suggestion is
// identified by id rather than re-matched by text.
func (s *Session) ConfirmSuggestion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.ledger.Confirm(id)
	if item == nil {
		return &domain.NotFoundError{Message: "suggestion not found"}
	}
	s.addItemLocked(*item)
	return nil
}

// SkipReveal force-completes an active reveal. Safe to call at any time.
func (s *Session) SkipReveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reveal.Phase == chatModels.RevealRevealing {
		s.forceCompleteRevealLocked()
	}
}

// Clear empties the transcript and open suggestions, cancels any reveal and
// invalidates any in-flight completion. Initial suggestion prompts configured
// at session start remain available in the snapshot.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.revealGen++
	s.scheduler.Cancel()
	s.reveal = chatModels.RevealState{Phase: chatModels.RevealIdle}
	s.history = nil
	s.draft = ""
	s.awaiting = false
	s.ledger.Clear()

	s.hub.Publish(chatModels.EventSessionCleared, struct{}{})
	s.hub.Publish(chatModels.EventSuggestionsUpdated, chatModels.SuggestionsUpdatedEvent{
		Suggestions: s.ledger.Open(),
	})
}

// Close releases the session's resources (reveal goroutine, SSE clients).
func (s *Session) Close() {
	s.mu.Lock()
	s.revealGen++
	s.scheduler.Cancel()
	s.mu.Unlock()
	s.hub.Close()
}

// --- internals (every *Locked method requires s.mu held) ---

func (s *Session) appendMessageLocked(sender chatModels.Sender, text string) *chatModels.Message {
	now := s.now()
	msg := chatModels.Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Text:      text,
		CreatedAt: now,
		Timestamp: now.Format(chatModels.DisplayTimeLayout),
	}
	s.history = append(s.history, msg)
	s.hub.Publish(chatModels.EventMessageAdded, chatModels.MessageAddedEvent{Message: msg})
	return &s.history[len(s.history)-1]
}

// addItemLocked forwards a resolved suggestion to the inventory collaborator
// and reports it in chat. A missing collaborator is a host-configuration
// defect: it is logged, but the chat still reports success - the ledger's job
// is input matching, not verifying the collaborator's effect.
func (s *Session) addItemLocked(item chatModels.SuggestedItem) {
	if s.onAddItem != nil {
		s.onAddItem(item.Type, item.Name)
	} else {
		s.logger.Error("no inventory collaborator configured, item not added",
			"item_type", item.Type,
			"item_name", item.Name,
		)
	}

	s.appendMessageLocked(chatModels.SenderSystem, fmt.Sprintf("Added %s to your aquarium.", item.Name))
	s.hub.Publish(chatModels.EventItemAdded, chatModels.ItemAddedEvent{
		ItemType: item.Type,
		ItemName: item.Name,
	})
	s.hub.Publish(chatModels.EventSuggestionsUpdated, chatModels.SuggestionsUpdatedEvent{
		Suggestions: s.ledger.Open(),
	})
}

// buildCompletionMessagesLocked maps the transcript to {role, content} pairs.
// The aquarium-context system entry comes first and is rebuilt on every send;
// System transcript messages are never replayed, only user/assistant turns.
func (s *Session) buildCompletionMessagesLocked() []assistant.Message {
	msgs := make([]assistant.Message, 0, len(s.history)+1)
	msgs = append(msgs, assistant.Message{
		Role:    assistant.RoleSystem,
		Content: BuildSystemPrompt(s.tank),
	})

	for _, m := range s.history {
		switch m.Sender {
		case chatModels.SenderUser:
			msgs = append(msgs, assistant.Message{Role: assistant.RoleUser, Content: m.Text})
		case chatModels.SenderAssistant:
			if m.Text == "" {
				continue
			}
			msgs = append(msgs, assistant.Message{Role: assistant.RoleAssistant, Content: m.Text})
		}
	}
	return msgs
}

func (s *Session) runCompletion(ctx context.Context, msgs []assistant.Message, epoch uint64) {
	resp, err := s.completion.Complete(ctx, &assistant.CompletionRequest{
		Messages: msgs,
		Model:    s.model,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	// Always the final step of the turn, regardless of outcome.
	defer func() { s.awaiting = false }()

	if epoch != s.epoch {
		// The session was cleared while the request was in flight.
		s.logger.Debug("dropping completion response for cleared session", "session_id", s.id)
		return
	}

	if err != nil {
		s.logger.Error("completion service failed", "session_id", s.id, "error", err)
		msg := s.appendMessageLocked(chatModels.SenderAssistant, apologyText)
		s.reveal = chatModels.RevealState{
			Phase:    chatModels.RevealCompleted,
			Target:   apologyText,
			Revealed: apologyText,
		}
		s.hub.Publish(chatModels.EventSessionError, chatModels.SessionErrorEvent{Detail: err.Error()})
		s.hub.Publish(chatModels.EventRevealComplete, chatModels.RevealCompleteEvent{
			MessageID: msg.ID,
			Text:      apologyText,
		})
		return
	}

	parsed := ParseResponse(resp.Content)

	open := s.ledger.Ingest(parsed.Commands, s.currentInventoryNamesLocked())
	s.hub.Publish(chatModels.EventSuggestionsUpdated, chatModels.SuggestionsUpdatedEvent{
		Suggestions: open,
	})

	if parsed.VisibleText == "" {
		s.reveal = chatModels.RevealState{Phase: chatModels.RevealCompleted}
		return
	}

	// The assistant message starts empty and is the only message mutated
	// during the reveal, one tick at a time.
	msg := s.appendMessageLocked(chatModels.SenderAssistant, "")
	s.beginRevealLocked(msg.ID, parsed.VisibleText)
}

func (s *Session) currentInventoryNamesLocked() map[string]struct{} {
	if s.inventoryNames != nil {
		return s.inventoryNames()
	}
	return s.tank.InventoryNames()
}

func (s *Session) beginRevealLocked(messageID, target string) {
	s.revealGen++
	gen := s.revealGen
	s.reveal = chatModels.RevealState{Phase: chatModels.RevealRevealing, Target: target}

	s.scheduler.Begin(target, func(prefix string, done bool) bool {
		return s.applyRevealTick(gen, messageID, prefix, done)
	})
}

// applyRevealTick writes one tick's prefix into the revealed message. The
// generation check makes any tick racing a cancellation or a newer reveal a
// no-op, so no stale write can land after a force-complete or Clear.
func (s *Session) applyRevealTick(gen uint64, messageID, prefix string, done bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.revealGen || s.reveal.Phase != chatModels.RevealRevealing {
		return false
	}

	s.reveal.Revealed = prefix
	s.setMessageTextLocked(messageID, prefix)
	s.hub.Publish(chatModels.EventRevealDelta, chatModels.RevealDeltaEvent{
		MessageID: messageID,
		Revealed:  prefix,
	})

	if done {
		s.reveal.Phase = chatModels.RevealCompleted
		s.hub.Publish(chatModels.EventRevealComplete, chatModels.RevealCompleteEvent{
			MessageID: messageID,
			Text:      s.reveal.Target,
		})
	}
	return true
}

// forceCompleteRevealLocked jumps an active reveal to its full text in one
// step and stops the ticker.
func (s *Session) forceCompleteRevealLocked() {
	s.revealGen++
	s.scheduler.Cancel()

	target := s.reveal.Target
	s.reveal.Revealed = target
	s.reveal.Phase = chatModels.RevealCompleted

	var msgID string
	if i := s.lastAssistantIndexLocked(); i >= 0 {
		s.history[i].Text = target
		msgID = s.history[i].ID
	}
	s.hub.Publish(chatModels.EventRevealComplete, chatModels.RevealCompleteEvent{
		MessageID: msgID,
		Text:      target,
	})
}

func (s *Session) setMessageTextLocked(messageID, text string) {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].ID == messageID {
			s.history[i].Text = text
			return
		}
	}
}

func (s *Session) lastAssistantIndexLocked() int {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Sender == chatModels.SenderAssistant {
			return i
		}
	}
	return -1
}

package chat

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is one session event ready for SSE delivery.
type Event struct {
	Type string
	Data []byte // JSON payload
}

// EventHub fans session events out to connected SSE clients. Each client gets
// its own buffered channel; a client that cannot keep up has events dropped
// rather than blocking the session's handlers.
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]chan Event
	closed  bool
	logger  *slog.Logger
}

// clientBuffer is sized to absorb a full reveal burst between client reads.
const clientBuffer = 256

// NewEventHub creates an empty hub.
func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		clients: make(map[string]chan Event),
		logger:  logger,
	}
}

// AddClient registers a client and returns its event channel. The channel is
// closed when the client is removed or the hub shuts down.
func (h *EventHub) AddClient(clientID string) <-chan Event {
	ch := make(chan Event, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.clients[clientID] = ch
	return ch
}

// RemoveClient unregisters a client and closes its channel. Safe to call for
// unknown ids.
func (h *EventHub) RemoveClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		close(ch)
	}
}

// Publish marshals payload and delivers the event to every client without
// blocking. Delivery to a client with a full buffer is skipped.
func (h *EventHub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal session event", "event_type", eventType, "error", err)
		return
	}
	evt := Event{Type: eventType, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.logger.Warn("dropping session event for slow client",
				"client_id", id,
				"event_type", eventType,
			)
		}
	}
}

// Close shuts the hub down and closes every client channel.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tankmate/internal/handler/sse"
	"tankmate/internal/httputil"
	"tankmate/internal/service/chat"
)

// StreamHandler serves the per-session SSE event stream
type StreamHandler struct {
	manager   *chat.Manager
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(manager *chat.Manager, sseConfig *sse.Config, logger *slog.Logger) *StreamHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &StreamHandler{
		manager:   manager,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// StreamEvents subscribes the caller to a session's event stream
// GET /api/sessions/{id}/events
func (h *StreamHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientID := uuid.New().String()
	events := session.Hub().AddClient(clientID)
	defer session.Hub().RemoveClient(clientID)

	h.logger.Info("sse client connected",
		"session_id", session.ID(),
		"client_id", clientID,
	)

	// All writes to w happen on this goroutine: events and keep-alive
	// pings share the one select loop below.
	writer := sse.NewCommentKeepAliveWriter(w, flusher, clientID)
	ticker := time.NewTicker(h.sseConfig.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				// Session closed, end the stream
				return
			}
			if err := writeEvent(w, flusher, evt); err != nil {
				h.logger.Warn("sse write failed",
					"session_id", session.ID(),
					"client_id", clientID,
					"error", err,
				)
				return
			}

		case <-ticker.C:
			if err := writer.WriteKeepAlive(); err != nil {
				h.logger.Warn("keep-alive write failed, closing stream",
					"session_id", session.ID(),
					"client_id", clientID,
					"error", err,
				)
				return
			}

		case <-r.Context().Done():
			h.logger.Info("sse client disconnected",
				"session_id", session.ID(),
				"client_id", clientID,
			)
			return
		}
	}
}

// writeEvent writes one event in SSE wire format and flushes
func writeEvent(w http.ResponseWriter, flusher http.Flusher, evt chat.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, evt.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

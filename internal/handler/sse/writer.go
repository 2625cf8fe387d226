package sse

import (
	"fmt"
	"net/http"
)

// CommentKeepAliveWriter writes SSE comment lines (: keepalive) to maintain
// the connection for one subscribed client.
type CommentKeepAliveWriter struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	clientID string
}

// NewCommentKeepAliveWriter creates a keep-alive writer for one SSE client
func NewCommentKeepAliveWriter(w http.ResponseWriter, flusher http.Flusher, clientID string) *CommentKeepAliveWriter {
	return &CommentKeepAliveWriter{
		w:        w,
		flusher:  flusher,
		clientID: clientID,
	}
}

// WriteKeepAlive writes an SSE comment (: keepalive\n\n) and flushes.
// Lines starting with : are ignored by EventSource clients.
func (s *CommentKeepAliveWriter) WriteKeepAlive() error {
	if _, err := fmt.Fprintf(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}

	s.flusher.Flush()

	// Zero-byte write detects closed connections between pings
	if _, err := s.w.Write([]byte{}); err != nil {
		return fmt.Errorf("connection closed: %w", err)
	}

	return nil
}

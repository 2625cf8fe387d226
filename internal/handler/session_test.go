package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tankmate/internal/config"
	"tankmate/internal/handler/sse"
	"tankmate/internal/service/chat"
	"tankmate/internal/service/inventory"
	"tankmate/internal/service/llm"
	"tankmate/internal/service/llm/providers/lorem"
)

// newTestMux wires the session, stream and aquarium routes against the
// offline lorem provider.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	return newTestMuxWithSSE(t, sse.DefaultConfig())
}

func newTestMuxWithSSE(t *testing.T, sseConfig *sse.Config) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		DefaultModel:   "lorem-fast",
		RevealInterval: time.Millisecond,
		MaxDraftChars:  500,
	}

	registry := llm.NewRegistry(logger)
	registry.Register(lorem.NewProvider())

	store := inventory.NewStore(logger)
	manager := chat.NewManager()

	sessionHandler := NewSessionHandler(manager, registry, store, cfg, logger)
	streamHandler := NewStreamHandler(manager, sseConfig, logger)
	aquariumHandler := NewAquariumHandler(store, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/messages", sessionHandler.SubmitMessage)
	mux.HandleFunc("POST /api/sessions/{id}/suggestions/confirm", sessionHandler.ConfirmSuggestion)
	mux.HandleFunc("POST /api/sessions/{id}/reveal/complete", sessionHandler.CompleteReveal)
	mux.HandleFunc("POST /api/sessions/{id}/clear", sessionHandler.ClearSession)
	mux.HandleFunc("GET /api/sessions/{id}/events", streamHandler.StreamEvents)
	mux.HandleFunc("GET /api/aquariums", aquariumHandler.ListAquariums)
	mux.HandleFunc("POST /api/aquariums", aquariumHandler.CreateAquarium)
	mux.HandleFunc("GET /api/aquariums/{id}", aquariumHandler.GetAquarium)
	mux.HandleFunc("DELETE /api/aquariums/{id}", aquariumHandler.DeleteAquarium)
	mux.HandleFunc("POST /api/aquariums/{id}/items", aquariumHandler.AddItem)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) chat.Snapshot {
	t.Helper()
	var snap chat.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (body: %s)", err, rec.Body.String())
	}
	return snap
}

func createSession(t *testing.T, mux *http.ServeMux, body map[string]any) chat.Snapshot {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, body: %s", rec.Code, rec.Body.String())
	}
	return decodeSnapshot(t, rec)
}

func TestCreateAndGetSession(t *testing.T) {
	mux := newTestMux(t)

	snap := createSession(t, mux, map[string]any{
		"aquarium":        map[string]any{"name": "Community Tank"},
		"initial_prompts": []string{"What fish fit a 60L tank?"},
	})
	if snap.ID == "" {
		t.Fatal("expected session id")
	}
	if snap.Aquarium == nil || snap.Aquarium.Name != "Community Tank" {
		t.Errorf("aquarium not attached: %+v", snap.Aquarium)
	}
	if len(snap.InitialPrompts) != 1 {
		t.Errorf("initial prompts = %+v", snap.InitialPrompts)
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/sessions/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", rec.Code)
	}
}

func TestCreateSessionUnknownModel(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/sessions", map[string]any{
		"model": "claude-haiku-4-5",
	})
	// Only the lorem provider is registered in this wiring
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitMessageValidation(t *testing.T) {
	mux := newTestMux(t)
	snap := createSession(t, mux, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing text", map[string]any{}},
		{"blank is handled by required", map[string]any{"text": ""}},
		{"over draft bound", map[string]any{"text": string(bytes.Repeat([]byte("x"), 501))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/messages", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSubmitSuggestConfirmFlow(t *testing.T) {
	mux := newTestMux(t)
	snap := createSession(t, mux, map[string]any{
		"model":    "lorem-suggest",
		"aquarium": map[string]any{"name": "Fresh Start"},
	})
	tankID := snap.Aquarium.ID

	rec := doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/messages", map[string]any{
		"text": "what should I add?",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var submitResp SubmitMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitResp.Outcome != chat.SubmitDispatched {
		t.Fatalf("outcome = %q, want %q", submitResp.Outcome, chat.SubmitDispatched)
	}

	// The lorem-suggest model always proposes one item per reply
	var current chat.Snapshot
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		current = decodeSnapshot(t, doJSON(t, mux, http.MethodGet, "/api/sessions/"+snap.ID, nil))
		if len(current.Suggestions) == 1 && !current.Awaiting {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(current.Suggestions) != 1 {
		t.Fatalf("suggestions = %+v, want 1", current.Suggestions)
	}
	suggestion := current.Suggestions[0]

	rec = doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/suggestions/confirm", map[string]any{
		"suggestion_id": suggestion.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body: %s", rec.Code, rec.Body.String())
	}

	confirmed := decodeSnapshot(t, rec)
	if len(confirmed.Suggestions) != 0 {
		t.Errorf("suggestions should be empty after confirm: %+v", confirmed.Suggestions)
	}
	lastMsg := confirmed.History[len(confirmed.History)-1]
	if lastMsg.Text != fmt.Sprintf("Added %s to your aquarium.", suggestion.Name) {
		t.Errorf("confirmation message = %q", lastMsg.Text)
	}

	// The item landed in the backing aquarium
	rec = doJSON(t, mux, http.MethodGet, "/api/aquariums/"+tankID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get aquarium status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(suggestion.Name)) {
		t.Errorf("aquarium missing confirmed item %q: %s", suggestion.Name, rec.Body.String())
	}

	// Confirming again is a 404
	rec = doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/suggestions/confirm", map[string]any{
		"suggestion_id": suggestion.ID,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("second confirm status = %d, want 404", rec.Code)
	}
}

func TestClearAndDeleteSession(t *testing.T) {
	mux := newTestMux(t)
	snap := createSession(t, mux, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/messages", map[string]any{
		"text": "hello there",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/sessions/"+snap.ID+"/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	cleared := decodeSnapshot(t, rec)
	if len(cleared.History) != 0 {
		t.Errorf("history after clear = %+v", cleared.History)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/sessions/"+snap.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted session status = %d, want 404", rec.Code)
	}
}

func TestAquariumCRUD(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/aquariums", map[string]any{
		"name":       "Shrimp Tank",
		"volume_l":   30,
		"water_type": "freshwater",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Validation failures
	rec = doJSON(t, mux, http.MethodPost, "/api/aquariums", map[string]any{
		"water_type": "brackish",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid aquarium status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/aquariums/"+created.ID+"/items", map[string]any{
		"item_type": "shrimp",
		"item_name": "Cherry Shrimp",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid item type status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/aquariums/"+created.ID+"/items", map[string]any{
		"item_type": "equipment",
		"item_name": "Sponge Filter",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Sponge Filter")) {
		t.Errorf("item missing from response: %s", rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/aquariums", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/aquariums/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/api/aquariums/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted aquarium status = %d, want 404", rec.Code)
	}
}

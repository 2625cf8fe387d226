package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tankmate/internal/config"
	"tankmate/internal/domain/models/aquarium"
	chatModels "tankmate/internal/domain/models/chat"
	"tankmate/internal/httputil"
	"tankmate/internal/service/chat"
	"tankmate/internal/service/inventory"
	"tankmate/internal/service/llm"
)

// SessionHandler handles chat session HTTP requests
type SessionHandler struct {
	manager   *chat.Manager
	registry  *llm.Registry
	inventory *inventory.Store
	config    *config.Config
	logger    *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	manager *chat.Manager,
	registry *llm.Registry,
	store *inventory.Store,
	cfg *config.Config,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		manager:   manager,
		registry:  registry,
		inventory: store,
		config:    cfg,
		logger:    logger,
	}
}

// CreateSessionRequest is the body of POST /api/sessions.
// Either an inline aquarium snapshot or the id of a stored one may be given;
// with neither, the session starts against an empty aquarium.
type CreateSessionRequest struct {
	AquariumID     string             `json:"aquarium_id"`
	Aquarium       *aquarium.Aquarium `json:"aquarium"`
	Model          string             `json:"model"`
	InitialPrompts []string           `json:"initial_prompts"`
}

func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Model, validation.Length(0, 128)),
		validation.Field(&r.InitialPrompts, validation.Each(validation.Length(1, 500))),
	)
}

// SubmitMessageRequest is the body of POST /api/sessions/{id}/messages.
type SubmitMessageRequest struct {
	Text string `json:"text"`
}

func (r SubmitMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.RuneLength(1, 500)),
	)
}

// ConfirmSuggestionRequest is the body of POST /api/sessions/{id}/suggestions/confirm.
type ConfirmSuggestionRequest struct {
	SuggestionID string `json:"suggestion_id"`
}

func (r ConfirmSuggestionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SuggestionID, validation.Required),
	)
}

// SubmitMessageResponse reports which path the submit took alongside the
// refreshed session snapshot.
type SubmitMessageResponse struct {
	Outcome  chat.SubmitOutcome `json:"outcome"`
	Snapshot chat.Snapshot      `json:"snapshot"`
}

// CreateSession creates a new chat session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	model := req.Model
	if model == "" {
		model = h.config.DefaultModel
	}
	provider, bareModel, err := h.registry.GetForModel(model)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tank, err := h.resolveAquarium(&req)
	if err != nil {
		handleError(w, err)
		return
	}

	tankID := tank.ID
	session := chat.NewSession(chat.Options{
		Completion:     provider,
		Model:          bareModel,
		RevealInterval: h.config.RevealInterval,
		MaxDraftChars:  h.config.MaxDraftChars,
		InitialPrompts: req.InitialPrompts,
		Aquarium:       tank,
		OnAddItem: func(itemType chatModels.ItemType, itemName string) {
			h.inventory.AddItem(tankID, itemType, itemName)
		},
		InventoryNames: func() map[string]struct{} {
			return h.inventory.Names(tankID)
		},
		Logger: h.logger,
	})
	h.manager.Add(session)

	h.logger.Info("session created",
		"session_id", session.ID(),
		"model", model,
		"aquarium_id", tankID,
		"user_id", httputil.GetUserID(r),
	)

	httputil.RespondJSON(w, http.StatusCreated, session.Snapshot())
}

// resolveAquarium returns the stored aquarium backing the session, creating
// one from the inline snapshot (or from nothing) when no id was sent.
func (h *SessionHandler) resolveAquarium(req *CreateSessionRequest) (*aquarium.Aquarium, error) {
	if req.AquariumID != "" {
		return h.inventory.Get(req.AquariumID)
	}
	if req.Aquarium != nil {
		return h.inventory.Upsert(*req.Aquarium), nil
	}
	return h.inventory.Upsert(aquarium.Aquarium{Name: "My Aquarium"}), nil
}

// GetSession returns a session state snapshot
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// SubmitMessage submits user text. While a reveal is active the send
// fast-forwards the reveal instead; the outcome field tells the client which
// path was taken.
// POST /api/sessions/{id}/messages
func (h *SessionHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	var req SubmitMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := session.SubmitOrAccelerate(req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	if outcome == chat.SubmitConfirmed {
		h.refreshSessionAquarium(session)
	}

	httputil.RespondJSON(w, http.StatusAccepted, SubmitMessageResponse{
		Outcome:  outcome,
		Snapshot: session.Snapshot(),
	})
}

// ConfirmSuggestion confirms an open suggestion by id
// POST /api/sessions/{id}/suggestions/confirm
func (h *SessionHandler) ConfirmSuggestion(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	var req ConfirmSuggestionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := session.ConfirmSuggestion(req.SuggestionID); err != nil {
		handleError(w, err)
		return
	}
	h.refreshSessionAquarium(session)

	httputil.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// CompleteReveal force-completes an active reveal
// POST /api/sessions/{id}/reveal/complete
func (h *SessionHandler) CompleteReveal(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	session.SkipReveal()
	httputil.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// ClearSession empties the transcript and open suggestions
// POST /api/sessions/{id}/clear
func (h *SessionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	session.Clear()
	httputil.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// SetAquarium replaces the aquarium context snapshot used for future sends
// PUT /api/sessions/{id}/aquarium
func (h *SessionHandler) SetAquarium(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	var tank aquarium.Aquarium
	if err := httputil.ParseJSON(w, r, &tank); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := tank.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored := h.inventory.Upsert(tank)
	session.SetAquarium(stored)

	httputil.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// DeleteSession drops a session from the manager and releases its resources
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Remove(r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// refreshSessionAquarium reloads the stored aquarium into the session so the
// next prompt build sees the item that was just added.
func (h *SessionHandler) refreshSessionAquarium(session *chat.Session) {
	snap := session.Snapshot()
	if snap.Aquarium == nil {
		return
	}
	tank, err := h.inventory.Get(snap.Aquarium.ID)
	if err != nil {
		h.logger.Warn("aquarium refresh failed", "aquarium_id", snap.Aquarium.ID, "error", err)
		return
	}
	session.SetAquarium(tank)
}

package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tankmate/internal/domain/models/aquarium"
	chatModels "tankmate/internal/domain/models/chat"
	"tankmate/internal/httputil"
	"tankmate/internal/service/inventory"
)

// AquariumHandler handles aquarium inventory HTTP requests. The backing
// store is volatile; these endpoints exist for the chat collaborator, not as
// a persistence layer.
type AquariumHandler struct {
	inventory *inventory.Store
	logger    *slog.Logger
}

// NewAquariumHandler creates a new aquarium handler
func NewAquariumHandler(store *inventory.Store, logger *slog.Logger) *AquariumHandler {
	return &AquariumHandler{
		inventory: store,
		logger:    logger,
	}
}

// AddItemRequest is the body of POST /api/aquariums/{id}/items.
type AddItemRequest struct {
	ItemType string `json:"item_type"`
	ItemName string `json:"item_name"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemType, validation.Required, validation.In("fish", "plant", "equipment")),
		validation.Field(&r.ItemName, validation.Required, validation.Length(1, 128)),
	)
}

// ListAquariums returns all stored aquariums
// GET /api/aquariums
func (h *AquariumHandler) ListAquariums(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"aquariums": h.inventory.List(),
	})
}

// CreateAquarium stores an aquarium snapshot
// POST /api/aquariums
func (h *AquariumHandler) CreateAquarium(w http.ResponseWriter, r *http.Request) {
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
	httputil.RespondJSON(w, http.StatusCreated, stored)
}

// GetAquarium returns one aquarium by id
// GET /api/aquariums/{id}
func (h *AquariumHandler) GetAquarium(w http.ResponseWriter, r *http.Request) {
	tank, err := h.inventory.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tank)
}

// AddItem appends an item to an aquarium's inventory, the same path a
// confirmed chat suggestion takes
// POST /api/aquariums/{id}/items
func (h *AquariumHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.inventory.Get(id); err != nil {
		handleError(w, err)
		return
	}

	var req AddItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	itemType, _ := chatModels.ParseItemType(req.ItemType)
	h.inventory.AddItem(id, itemType, req.ItemName)

	tank, err := h.inventory.Get(id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tank)
}

// DeleteAquarium removes an aquarium
// DELETE /api/aquariums/{id}
func (h *AquariumHandler) DeleteAquarium(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

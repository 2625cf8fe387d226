package inventory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"tankmate/internal/domain"
	"tankmate/internal/domain/models/aquarium"
	chatModels "tankmate/internal/domain/models/chat"
)

// Store is the host-side inventory collaborator: a volatile, in-memory
// registry of aquarium snapshots. Confirmed chat suggestions land here via
// AddItem. Deliberately not persisted.
type Store struct {
	mu     sync.RWMutex
	tanks  map[string]*aquarium.Aquarium
	logger *slog.Logger
}

// NewStore creates an empty inventory store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		tanks:  make(map[string]*aquarium.Aquarium),
		logger: logger,
	}
}

// Upsert stores an aquarium snapshot, assigning an id when absent, and
// returns the stored copy.
func (s *Store) Upsert(tank aquarium.Aquarium) *aquarium.Aquarium {
	if tank.ID == "" {
		tank.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := tank.Clone()
	s.tanks[tank.ID] = &stored
	out := stored.Clone()
	return &out
}

// Get returns the aquarium with the given id.
func (s *Store) Get(id string) (*aquarium.Aquarium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tank, ok := s.tanks[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "aquarium not found"}
	}
	copied := tank.Clone()
	return &copied, nil
}

// Delete removes the aquarium with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tanks[id]; !ok {
		return &domain.NotFoundError{Message: "aquarium not found"}
	}
	delete(s.tanks, id)
	return nil
}

// List returns all stored aquariums.
func (s *Store) List() []aquarium.Aquarium {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]aquarium.Aquarium, 0, len(s.tanks))
	for _, tank := range s.tanks {
		out = append(out, tank.Clone())
	}
	return out
}

// AddItem appends a confirmed suggestion to the aquarium's inventory.
// It is the InventorySink wired into chat sessions; the session does not
// await or validate its effect, so failures are only logged.
func (s *Store) AddItem(aquariumID string, itemType chatModels.ItemType, itemName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tank, ok := s.tanks[aquariumID]
	if !ok {
		s.logger.Error("add item: aquarium not found",
			"aquarium_id", aquariumID,
			"item_type", itemType,
			"item_name", itemName,
		)
		return
	}

	switch itemType {
	case chatModels.ItemTypeFish:
		tank.Fish = append(tank.Fish, aquarium.Inhabitant{Name: itemName, Quantity: 1})
	case chatModels.ItemTypePlant:
		tank.Plants = append(tank.Plants, aquarium.Inhabitant{Name: itemName, Quantity: 1})
	case chatModels.ItemTypeEquipment:
		tank.Equipment = append(tank.Equipment, aquarium.Equipment{Name: itemName})
	default:
		s.logger.Error("add item: unknown item type",
			"aquarium_id", aquariumID,
			"item_type", itemType,
		)
		return
	}

	s.logger.Info("inventory item added",
		"aquarium_id", aquariumID,
		"item_type", itemType,
		"item_name", itemName,
	)
}

// Names returns the case-folded inventory names of one aquarium, for the
// suggestion ledger's duplicate filtering. Unknown ids yield an empty set.
func (s *Store) Names(aquariumID string) map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tank, ok := s.tanks[aquariumID]
	if !ok {
		return map[string]struct{}{}
	}
	return tank.InventoryNames()
}

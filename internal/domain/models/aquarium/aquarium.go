package aquarium

import (
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Inhabitant is a named occupant of an aquarium (a fish or a plant).
type Inhabitant struct {
	Name     string `json:"name"`
	Species  string `json:"species,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// Equipment is an installed piece of hardware (filter, heater, light...).
type Equipment struct {
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
}

// Aquarium is the read-only snapshot a chat session is contextualized with.
// The session never mutates it; the prompt builder re-renders it on every
// completion call, and the ledger uses InventoryNames for duplicate filtering.
type Aquarium struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	VolumeL   float64      `json:"volume_l,omitempty"`
	WaterType string       `json:"water_type,omitempty"` // "freshwater" or "saltwater"
	Fish      []Inhabitant `json:"fish,omitempty"`
	Plants    []Inhabitant `json:"plants,omitempty"`
	Equipment []Equipment  `json:"equipment,omitempty"`
}

// Validate checks the snapshot's user-supplied fields.
func (a Aquarium) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&a.VolumeL, validation.Min(0.0)),
		validation.Field(&a.WaterType, validation.In("", "freshwater", "saltwater")),
	)
}

// Clone returns a copy whose inventory slices share no backing arrays
// with the receiver.
func (a Aquarium) Clone() Aquarium {
	a.Fish = slices.Clone(a.Fish)
	a.Plants = slices.Clone(a.Plants)
	a.Equipment = slices.Clone(a.Equipment)
	return a
}

// InventoryNames returns the case-folded set of every fish, plant and
// equipment name currently in the aquarium.
func (a *Aquarium) InventoryNames() map[string]struct{} {
	if a == nil {
		return map[string]struct{}{}
	}
	names := make(map[string]struct{}, len(a.Fish)+len(a.Plants)+len(a.Equipment))
	for _, f := range a.Fish {
		names[strings.ToLower(strings.TrimSpace(f.Name))] = struct{}{}
	}
	for _, p := range a.Plants {
		names[strings.ToLower(strings.TrimSpace(p.Name))] = struct{}{}
	}
	for _, e := range a.Equipment {
		names[strings.ToLower(strings.TrimSpace(e.Name))] = struct{}{}
	}
	delete(names, "")
	return names
}

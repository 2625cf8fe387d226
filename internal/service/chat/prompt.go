package chat

import (
	"fmt"
	"strings"

	"tankmate/internal/domain/models/aquarium"
)

// assistantInstructions is the fixed persona and wire-protocol preamble for
// the completion service. The command grammar here must stay in lockstep with
// the parser: literal "###" separator, then repeated
// [ADD_ITEM type="fish|plant|equipment"]Item Name[/ADD_ITEM] tags.
const assistantInstructions = `You are a friendly aquarium-keeping assistant. You help the user plan and maintain their aquarium: stocking choices, plant selection, equipment, compatibility and water care.

When you want to propose adding something to the user's aquarium, first write your normal reply, then a line containing only ###, then one command tag per proposed item:
[ADD_ITEM type="fish"]Item Name[/ADD_ITEM]
The type must be exactly one of: fish, plant, equipment. Propose at most 3 items per reply. Never propose an item the aquarium already contains. If you have nothing to propose, omit the ### separator entirely.`

// BuildSystemPrompt renders the system-role entry that prefixes every
// completion call: persona + command protocol + the current aquarium
// snapshot. Rebuilt on every send, never cached, so inventory changes made
// between turns are always visible to the assistant.
func BuildSystemPrompt(tank *aquarium.Aquarium) string {
	if tank == nil {
		return assistantInstructions
	}

	var b strings.Builder
	b.WriteString(assistantInstructions)
	b.WriteString("\n\nThe user's aquarium:\n")
	fmt.Fprintf(&b, "Name: %s\n", tank.Name)
	if tank.VolumeL > 0 {
		fmt.Fprintf(&b, "Volume: %.0f liters\n", tank.VolumeL)
	}
	if tank.WaterType != "" {
		fmt.Fprintf(&b, "Water: %s\n", tank.WaterType)
	}
	writeInhabitants(&b, "Fish", tank.Fish)
	writeInhabitants(&b, "Plants", tank.Plants)
	if len(tank.Equipment) > 0 {
		names := make([]string, 0, len(tank.Equipment))
		for _, e := range tank.Equipment {
			names = append(names, e.Name)
		}
		fmt.Fprintf(&b, "Equipment: %s\n", strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeInhabitants(b *strings.Builder, label string, list []aquarium.Inhabitant) {
	if len(list) == 0 {
		return
	}
	names := make([]string, 0, len(list))
	for _, in := range list {
		if in.Quantity > 1 {
			names = append(names, fmt.Sprintf("%s x%d", in.Name, in.Quantity))
		} else {
			names = append(names, in.Name)
		}
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(names, ", "))
}

package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EssenceDecay is how long dropped essence survives before fading.
const EssenceDecay = time.Hour

// World is the complete game state: the immutable content registries
// produced by the loader plus the mutable session state hanging off
// locations and quests.
type World struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Version string `json:"version"`
	Intro   string `json:"intro,omitempty"`
	Start   string `json:"start"`

	// StartingItems are granted to a fresh player; equippable ones are
	// equipped on the spot.
	StartingItems []string `json:"starting_items,omitempty"`

	Locations map[string]*Location `json:"locations"`
	NPCs      map[string]*NPC      `json:"npcs"`
	Items     map[string]*Item     `json:"items"`
	Quests    map[string]*Quest    `json:"quests"`
	Regions   map[string][]string  `json:"regions,omitempty"`
}

// Location returns the location with the given id, or an error naming it.
func (w *World) Location(id string) (*Location, error) {
	l, ok := w.Locations[id]
	if !ok {
		return nil, fmt.Errorf("unknown location %q", id)
	}
	return l, nil
}

// Quest returns the quest with the given id, or nil.
func (w *World) Quest(id string) *Quest {
	return w.Quests[id]
}

// QuestCompleted reports whether the named quest has been finished.
func (w *World) QuestCompleted(id string) bool {
	q := w.Quests[id]
	return q != nil && q.Completed
}

// ActiveQuests returns the quests currently underway.
func (w *World) ActiveQuests() []*Quest {
	var out []*Quest
	for _, q := range w.Quests {
		if q.Active() {
			out = append(out, q)
		}
	}
	return out
}

// SpawnNPC instantiates a hostile from its template with a fresh
// instance id.
func (w *World) SpawnNPC(templateID string) (*NPC, error) {
	tmpl, ok := w.NPCs[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown npc template %q", templateID)
	}
	inst := tmpl.Clone()
	inst.InstanceID = uuid.NewString()
	return inst, nil
}

// ItemInstance produces an independent copy of an item template.
func (w *World) ItemInstance(id string) (*Item, error) {
	tmpl, ok := w.Items[id]
	if !ok {
		return nil, fmt.Errorf("unknown item %q", id)
	}
	return tmpl.Clone(), nil
}

// NPCTemplate returns the registered template, or nil.
func (w *World) NPCTemplate(id string) *NPC {
	return w.NPCs[id]
}

// OutfitPlayer grants the world's starting items to a fresh player and
// equips whatever can be worn or wielded.
func (w *World) OutfitPlayer(p *Player) {
	for _, id := range w.StartingItems {
		it, err := w.ItemInstance(id)
		if err != nil {
			continue
		}
		if !p.Inventory.Add(it) {
			continue
		}
		if it.Equippable() {
			p.Inventory.Equip(it)
		}
	}
}

// Refresh advances background world state: dead enemies are pruned from
// every location and dropped essence past the decay window fades. Returns
// the number of pruned enemies and whether any essence faded.
func (w *World) Refresh(now time.Time, decay time.Duration) (pruned int, faded bool) {
	if decay <= 0 {
		decay = EssenceDecay
	}
	for _, l := range w.Locations {
		pruned += l.PruneDead()
		if l.Essence != nil && now.Sub(l.Essence.DroppedAt) > decay {
			l.Essence = nil
			faded = true
		}
	}
	return pruned, faded
}

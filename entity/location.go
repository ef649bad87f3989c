package entity

import "time"

// VisitGate blocks entry to a location until its condition is met.
// Reason is shown to the player when the gate refuses them.
type VisitGate struct {
	Condition Condition `json:"condition"`
	Reason    string    `json:"reason"`
}

// EssenceDrop is essence left on the ground where the player died.
// It can be reclaimed until the decay window elapses.
type EssenceDrop struct {
	Amount    int       `json:"amount"`
	DroppedAt time.Time `json:"dropped_at"`
}

// Location is one area of the world. Connections map directions to
// location ids. SpawnPool lists hostile templates that may appear when
// the player arrives; boss areas spawn exactly the first pool entry.
type Location struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Region      string            `json:"region,omitempty"`
	Connections map[string]string `json:"connections"`
	NPCs        []string          `json:"npcs,omitempty"`
	SpawnPool   []string          `json:"spawn_pool,omitempty"`
	Boss        bool              `json:"boss,omitempty"`
	Gates       []VisitGate       `json:"gates,omitempty"`

	// Beacon locations are rest points. A protected beacon has a guardian
	// that must fall before the beacon unlocks.
	Beacon   bool   `json:"beacon,omitempty"`
	Guardian string `json:"guardian,omitempty"`
	Unlocked bool   `json:"unlocked,omitempty"`

	// Mutable per-session state.
	Items         []*Item      `json:"items,omitempty"`
	ActiveEnemies []*NPC       `json:"active_enemies,omitempty"`
	Essence       *EssenceDrop `json:"essence,omitempty"`
	Cleared       bool         `json:"cleared,omitempty"`
}

// CanVisit checks the location's gates against the player and returns
// the refusal reason when blocked.
func (l *Location) CanVisit(p *Player, w *World) (bool, string) {
	for _, g := range l.Gates {
		if !g.Condition.Met(p, nil, w) {
			return false, g.Reason
		}
	}
	return true, ""
}

// FindEnemy resolves a player-typed reference among active enemies.
func (l *Location) FindEnemy(ref string) *NPC {
	for _, e := range l.ActiveEnemies {
		if e.IsAlive() && e.Matches(ref) {
			return e
		}
	}
	return nil
}

// FindItem resolves a reference among ground items.
func (l *Location) FindItem(ref string) *Item {
	for _, it := range l.Items {
		if it.Matches(ref) {
			return it
		}
	}
	return nil
}

// RemoveItem takes an item instance off the ground.
func (l *Location) RemoveItem(it *Item) {
	for i, have := range l.Items {
		if have == it {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return
		}
	}
}

// RemoveEnemy drops a defeated instance from the active list.
func (l *Location) RemoveEnemy(n *NPC) {
	for i, e := range l.ActiveEnemies {
		if e == n {
			l.ActiveEnemies = append(l.ActiveEnemies[:i], l.ActiveEnemies[i+1:]...)
			return
		}
	}
}

// PruneDead removes enemy instances with no health left and returns how
// many were pruned.
func (l *Location) PruneDead() int {
	kept := l.ActiveEnemies[:0]
	pruned := 0
	for _, e := range l.ActiveEnemies {
		if e.IsAlive() {
			kept = append(kept, e)
		} else {
			pruned++
		}
	}
	l.ActiveEnemies = kept
	return pruned
}

package entity

// ConditionKind names the checks a condition can express. Conditions gate
// dialogue responses, location visits and quest availability.
type ConditionKind string

const (
	CondPlayerFlag    ConditionKind = "player_flag"
	CondNPCFlag       ConditionKind = "npc_flag"
	CondQuestComplete ConditionKind = "quest_complete"
	CondHasItem       ConditionKind = "has_item"
	CondMinLevel      ConditionKind = "min_level"
)

// Condition is a single predicate over player, NPC and world state.
// Only the fields relevant to its kind are set.
type Condition struct {
	Kind    ConditionKind `json:"kind"`
	Flag    string        `json:"flag,omitempty"`
	Value   string        `json:"value,omitempty"`
	QuestID string        `json:"quest_id,omitempty"`
	ItemID  string        `json:"item_id,omitempty"`
	Level   int           `json:"level,omitempty"`
}

// Met evaluates the condition. npc may be nil for contexts without a
// conversation partner (location gates, quest prerequisites); an npc_flag
// condition without an NPC is never met. Unknown kinds are never met.
func (c Condition) Met(p *Player, npc *NPC, w *World) bool {
	switch c.Kind {
	case CondPlayerFlag:
		return p != nil && p.Flags[c.Flag] == c.Value
	case CondNPCFlag:
		return npc != nil && npc.Flags[c.Flag] == c.Value
	case CondQuestComplete:
		return w != nil && w.QuestCompleted(c.QuestID)
	case CondHasItem:
		return p != nil && p.Inventory.Has(c.ItemID)
	case CondMinLevel:
		return p != nil && p.Level >= c.Level
	}
	return false
}

// AllMet reports whether every condition in the slice holds.
func AllMet(conds []Condition, p *Player, npc *NPC, w *World) bool {
	for _, c := range conds {
		if !c.Met(p, npc, w) {
			return false
		}
	}
	return true
}

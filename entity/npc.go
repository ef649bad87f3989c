package entity

import "strings"

// Ability is a special move an enemy can open with instead of a plain
// attack. Kind selects the behavior; summon is recognized but resolves to
// narration only.
type Ability struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "aoe_attack", "heal", "status", "summon"
	Damage   int    `json:"damage,omitempty"`
	Heal     int    `json:"heal,omitempty"`
	Effect   string `json:"effect,omitempty"`
	Potency  int    `json:"potency,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// LootDrop is one chance-based entry in a loot table.
type LootDrop struct {
	ItemID string  `json:"item_id"`
	Chance float64 `json:"chance"`
}

// LootTable describes what a defeated enemy yields.
type LootTable struct {
	EssenceMin int        `json:"essence_min"`
	EssenceMax int        `json:"essence_max"`
	Guaranteed []string   `json:"guaranteed,omitempty"`
	Drops      []LootDrop `json:"drops,omitempty"`
}

// ShopEntry is one item a merchant sells, priced in essence.
type ShopEntry struct {
	ItemID string `json:"item_id"`
	Price  int    `json:"price"`
}

// NPC is any non-player character: friendly villagers, merchants, quest
// givers and hostile enemies alike. Templates live in the world registry;
// hostile instances are cloned from them with a fresh InstanceID.
type NPC struct {
	ID          string `json:"id"`
	InstanceID  string `json:"instance_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Friendly    bool   `json:"friendly"`
	Merchant    bool   `json:"merchant,omitempty"`
	Level       int    `json:"level"`

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`

	Abilities []Ability  `json:"abilities,omitempty"`
	Loot      *LootTable `json:"loot,omitempty"`
	Shop      []ShopEntry `json:"shop,omitempty"`

	// Dialogue is the conversation graph keyed by node id; "greeting" is
	// the entry node. The graph is immutable and shared between a template
	// and its instances; only Cursor and Flags are per-character state.
	Dialogue map[string]*DialogueNode `json:"dialogue,omitempty"`
	Cursor   string                   `json:"cursor,omitempty"`
	Flags    map[string]string        `json:"flags,omitempty"`
}

// DialogueNode is one step of a conversation graph. A node either
// carries display Text, or carries a Condition with Success and Failure
// branches; a branching node's utterance and onward hop come from
// whichever branch the condition selects on entry.
type DialogueNode struct {
	ID        string             `json:"id"`
	Text      string             `json:"text,omitempty"`
	Condition *Condition         `json:"condition,omitempty"`
	Success   *DialogueBranch    `json:"success,omitempty"`
	Failure   *DialogueBranch    `json:"failure,omitempty"`
	Responses []DialogueResponse `json:"responses,omitempty"`
}

// DialogueBranch is one arm of a conditioned node: what the NPC says and
// where the conversation lands afterwards. An empty Next stays on the
// branching node's own responses.
type DialogueBranch struct {
	Text string `json:"text"`
	Next string `json:"next,omitempty"`
}

// DialogueResponse is a player choice at a node. An empty Next ends the
// conversation after applying effects. ResponseText, when set, is the
// NPC's direct reply to picking this choice.
type DialogueResponse struct {
	Text         string           `json:"text"`
	ResponseText string           `json:"response_text,omitempty"`
	Next         string           `json:"next,omitempty"`
	Conditions   []Condition      `json:"conditions,omitempty"`
	Effects      []DialogueEffect `json:"effects,omitempty"`
}

// DialogueEffect is a side effect applied when a response is chosen.
type DialogueEffect struct {
	Kind    string `json:"kind"` // "set_npc_flag", "set_player_flag", "start_quest", "give_item"
	Flag    string `json:"flag,omitempty"`
	Value   string `json:"value,omitempty"`
	QuestID string `json:"quest_id,omitempty"`
	ItemID  string `json:"item_id,omitempty"`
}

// IsAlive reports whether the NPC has health remaining.
func (n *NPC) IsAlive() bool {
	return n.Health > 0
}

// Hostile reports whether talking to this NPC starts combat instead.
func (n *NPC) Hostile() bool {
	return !n.Friendly
}

// TakeDamage applies raw damage through the NPC's own mitigation
// (defense/(defense+50), minimum 1) and returns the damage dealt.
func (n *NPC) TakeDamage(raw int) int {
	d := float64(n.Defense)
	dealt := int(float64(raw) * (1 - d/(d+50)))
	if dealt < 1 {
		dealt = 1
	}
	n.Health -= dealt
	return dealt
}

// Matches reports whether the player-typed reference names this NPC,
// exactly by id or name or as a partial name match.
func (n *NPC) Matches(ref string) bool {
	if strings.EqualFold(ref, n.ID) || strings.EqualFold(ref, n.Name) {
		return true
	}
	return len(ref) >= 3 && strings.Contains(strings.ToLower(n.Name), strings.ToLower(ref))
}

// Clone returns an independent combat instance of the NPC template. The
// dialogue graph stays shared; flags and abilities are copied.
func (n *NPC) Clone() *NPC {
	cp := *n
	cp.Abilities = append([]Ability(nil), n.Abilities...)
	cp.Shop = append([]ShopEntry(nil), n.Shop...)
	if n.Loot != nil {
		loot := *n.Loot
		loot.Guaranteed = append([]string(nil), n.Loot.Guaranteed...)
		loot.Drops = append([]LootDrop(nil), n.Loot.Drops...)
		cp.Loot = &loot
	}
	cp.Flags = make(map[string]string, len(n.Flags))
	for k, v := range n.Flags {
		cp.Flags[k] = v
	}
	cp.Cursor = ""
	return &cp
}

package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/ardenvale/entity"
)

// rawDef holds a named Lua table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawItem additionally carries the kind its constructor implies.
type rawItem struct {
	id    string
	kind  entity.ItemKind
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringMap converts a Lua table to a map[string]string.
func stringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// numberMap converts a Lua table to a map[string]float64.
func numberMap(tbl *lua.LTable) map[string]float64 {
	if tbl == nil {
		return nil
	}
	m := map[string]float64{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vn, ok := v.(lua.LNumber); ok {
				m[string(ks)] = float64(vn)
			}
		}
	})
	return m
}

// stringList converts an array-style Lua table to a []string.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// eachTable calls fn for every table element of an array-style Lua table.
func eachTable(tbl *lua.LTable, fn func(*lua.LTable) error) error {
	if tbl == nil {
		return nil
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			if err := fn(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// compile converts all collected Lua data into a World. Items compile
// first so locations can instantiate their ground items from templates.
func compile(coll *collector) (*entity.World, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	w := &entity.World{
		Title:         getString(coll.game, "title"),
		Author:        getString(coll.game, "author"),
		Version:       getString(coll.game, "version"),
		Intro:         getString(coll.game, "intro"),
		Start:         getString(coll.game, "start"),
		StartingItems: stringList(getTable(coll.game, "starting_items")),
		Locations:     map[string]*entity.Location{},
		NPCs:          map[string]*entity.NPC{},
		Items:         map[string]*entity.Item{},
		Quests:        map[string]*entity.Quest{},
	}

	if regions := getTable(coll.game, "regions"); regions != nil {
		w.Regions = map[string][]string{}
		regions.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			if vt, ok := v.(*lua.LTable); ok {
				w.Regions[string(ks)] = stringList(vt)
			}
		})
	}

	for _, raw := range coll.items {
		if _, dup := w.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item id %q", raw.id)
		}
		it, err := compileItem(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling item %s: %w", raw.id, err)
		}
		w.Items[raw.id] = it
	}

	for _, raw := range coll.npcs {
		if _, dup := w.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate npc id %q", raw.id)
		}
		n, err := compileNPC(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling npc %s: %w", raw.id, err)
		}
		w.NPCs[raw.id] = n
	}

	for _, raw := range coll.quests {
		if _, dup := w.Quests[raw.id]; dup {
			return nil, fmt.Errorf("duplicate quest id %q", raw.id)
		}
		q, err := compileQuest(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling quest %s: %w", raw.id, err)
		}
		w.Quests[raw.id] = q
	}

	for _, raw := range coll.locations {
		if _, dup := w.Locations[raw.id]; dup {
			return nil, fmt.Errorf("duplicate location id %q", raw.id)
		}
		l, err := compileLocation(raw, w)
		if err != nil {
			return nil, fmt.Errorf("compiling location %s: %w", raw.id, err)
		}
		w.Locations[raw.id] = l
	}

	return w, nil
}

func compileItem(raw rawItem) (*entity.Item, error) {
	tbl := raw.table
	it := &entity.Item{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Kind:        raw.kind,
		Value:       getInt(tbl, "value", 0),
		Quantity:    getInt(tbl, "quantity", 1),
	}
	if it.Name == "" {
		it.Name = raw.id
	}

	switch raw.kind {
	case entity.KindWeapon:
		it.Weapon = &entity.WeaponSpec{
			Damage:         getInt(tbl, "damage", 0),
			StaminaCost:    getInt(tbl, "stamina_cost", 10),
			WeaponType:     getString(tbl, "weapon_type"),
			AttackSpeed:    getNumber(tbl, "attack_speed"),
			SpecialEffects: numberMap(getTable(tbl, "special_effects")),
			Durability:     getInt(tbl, "durability", 0),
		}
		if it.Weapon.Damage <= 0 {
			return nil, fmt.Errorf("weapon needs a positive damage")
		}
		if it.Weapon.AttackSpeed == 0 {
			it.Weapon.AttackSpeed = 1.0
		}
		it.Weapon.MaxDurability = getInt(tbl, "max_durability", it.Weapon.Durability)
	case entity.KindArmor:
		slot := entity.Slot(getString(tbl, "slot"))
		if slot == "" {
			slot = entity.SlotChest
		}
		switch slot {
		case entity.SlotHead, entity.SlotChest, entity.SlotLegs, entity.SlotAccessory:
		default:
			return nil, fmt.Errorf("unknown armor slot %q", slot)
		}
		it.Armor = &entity.ArmorSpec{
			Slot:       slot,
			Defense:    getInt(tbl, "defense", 0),
			Resistance: numberMap(getTable(tbl, "resistance")),
		}
	case entity.KindConsumable:
		effect := getString(tbl, "effect")
		if effect == "" {
			effect = "heal"
		}
		// "value" is the shop price; "amount" is the effect strength.
		it.Consumable = &entity.ConsumableSpec{
			Effect:   effect,
			Value:    getInt(tbl, "amount", 0),
			Duration: getInt(tbl, "duration", 0),
		}
		if it.Consumable.Value <= 0 {
			return nil, fmt.Errorf("consumable needs a positive amount")
		}
	}
	return it, nil
}

func compileNPC(raw rawDef) (*entity.NPC, error) {
	tbl := raw.table
	n := &entity.NPC{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Friendly:    getBool(tbl, "friendly", false),
		Merchant:    getBool(tbl, "merchant", false),
		Level:       getInt(tbl, "level", 1),
		Health:      getInt(tbl, "health", 0),
		Attack:      getInt(tbl, "attack", 0),
		Defense:     getInt(tbl, "defense", 0),
		Flags:       map[string]string{},
	}
	if n.Name == "" {
		n.Name = raw.id
	}
	n.MaxHealth = getInt(tbl, "max_health", n.Health)
	if n.MaxHealth == 0 {
		n.MaxHealth = 10
	}
	if n.Health == 0 {
		n.Health = n.MaxHealth
	}

	err := eachTable(getTable(tbl, "abilities"), func(t *lua.LTable) error {
		ab := entity.Ability{
			Name:     getString(t, "name"),
			Kind:     getString(t, "kind"),
			Damage:   getInt(t, "damage", 0),
			Heal:     getInt(t, "heal", 0),
			Effect:   getString(t, "effect"),
			Potency:  getInt(t, "potency", 0),
			Duration: getInt(t, "duration", 0),
		}
		switch ab.Kind {
		case "aoe_attack", "heal", "status", "summon":
		default:
			return fmt.Errorf("ability %q has unknown kind %q", ab.Name, ab.Kind)
		}
		n.Abilities = append(n.Abilities, ab)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if lootTbl := getTable(tbl, "loot"); lootTbl != nil {
		loot := &entity.LootTable{
			EssenceMin: getInt(lootTbl, "essence_min", 0),
			EssenceMax: getInt(lootTbl, "essence_max", 0),
			Guaranteed: stringList(getTable(lootTbl, "guaranteed")),
		}
		if loot.EssenceMax < loot.EssenceMin {
			return nil, fmt.Errorf("loot essence_max below essence_min")
		}
		err := eachTable(getTable(lootTbl, "drops"), func(t *lua.LTable) error {
			loot.Drops = append(loot.Drops, entity.LootDrop{
				ItemID: getString(t, "item"),
				Chance: getNumber(t, "chance"),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
		n.Loot = loot
	}

	err = eachTable(getTable(tbl, "shop"), func(t *lua.LTable) error {
		n.Shop = append(n.Shop, entity.ShopEntry{
			ItemID: getString(t, "item"),
			Price:  getInt(t, "price", 0),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dlgTbl := getTable(tbl, "dialogue"); dlgTbl != nil {
		dlg, err := compileDialogue(dlgTbl)
		if err != nil {
			return nil, err
		}
		n.Dialogue = dlg
	}

	return n, nil
}

// compileDialogue builds the conversation graph keyed by node id.
func compileDialogue(tbl *lua.LTable) (map[string]*entity.DialogueNode, error) {
	graph := map[string]*entity.DialogueNode{}
	var compileErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if compileErr != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		nodeTbl, ok := v.(*lua.LTable)
		if !ok {
			compileErr = fmt.Errorf("dialogue node %q is not a table", string(ks))
			return
		}
		node := &entity.DialogueNode{
			ID:   string(ks),
			Text: getString(nodeTbl, "text"),
		}
		if condTbl := getTable(nodeTbl, "condition"); condTbl != nil {
			cond, err := compileCondition(condTbl)
			if err != nil {
				compileErr = fmt.Errorf("dialogue node %q: %w", node.ID, err)
				return
			}
			node.Condition = &cond
			node.Success = compileBranch(getTable(nodeTbl, "success"))
			node.Failure = compileBranch(getTable(nodeTbl, "failure"))
			if node.Success == nil || node.Failure == nil {
				compileErr = fmt.Errorf("dialogue node %q: a conditioned node needs success and failure branches", node.ID)
				return
			}
		}
		err := eachTable(getTable(nodeTbl, "responses"), func(rt *lua.LTable) error {
			resp := entity.DialogueResponse{
				Text:         getString(rt, "text"),
				ResponseText: getString(rt, "response_text"),
				Next:         getString(rt, "next"),
			}
			conds, err := compileConditions(getTable(rt, "conditions"))
			if err != nil {
				return err
			}
			resp.Conditions = conds
			err = eachTable(getTable(rt, "effects"), func(et *lua.LTable) error {
				eff, err := compileEffect(et)
				if err != nil {
					return err
				}
				resp.Effects = append(resp.Effects, eff)
				return nil
			})
			if err != nil {
				return err
			}
			node.Responses = append(node.Responses, resp)
			return nil
		})
		if err != nil {
			compileErr = fmt.Errorf("dialogue node %q: %w", node.ID, err)
			return
		}
		graph[node.ID] = node
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return graph, nil
}

// compileBranch reads one arm of a conditioned dialogue node.
func compileBranch(tbl *lua.LTable) *entity.DialogueBranch {
	if tbl == nil {
		return nil
	}
	return &entity.DialogueBranch{
		Text: getString(tbl, "text"),
		Next: getString(tbl, "next"),
	}
}

func compileConditions(tbl *lua.LTable) ([]entity.Condition, error) {
	var conds []entity.Condition
	err := eachTable(tbl, func(t *lua.LTable) error {
		c, err := compileCondition(t)
		if err != nil {
			return err
		}
		conds = append(conds, c)
		return nil
	})
	return conds, err
}

func compileCondition(tbl *lua.LTable) (entity.Condition, error) {
	kind := getString(tbl, "kind")
	c := entity.Condition{Kind: entity.ConditionKind(kind)}
	switch c.Kind {
	case entity.CondHasItem:
		c.ItemID = getString(tbl, "item")
	case entity.CondQuestComplete:
		c.QuestID = getString(tbl, "quest")
	case entity.CondPlayerFlag, entity.CondNPCFlag:
		c.Flag = getString(tbl, "flag")
		c.Value = getString(tbl, "value")
	case entity.CondMinLevel:
		c.Level = getInt(tbl, "level", 0)
	default:
		return c, fmt.Errorf("unknown condition kind %q", kind)
	}
	return c, nil
}

func compileEffect(tbl *lua.LTable) (entity.DialogueEffect, error) {
	kind := getString(tbl, "kind")
	eff := entity.DialogueEffect{Kind: kind}
	switch kind {
	case "set_player_flag", "set_npc_flag":
		eff.Flag = getString(tbl, "flag")
		eff.Value = getString(tbl, "value")
	case "start_quest":
		eff.QuestID = getString(tbl, "quest")
	case "give_item":
		eff.ItemID = getString(tbl, "item")
	default:
		return eff, fmt.Errorf("unknown effect kind %q", kind)
	}
	return eff, nil
}

func compileQuest(raw rawDef) (*entity.Quest, error) {
	tbl := raw.table
	q := &entity.Quest{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Giver:       getString(tbl, "giver"),
	}
	if q.Name == "" {
		q.Name = raw.id
	}

	prereqs, err := compileConditions(getTable(tbl, "prereqs"))
	if err != nil {
		return nil, err
	}
	q.Prereqs = prereqs

	err = eachTable(getTable(tbl, "objectives"), func(t *lua.LTable) error {
		kind := entity.ObjectiveKind(getString(t, "kind"))
		switch kind {
		case entity.ObjectiveKill, entity.ObjectiveItem, entity.ObjectiveLocation, entity.ObjectiveTalk:
		default:
			return fmt.Errorf("unknown objective kind %q", kind)
		}
		q.Objectives = append(q.Objectives, &entity.Objective{
			Kind:     kind,
			Target:   getString(t, "target"),
			Required: getInt(t, "count", 1),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(q.Objectives) == 0 {
		return nil, fmt.Errorf("quest has no objectives")
	}

	if rw := getTable(tbl, "rewards"); rw != nil {
		q.Rewards = entity.Rewards{
			Essence:    getInt(rw, "essence", 0),
			ItemID:     getString(rw, "item"),
			Experience: getInt(rw, "experience", 0),
			Faction:    getString(rw, "faction"),
			Reputation: getInt(rw, "reputation", 0),
		}
	}
	return q, nil
}

func compileLocation(raw rawDef, w *entity.World) (*entity.Location, error) {
	tbl := raw.table
	l := &entity.Location{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Region:      getString(tbl, "region"),
		Connections: stringMap(getTable(tbl, "connections")),
		NPCs:        stringList(getTable(tbl, "npcs")),
		SpawnPool:   stringList(getTable(tbl, "spawn_pool")),
		Boss:        getBool(tbl, "boss", false),
		Beacon:      getBool(tbl, "beacon", false),
		Guardian:    getString(tbl, "guardian"),
	}
	if l.Name == "" {
		l.Name = raw.id
	}
	if l.Connections == nil {
		l.Connections = map[string]string{}
	}
	// A beacon without a guardian starts lit.
	l.Unlocked = getBool(tbl, "unlocked", l.Guardian == "")

	err := eachTable(getTable(tbl, "gates"), func(t *lua.LTable) error {
		condTbl := getTable(t, "condition")
		if condTbl == nil {
			return fmt.Errorf("gate has no condition")
		}
		cond, err := compileCondition(condTbl)
		if err != nil {
			return err
		}
		l.Gates = append(l.Gates, entity.VisitGate{
			Condition: cond,
			Reason:    getString(t, "reason"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ground items are instances cloned from the templates.
	for _, itemID := range stringList(getTable(tbl, "items")) {
		tmpl, ok := w.Items[itemID]
		if !ok {
			return nil, fmt.Errorf("references undefined item %q", itemID)
		}
		l.Items = append(l.Items, tmpl.Clone())
	}

	return l, nil
}

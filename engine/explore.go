package engine

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/ardenvale/engine/combat"
	"github.com/nathoo/ardenvale/engine/dialogue"
	"github.com/nathoo/ardenvale/engine/parser"
	"github.com/nathoo/ardenvale/entity"
)

// stepExplore routes input in exploration mode.
func (e *Engine) stepExplore(cmd parser.Command) []string {
	switch cmd.Verb {
	case "look":
		return e.look()
	case "go":
		return e.move(cmd.Arg)
	case "talk":
		return e.startTalk(cmd.Arg)
	case "attack":
		return e.engage(cmd.Arg)
	case "take":
		return e.take(cmd.Arg)
	case "drop":
		return e.drop(cmd.Arg)
	case "inventory":
		return e.inventoryLines()
	case "equip":
		return e.equip(cmd.Arg)
	case "unequip":
		return e.unequip(cmd.Arg)
	case "use":
		return e.use(cmd.Arg)
	case "status":
		return e.statusLines()
	case "quests":
		return e.questLines()
	case "map":
		return e.mapLines()
	case "rest":
		return e.rest()
	case "wares":
		return e.wares()
	case "buy":
		return e.buy(cmd.Arg)
	case "sell":
		return e.sell(cmd.Arg)
	case "help":
		return helpLines()
	case "save", "load", "quit":
		return []string{fmt.Sprintf("'%s' is handled by the interface.", cmd.Verb)}
	}
	return []string{"You cannot do that here. Try 'help'."}
}

// look describes the current location.
func (e *Engine) look() []string {
	loc := e.loc()
	lines := []string{loc.Name, loc.Description}

	if loc.Beacon {
		if loc.Unlocked {
			lines = append(lines, "A beacon burns here, warm against the dark. You may rest.")
		} else {
			lines = append(lines, "A darkened beacon stands here, cold and guarded.")
		}
	}

	if names := e.friendlyNames(loc); len(names) > 0 {
		lines = append(lines, "Figures here: "+strings.Join(names, ", "))
	}
	if len(loc.ActiveEnemies) > 0 {
		var names []string
		for _, en := range loc.ActiveEnemies {
			names = append(names, en.Name)
		}
		lines = append(lines, "Hostiles: "+strings.Join(names, ", "))
	}
	if len(loc.Items) > 0 {
		var names []string
		for _, it := range loc.Items {
			if it.Quantity > 1 {
				names = append(names, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
			} else {
				names = append(names, it.Name)
			}
		}
		lines = append(lines, "On the ground: "+strings.Join(names, ", "))
	}
	if loc.Essence != nil {
		lines = append(lines, fmt.Sprintf("Your lost essence shimmers here (%d). Take it before it fades.", loc.Essence.Amount))
	}

	dirs := make([]string, 0, len(loc.Connections))
	for d := range loc.Connections {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	if len(dirs) > 0 {
		lines = append(lines, "Paths: "+strings.Join(dirs, ", "))
	}
	return lines
}

func (e *Engine) friendlyNames(loc *entity.Location) []string {
	var names []string
	for _, id := range loc.NPCs {
		if npc := e.World.NPCTemplate(id); npc != nil && npc.IsAlive() {
			name := npc.Name
			if npc.Merchant {
				name += " (merchant)"
			}
			names = append(names, name)
		}
	}
	return names
}

// move walks the player through a connection, enforcing visit gates,
// recording discovery and spawning whatever lives there.
func (e *Engine) move(dir string) []string {
	if dir == "" {
		return []string{"Go where?"}
	}
	loc := e.loc()
	destID, ok := loc.Connections[dir]
	if !ok {
		return []string{fmt.Sprintf("There is no path %s.", dir)}
	}
	dest, err := e.World.Location(destID)
	if err != nil {
		e.Log.Error("dangling connection", zap.String("from", loc.ID), zap.String("dir", dir))
		return []string{"The way is barred."}
	}
	if ok, reason := dest.CanVisit(e.Player, e.World); !ok {
		return []string{reason}
	}

	e.Player.PreviousLocation = loc.ID
	e.Player.Location = destID

	var lines []string
	if !e.Player.Discovered[destID] {
		e.Player.Discovered[destID] = true
		lines = append(lines, e.Tracker.Record(e.Player, dest, entity.ObjectiveLocation, destID, 1)...)
	}
	lines = append(lines, e.spawnAt(dest)...)
	return append(lines, e.look()...)
}

// startTalk opens a conversation, or a fight if the target is hostile.
func (e *Engine) startTalk(ref string) []string {
	loc := e.loc()
	if en := loc.FindEnemy(ref); en != nil {
		return append([]string{fmt.Sprintf("%s has no words for you.", en.Name)}, e.beginFight(en)...)
	}
	npc := e.friendlyAt(loc, ref)
	if npc == nil {
		return []string{"There is no one like that here."}
	}

	sess, lines := dialogue.Start(e.Player, npc, e.World, loc)
	if sess != nil && sess.Active() {
		e.talk = sess
	}
	lines = append(lines, e.Tracker.Record(e.Player, loc, entity.ObjectiveTalk, npc.ID, 1)...)
	return lines
}

func (e *Engine) friendlyAt(loc *entity.Location, ref string) *entity.NPC {
	for _, id := range loc.NPCs {
		npc := e.World.NPCTemplate(id)
		if npc == nil {
			continue
		}
		if ref == "" || npc.Matches(ref) {
			return npc
		}
	}
	return nil
}

// engage starts combat with a named enemy, or the first one present.
func (e *Engine) engage(ref string) []string {
	loc := e.loc()
	var en *entity.NPC
	if ref == "" && len(loc.ActiveEnemies) > 0 {
		en = loc.ActiveEnemies[0]
	} else {
		en = loc.FindEnemy(ref)
	}
	if en == nil {
		return []string{"There is nothing here to fight."}
	}
	return e.beginFight(en)
}

func (e *Engine) beginFight(en *entity.NPC) []string {
	s := combat.New(e.Player, en, e.World, e.loc(), e.RNG, e.Tracker)
	s.Now = e.Now
	s.Parry = e.ParryInput
	e.fight = s
	e.Log.Debug("combat started", zap.String("enemy", en.ID), zap.String("instance", en.InstanceID))
	return []string{
		fmt.Sprintf("%s turns on you! (%d/%d health)", en.Name, en.Health, en.MaxHealth),
		"attack, parry, charge, dodge, flee, stance <s>, use <item>",
	}
}

// take picks up a ground item or reclaims dropped essence.
func (e *Engine) take(ref string) []string {
	loc := e.loc()
	if ref == "" {
		return []string{"Take what?"}
	}
	if strings.EqualFold(ref, "essence") {
		if loc.Essence == nil {
			return []string{"There is no essence to reclaim here."}
		}
		amount := loc.Essence.Amount
		e.Player.Essence += amount
		loc.Essence = nil
		return []string{fmt.Sprintf("You reclaim %d essence.", amount)}
	}

	it := loc.FindItem(ref)
	if it == nil {
		return []string{"You see nothing like that here."}
	}
	if !e.Player.Inventory.Add(it) {
		return []string{"Your pack is full."}
	}
	loc.RemoveItem(it)
	lines := []string{fmt.Sprintf("You take the %s.", it.Name)}
	return append(lines, e.Tracker.Record(e.Player, loc, entity.ObjectiveItem, it.ID, it.Quantity)...)
}

// drop leaves an unequipped stack on the ground.
func (e *Engine) drop(ref string) []string {
	if ref == "" {
		return []string{"Drop what?"}
	}
	it := e.Player.Inventory.Find(ref)
	if it == nil {
		return []string{"You carry no such thing."}
	}
	if it.Equipped {
		return []string{"Unequip it first."}
	}
	out := e.Player.Inventory.Remove(it.ID, it.Quantity)
	loc := e.loc()
	loc.Items = append(loc.Items, out)
	return []string{fmt.Sprintf("You set down the %s.", out.Name)}
}

// equip readies a weapon or armor piece.
func (e *Engine) equip(ref string) []string {
	if ref == "" {
		return []string{"Equip what?"}
	}
	it := e.Player.Inventory.Find(ref)
	if it == nil {
		return []string{"You carry no such thing."}
	}
	prev, ok := e.Player.Inventory.Equip(it)
	if !ok {
		return []string{fmt.Sprintf("The %s cannot be equipped.", it.Name)}
	}
	lines := []string{fmt.Sprintf("You equip the %s.", it.Name)}
	if prev != nil {
		lines = append(lines, fmt.Sprintf("You stow the %s.", prev.Name))
	}
	return lines
}

// unequip clears a slot by name or by the equipped item's name.
func (e *Engine) unequip(ref string) []string {
	if ref == "" {
		return []string{"Unequip what?"}
	}
	inv := e.Player.Inventory
	if it := inv.Unequip(entity.Slot(strings.ToLower(ref))); it != nil {
		return []string{fmt.Sprintf("You stow the %s.", it.Name)}
	}
	if it := inv.Find(ref); it != nil && it.Equipped {
		inv.Unequip(it.EquipSlot())
		return []string{fmt.Sprintf("You stow the %s.", it.Name)}
	}
	return []string{"Nothing like that is equipped."}
}

// use consumes a consumable outside combat.
func (e *Engine) use(ref string) []string {
	if ref == "" {
		return []string{"Use what?"}
	}
	it := e.Player.Inventory.Find(ref)
	if it == nil {
		return []string{"You carry no such thing."}
	}
	line, ok := e.Player.UseConsumable(it)
	if !ok {
		return []string{fmt.Sprintf("The %s is of no use right now.", it.Name)}
	}
	return []string{line}
}

// rest restores the player at a lit beacon and records it as the
// respawn point.
func (e *Engine) rest() []string {
	loc := e.loc()
	if !loc.Beacon {
		return []string{"There is no beacon here."}
	}
	if !loc.Unlocked {
		if loc.Guardian != "" {
			// The first rest attempt is what wakes the guardian; further
			// attempts while it lives are simply refused.
			lines := e.raiseGuardian(loc)
			return append(lines, "The beacon is dark. Its guardian still draws breath.")
		}
		loc.Unlocked = true
	}
	e.Player.Rest()
	e.Player.LastBeacon = loc.ID
	lines := []string{"You rest at the beacon. Strength returns, and the world holds its breath."}
	if e.OnAutosave != nil {
		lines = append(lines, e.OnAutosave()...)
	}
	return lines
}

// merchantAt finds the merchant at the location, if any.
func (e *Engine) merchantAt(loc *entity.Location) *entity.NPC {
	for _, id := range loc.NPCs {
		if npc := e.World.NPCTemplate(id); npc != nil && npc.Merchant {
			return npc
		}
	}
	return nil
}

// wares lists what the local merchant sells.
func (e *Engine) wares() []string {
	m := e.merchantAt(e.loc())
	if m == nil {
		return []string{"No one here is selling."}
	}
	lines := []string{fmt.Sprintf("%s offers:", m.Name)}
	for _, entry := range m.Shop {
		tmpl, ok := e.World.Items[entry.ItemID]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s - %d essence", tmpl.Name, entry.Price))
	}
	lines = append(lines, fmt.Sprintf("You carry %d essence.", e.Player.Essence))
	return lines
}

// buy purchases one item from the local merchant.
func (e *Engine) buy(ref string) []string {
	m := e.merchantAt(e.loc())
	if m == nil {
		return []string{"No one here is selling."}
	}
	for _, entry := range m.Shop {
		tmpl, ok := e.World.Items[entry.ItemID]
		if !ok || !tmpl.Matches(ref) {
			continue
		}
		if e.Player.Essence < entry.Price {
			return []string{fmt.Sprintf("The %s costs %d essence. You carry %d.", tmpl.Name, entry.Price, e.Player.Essence)}
		}
		it := tmpl.Clone()
		if !e.Player.Inventory.Add(it) {
			return []string{"Your pack is full."}
		}
		e.Player.Essence -= entry.Price
		return []string{fmt.Sprintf("You buy the %s for %d essence.", it.Name, entry.Price)}
	}
	return []string{fmt.Sprintf("%s does not sell that.", m.Name)}
}

// sell trades an unequipped item for a fraction of its value.
func (e *Engine) sell(ref string) []string {
	m := e.merchantAt(e.loc())
	if m == nil {
		return []string{"No one here is buying."}
	}
	it := e.Player.Inventory.Find(ref)
	if it == nil {
		return []string{"You carry no such thing."}
	}
	if it.Equipped {
		return []string{"Unequip it first."}
	}
	price := int(float64(it.Value) * SellRate)
	e.Player.Inventory.Remove(it.ID, 1)
	e.Player.Essence += price
	return []string{fmt.Sprintf("You sell the %s for %d essence.", it.Name, price)}
}

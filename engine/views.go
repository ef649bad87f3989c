package engine

import (
	"fmt"
	"sort"
	"strings"
)

// statusLines renders the character sheet.
func (e *Engine) statusLines() []string {
	p := e.Player
	lines := []string{
		fmt.Sprintf("%s, level %d (%d/%d xp)", p.Name, p.Level, p.Experience, p.XPRequired()),
		fmt.Sprintf("Health %d/%d | Stamina %d/%d | Essence %d",
			p.Health, p.MaxHealth, p.Stamina, p.MaxStamina, p.Essence),
		fmt.Sprintf("STR %d  DEX %d  INT %d  VIT %d", p.Strength, p.Dexterity, p.Intelligence, p.Vitality),
		fmt.Sprintf("Attack %d | Defense %d", p.AttackPower(), p.DefenseTotal()),
	}
	if len(p.Buffs) > 0 {
		var parts []string
		for _, b := range p.Buffs {
			if b.Permanent {
				parts = append(parts, fmt.Sprintf("%s %+d", b.Type, b.Amount))
			} else {
				parts = append(parts, fmt.Sprintf("%s %+d (%d turns)", b.Type, b.Amount, b.Duration))
			}
		}
		lines = append(lines, "Effects: "+strings.Join(parts, ", "))
	}
	if len(p.Reputation) > 0 {
		factions := make([]string, 0, len(p.Reputation))
		for f := range p.Reputation {
			factions = append(factions, f)
		}
		sort.Strings(factions)
		var parts []string
		for _, f := range factions {
			parts = append(parts, fmt.Sprintf("%s %+d", f, p.Reputation[f]))
		}
		lines = append(lines, "Standing: "+strings.Join(parts, ", "))
	}
	return lines
}

// inventoryLines renders carried items and equipment.
func (e *Engine) inventoryLines() []string {
	inv := e.Player.Inventory
	if len(inv.Items) == 0 {
		return []string{fmt.Sprintf("Your pack is empty. Essence: %d.", e.Player.Essence)}
	}
	lines := []string{fmt.Sprintf("Pack (%d/%d):", len(inv.Items), inv.Capacity)}
	for _, it := range inv.Items {
		entry := "  " + it.Name
		if it.Quantity > 1 {
			entry += fmt.Sprintf(" x%d", it.Quantity)
		}
		if it.Equipped {
			entry += " [equipped]"
		}
		lines = append(lines, entry)
	}
	return append(lines, fmt.Sprintf("Essence: %d.", e.Player.Essence))
}

// questLines renders the journal.
func (e *Engine) questLines() []string {
	ids := make([]string, 0, len(e.World.Quests))
	for id := range e.World.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var active, completed []string
	for _, id := range ids {
		q := e.World.Quests[id]
		switch {
		case q.Active():
			active = append(active, "  "+q.Name)
			for _, o := range q.Objectives {
				mark := " "
				if o.Done {
					mark = "x"
				}
				active = append(active, fmt.Sprintf("    [%s] %s (%d/%d)", mark, o.Target, o.Progress, o.Required))
			}
		case q.Completed:
			completed = append(completed, "  "+q.Name)
		}
	}

	if len(active) == 0 && len(completed) == 0 {
		return []string{"Your journal is empty."}
	}
	var lines []string
	if len(active) > 0 {
		lines = append(lines, "Active quests:")
		lines = append(lines, active...)
	}
	if len(completed) > 0 {
		lines = append(lines, "Completed:")
		lines = append(lines, completed...)
	}
	return lines
}

// mapLines renders discovered locations grouped by region, plus the
// paths out of the current one.
func (e *Engine) mapLines() []string {
	cur := e.loc()
	lines := []string{"Known places:"}

	regions := make([]string, 0, len(e.World.Regions))
	for r := range e.World.Regions {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	listed := false
	for _, r := range regions {
		var known []string
		for _, id := range e.World.Regions[r] {
			if !e.Player.Discovered[id] {
				continue
			}
			name := id
			if l, err := e.World.Location(id); err == nil {
				name = l.Name
			}
			if id == cur.ID {
				name += " (you)"
			}
			known = append(known, name)
		}
		if len(known) > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %s", r, strings.Join(known, ", ")))
			listed = true
		}
	}
	if !listed {
		// Worlds without regions fall back to a flat discovered list.
		ids := make([]string, 0, len(e.Player.Discovered))
		for id := range e.Player.Discovered {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			name := id
			if l, err := e.World.Location(id); err == nil {
				name = l.Name
			}
			if id == cur.ID {
				name += " (you)"
			}
			lines = append(lines, "  "+name)
		}
	}

	dirs := make([]string, 0, len(cur.Connections))
	for d := range cur.Connections {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		destName := cur.Connections[d]
		if dest, err := e.World.Location(cur.Connections[d]); err == nil {
			if e.Player.Discovered[dest.ID] {
				destName = dest.Name
			} else {
				destName = "?"
			}
		}
		lines = append(lines, fmt.Sprintf("  %s -> %s", d, destName))
	}
	return lines
}

func helpLines() []string {
	return []string{
		"Exploring: look, go <dir>, talk <name>, attack <name>, take <item>, drop <item>",
		"Items:     inventory, equip <item>, unequip <slot>, use <item>",
		"Views:     status, quests, map",
		"Trade:     wares, buy <item>, sell <item>",
		"Beacons:   rest (at a lit beacon; sets your respawn)",
		"Session:   save, load, quit (interface commands)",
	}
}

// LocationName returns the display name of the player's location; the
// TUI status bar uses it.
func (e *Engine) LocationName() string {
	return e.loc().Name
}

// Exits returns the sorted directions out of the current location.
func (e *Engine) Exits() []string {
	loc := e.loc()
	dirs := make([]string, 0, len(loc.Connections))
	for d := range loc.Connections {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

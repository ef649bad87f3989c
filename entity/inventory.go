package entity

// DefaultCapacity is the number of item stacks a fresh inventory holds.
const DefaultCapacity = 20

// MaxResistance caps the summed elemental resistance from equipped armor.
const MaxResistance = 0.75

// Inventory holds the player's item stacks and equipment slots. Equipped
// items stay in Items with their Equipped flag set; the Equipped map is a
// lookup index rebuilt after load.
type Inventory struct {
	Capacity int            `json:"capacity"`
	Items    []*Item        `json:"items"`
	Equipped map[Slot]*Item `json:"-"`
}

// NewInventory returns an empty inventory with the default capacity.
func NewInventory() *Inventory {
	return &Inventory{
		Capacity: DefaultCapacity,
		Equipped: make(map[Slot]*Item),
	}
}

// Add places an item in the inventory. Stackable items merge into an
// existing stack with the same id. Returns false when the inventory is
// full and no stack could absorb the item.
func (inv *Inventory) Add(it *Item) bool {
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	if it.Stackable() {
		for _, have := range inv.Items {
			if have.ID == it.ID && have.Stackable() {
				have.Quantity += it.Quantity
				return true
			}
		}
	}
	if len(inv.Items) >= inv.Capacity {
		return false
	}
	inv.Items = append(inv.Items, it)
	return true
}

// Remove takes qty copies of the item with the given id out of the
// inventory and returns the removed portion, or nil if absent. Equipped
// items are never removed.
func (inv *Inventory) Remove(id string, qty int) *Item {
	if qty <= 0 {
		qty = 1
	}
	for i, it := range inv.Items {
		if it.ID != id || it.Equipped {
			continue
		}
		if it.Quantity > qty {
			it.Quantity -= qty
			out := it.Clone()
			out.Quantity = qty
			return out
		}
		inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
		return it
	}
	return nil
}

// Find resolves a player-typed reference (id or name) to an item.
func (inv *Inventory) Find(ref string) *Item {
	for _, it := range inv.Items {
		if it.Matches(ref) {
			return it
		}
	}
	return nil
}

// Count returns how many copies of the item id the inventory holds.
func (inv *Inventory) Count(id string) int {
	n := 0
	for _, it := range inv.Items {
		if it.ID == id {
			n += it.Quantity
		}
	}
	return n
}

// Has reports whether at least one copy of the item id is held.
func (inv *Inventory) Has(id string) bool {
	return inv.Count(id) > 0
}

// Equip places the item in its slot, displacing whatever was there.
// Returns the displaced item (nil if the slot was free) and whether the
// equip happened. The item must already be in the inventory.
func (inv *Inventory) Equip(it *Item) (*Item, bool) {
	if !it.Equippable() {
		return nil, false
	}
	slot := it.EquipSlot()
	prev := inv.Equipped[slot]
	if prev == it {
		return nil, false
	}
	if prev != nil {
		prev.Equipped = false
	}
	it.Equipped = true
	if inv.Equipped == nil {
		inv.Equipped = make(map[Slot]*Item)
	}
	inv.Equipped[slot] = it
	return prev, true
}

// Unequip clears the given slot and returns the item that occupied it.
func (inv *Inventory) Unequip(slot Slot) *Item {
	it := inv.Equipped[slot]
	if it == nil {
		return nil
	}
	it.Equipped = false
	delete(inv.Equipped, slot)
	return it
}

// WeaponDamage returns the damage of the equipped weapon, or 0.
func (inv *Inventory) WeaponDamage() int {
	if w := inv.Equipped[SlotWeapon]; w != nil && w.Weapon != nil {
		return w.Weapon.Damage
	}
	return 0
}

// TotalDefense sums the defense of equipped head, chest and leg armor.
func (inv *Inventory) TotalDefense() int {
	total := 0
	for _, slot := range []Slot{SlotHead, SlotChest, SlotLegs} {
		if a := inv.Equipped[slot]; a != nil && a.Armor != nil {
			total += a.Armor.Defense
		}
	}
	return total
}

// Resistance sums the equipped armor's absorption for one damage type,
// capped at MaxResistance.
func (inv *Inventory) Resistance(damageType string) float64 {
	total := 0.0
	for _, it := range inv.Equipped {
		if it.Armor != nil {
			total += it.Armor.Resistance[damageType]
		}
	}
	if total > MaxResistance {
		return MaxResistance
	}
	return total
}

// RebuildEquipped reconstructs the slot index from item Equipped flags.
// Called after deserialization.
func (inv *Inventory) RebuildEquipped() {
	inv.Equipped = make(map[Slot]*Item)
	for _, it := range inv.Items {
		if it.Equipped && it.Equippable() {
			inv.Equipped[it.EquipSlot()] = it
		}
	}
}

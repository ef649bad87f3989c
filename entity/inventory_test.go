package entity

import "testing"

func potion(qty int) *Item {
	return &Item{
		ID: "ember_draught", Name: "Ember Draught", Kind: KindConsumable,
		Value: 30, Quantity: qty,
		Consumable: &ConsumableSpec{Effect: "heal", Value: 40},
	}
}

func sword() *Item {
	return &Item{
		ID: "ashen_blade", Name: "Ashen Blade", Kind: KindWeapon,
		Value: 120, Quantity: 1,
		Weapon: &WeaponSpec{Damage: 15, StaminaCost: 12},
	}
}

func armorPiece(id string, slot Slot, def int, res map[string]float64) *Item {
	return &Item{
		ID: id, Name: id, Kind: KindArmor, Quantity: 1,
		Armor: &ArmorSpec{Slot: slot, Defense: def, Resistance: res},
	}
}

func TestAddStacksConsumables(t *testing.T) {
	inv := NewInventory()
	if !inv.Add(potion(2)) || !inv.Add(potion(3)) {
		t.Fatal("add failed")
	}
	if len(inv.Items) != 1 {
		t.Fatalf("stacks = %d, want 1", len(inv.Items))
	}
	if got := inv.Count("ember_draught"); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
}

func TestAddDoesNotStackWeapons(t *testing.T) {
	inv := NewInventory()
	inv.Add(sword())
	inv.Add(sword())
	if len(inv.Items) != 2 {
		t.Fatalf("stacks = %d, want 2", len(inv.Items))
	}
}

func TestAddRespectsCapacity(t *testing.T) {
	inv := NewInventory()
	inv.Capacity = 2
	inv.Add(sword())
	inv.Add(armorPiece("helm", SlotHead, 3, nil))
	if inv.Add(sword()) {
		t.Error("add succeeded past capacity")
	}
	// A full inventory still absorbs into an existing stack.
	inv2 := NewInventory()
	inv2.Capacity = 1
	inv2.Add(potion(1))
	if !inv2.Add(potion(1)) {
		t.Error("stack merge refused on full inventory")
	}
}

func TestRemovePartialStack(t *testing.T) {
	inv := NewInventory()
	inv.Add(potion(5))
	out := inv.Remove("ember_draught", 2)
	if out == nil || out.Quantity != 2 {
		t.Fatalf("removed = %+v, want quantity 2", out)
	}
	if got := inv.Count("ember_draught"); got != 3 {
		t.Errorf("remaining = %d, want 3", got)
	}
}

func TestRemoveRefusesEquipped(t *testing.T) {
	inv := NewInventory()
	s := sword()
	inv.Add(s)
	inv.Equip(s)
	if out := inv.Remove("ashen_blade", 1); out != nil {
		t.Errorf("removed equipped item: %+v", out)
	}
}

func TestEquipSwapsSlot(t *testing.T) {
	inv := NewInventory()
	first := sword()
	second := &Item{ID: "great_axe", Name: "Great Axe", Kind: KindWeapon,
		Quantity: 1, Weapon: &WeaponSpec{Damage: 22, StaminaCost: 18}}
	inv.Add(first)
	inv.Add(second)

	if _, ok := inv.Equip(first); !ok {
		t.Fatal("equip failed")
	}
	prev, ok := inv.Equip(second)
	if !ok || prev != first {
		t.Fatalf("swap returned prev=%v ok=%v", prev, ok)
	}
	if first.Equipped {
		t.Error("displaced item still flagged equipped")
	}
	if inv.WeaponDamage() != 22 {
		t.Errorf("weapon damage = %d, want 22", inv.WeaponDamage())
	}
}

func TestEquipRejectsConsumable(t *testing.T) {
	inv := NewInventory()
	p := potion(1)
	inv.Add(p)
	if _, ok := inv.Equip(p); ok {
		t.Error("equipped a consumable")
	}
}

func TestTotalDefenseSumsBodySlots(t *testing.T) {
	inv := NewInventory()
	for _, it := range []*Item{
		armorPiece("helm", SlotHead, 3, map[string]float64{"fire": 0.1}),
		armorPiece("mail", SlotChest, 8, map[string]float64{"physical": 0.2}),
		armorPiece("greaves", SlotLegs, 4, map[string]float64{"frost": 0.1}),
		armorPiece("ring", SlotAccessory, 99, map[string]float64{"fire": 0.9}),
	} {
		inv.Add(it)
		inv.Equip(it)
	}
	// Accessories never count toward defense.
	if got := inv.TotalDefense(); got != 15 {
		t.Errorf("total defense = %d, want 15", got)
	}
}

func TestResistanceSumsPerDamageType(t *testing.T) {
	inv := NewInventory()
	for _, it := range []*Item{
		armorPiece("helm", SlotHead, 1, map[string]float64{"fire": 0.25}),
		armorPiece("mail", SlotChest, 1, map[string]float64{"fire": 0.25, "physical": 0.5}),
	} {
		inv.Add(it)
		inv.Equip(it)
	}
	if got := inv.Resistance("fire"); got != 0.5 {
		t.Errorf("fire resistance = %v, want 0.5", got)
	}
	if got := inv.Resistance("frost"); got != 0 {
		t.Errorf("frost resistance = %v, want 0", got)
	}
}

func TestResistanceCap(t *testing.T) {
	inv := NewInventory()
	for _, it := range []*Item{
		armorPiece("helm", SlotHead, 1, map[string]float64{"fire": 0.4}),
		armorPiece("mail", SlotChest, 1, map[string]float64{"fire": 0.5}),
	} {
		inv.Add(it)
		inv.Equip(it)
	}
	if got := inv.Resistance("fire"); got != MaxResistance {
		t.Errorf("resistance = %v, want cap %v", got, MaxResistance)
	}
}

func TestRebuildEquipped(t *testing.T) {
	inv := NewInventory()
	s := sword()
	inv.Add(s)
	inv.Equip(s)

	inv.Equipped = nil // as after JSON load
	inv.RebuildEquipped()
	if inv.Equipped[SlotWeapon] != s {
		t.Error("weapon slot not rebuilt from flags")
	}
}

// Package entity defines the data model of an Ardenvale world: items,
// inventories, the player, NPCs, locations, quests, and the world registry
// that ties them together. Types here are plain data with small
// invariant-preserving mutators; all orchestration lives in engine.
package entity

import "strings"

// ItemKind discriminates the item variants. Weapon, armor and consumable
// items carry a matching spec struct; key and misc items are inert.
type ItemKind string

const (
	KindWeapon     ItemKind = "weapon"
	KindArmor      ItemKind = "armor"
	KindConsumable ItemKind = "consumable"
	KindKey        ItemKind = "key"
	KindMisc       ItemKind = "misc"
)

// Slot is an equipment slot on the player.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotHead      Slot = "head"
	SlotChest     Slot = "chest"
	SlotLegs      Slot = "legs"
	SlotAccessory Slot = "accessory"
)

// WeaponSpec holds the combat stats of a weapon item. SpecialEffects
// maps named modifiers (fire_damage, stun_chance, ...) to magnitudes.
type WeaponSpec struct {
	Damage         int                `json:"damage"`
	StaminaCost    int                `json:"stamina_cost"`
	WeaponType     string             `json:"weapon_type,omitempty"`
	AttackSpeed    float64            `json:"attack_speed,omitempty"`
	SpecialEffects map[string]float64 `json:"special_effects,omitempty"`
	Durability     int                `json:"durability,omitempty"`
	MaxDurability  int                `json:"max_durability,omitempty"`
}

// ArmorSpec holds the defensive stats of an armor item. Resistance maps
// damage types to the fraction of that damage absorbed.
type ArmorSpec struct {
	Slot       Slot               `json:"slot"`
	Defense    int                `json:"defense"`
	Resistance map[string]float64 `json:"resistance,omitempty"`
}

// ConsumableSpec describes what happens when a consumable is used.
// Effect "heal" restores Value health immediately; any other effect
// applies a buff of that type for Duration turns (0 means permanent).
type ConsumableSpec struct {
	Effect   string `json:"effect"`
	Value    int    `json:"value"`
	Duration int    `json:"duration"`
}

// Item is a single inventory or ground item. Exactly one of the spec
// pointers is set for weapon/armor/consumable kinds; key and misc items
// carry none.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        ItemKind        `json:"kind"`
	Value       int             `json:"value"`
	Quantity    int             `json:"quantity"`
	Equipped    bool            `json:"equipped,omitempty"`
	Weapon      *WeaponSpec     `json:"weapon,omitempty"`
	Armor       *ArmorSpec      `json:"armor,omitempty"`
	Consumable  *ConsumableSpec `json:"consumable,omitempty"`
}

// Equippable reports whether the item can occupy an equipment slot.
func (it *Item) Equippable() bool {
	return it.Weapon != nil || it.Armor != nil
}

// Stackable reports whether multiple copies merge into one stack.
// Equippable items never stack.
func (it *Item) Stackable() bool {
	return !it.Equippable()
}

// EquipSlot returns the slot the item occupies when equipped.
// Weapons always take the weapon slot; armor declares its own.
func (it *Item) EquipSlot() Slot {
	switch {
	case it.Weapon != nil:
		return SlotWeapon
	case it.Armor != nil:
		return it.Armor.Slot
	}
	return ""
}

// Clone returns an independent copy of the item.
func (it *Item) Clone() *Item {
	cp := *it
	if it.Weapon != nil {
		w := *it.Weapon
		if it.Weapon.SpecialEffects != nil {
			w.SpecialEffects = make(map[string]float64, len(it.Weapon.SpecialEffects))
			for k, v := range it.Weapon.SpecialEffects {
				w.SpecialEffects[k] = v
			}
		}
		cp.Weapon = &w
	}
	if it.Armor != nil {
		a := *it.Armor
		if it.Armor.Resistance != nil {
			a.Resistance = make(map[string]float64, len(it.Armor.Resistance))
			for k, v := range it.Armor.Resistance {
				a.Resistance[k] = v
			}
		}
		cp.Armor = &a
	}
	if it.Consumable != nil {
		c := *it.Consumable
		cp.Consumable = &c
	}
	cp.Equipped = false
	return &cp
}

// Matches reports whether the given player input refers to this item:
// an exact id or name match, or (for references of three or more
// characters) a partial name match. All case-insensitive.
func (it *Item) Matches(ref string) bool {
	if strings.EqualFold(ref, it.ID) || strings.EqualFold(ref, it.Name) {
		return true
	}
	return len(ref) >= 3 && strings.Contains(strings.ToLower(it.Name), strings.ToLower(ref))
}

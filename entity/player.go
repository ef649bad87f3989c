package entity

import "fmt"

// Buff is a temporary (or permanent) stat modifier on the player.
// Duration counts combat turns; permanent buffs ignore it.
type Buff struct {
	Type      string `json:"type"`
	Amount    int    `json:"amount"`
	Duration  int    `json:"duration"`
	Permanent bool   `json:"permanent,omitempty"`
}

// Player is the protagonist. Location fields hold location ids, resolved
// through the World registry.
type Player struct {
	Name         string `json:"name"`
	Level        int    `json:"level"`
	Experience   int    `json:"experience"`
	Health       int    `json:"health"`
	MaxHealth    int    `json:"max_health"`
	Stamina      int    `json:"stamina"`
	MaxStamina   int    `json:"max_stamina"`
	Strength     int    `json:"strength"`
	Dexterity    int    `json:"dexterity"`
	Intelligence int    `json:"intelligence"`
	Vitality     int    `json:"vitality"`
	Essence      int    `json:"essence"`

	Location         string `json:"location"`
	PreviousLocation string `json:"previous_location,omitempty"`
	LastBeacon       string `json:"last_beacon,omitempty"`

	Inventory  *Inventory        `json:"inventory"`
	Flags      map[string]string `json:"flags"`
	Reputation map[string]int    `json:"reputation"`
	Discovered map[string]bool   `json:"discovered"`
	Buffs      []Buff            `json:"buffs,omitempty"`
}

// NewPlayer creates a level 1 player with baseline stats.
func NewPlayer(name string) *Player {
	return &Player{
		Name:         name,
		Level:        1,
		Health:       100,
		MaxHealth:    100,
		Stamina:      100,
		MaxStamina:   100,
		Strength:     10,
		Dexterity:    10,
		Intelligence: 10,
		Vitality:     10,
		Inventory:    NewInventory(),
		Flags:        make(map[string]string),
		Reputation:   make(map[string]int),
		Discovered:   make(map[string]bool),
	}
}

// XPRequired returns the experience needed to reach the next level.
func (p *Player) XPRequired() int {
	return p.Level*100 + p.Level*p.Level*20
}

// GainExperience adds xp and performs any level-ups, returning narrative
// lines describing what happened.
func (p *Player) GainExperience(xp int) []string {
	if xp <= 0 {
		return nil
	}
	p.Experience += xp
	lines := []string{fmt.Sprintf("You gain %d experience.", xp)}
	for p.Experience >= p.XPRequired() {
		p.Experience -= p.XPRequired()
		p.Level++
		p.MaxHealth += 10
		p.MaxStamina += 5
		p.Health = p.MaxHealth
		p.Stamina = p.MaxStamina
		lines = append(lines, fmt.Sprintf("You reach level %d. Vigor returns to your limbs.", p.Level))
	}
	return lines
}

// BuffTotal sums active buff amounts of the given type.
func (p *Player) BuffTotal(buffType string) int {
	total := 0
	for _, b := range p.Buffs {
		if b.Type == buffType {
			total += b.Amount
		}
	}
	return total
}

// AttackPower is the player's base attack: half strength, equipped
// weapon damage, and any attack buffs.
func (p *Player) AttackPower() int {
	return p.Strength/2 + p.Inventory.WeaponDamage() + p.BuffTotal("attack")
}

// DefenseTotal is equipped armor defense plus defense buffs.
func (p *Player) DefenseTotal() int {
	return p.Inventory.TotalDefense() + p.BuffTotal("defense")
}

// TakeDamage applies raw damage through armor mitigation
// (defense/(defense+50), minimum 1 through) and returns the damage dealt.
func (p *Player) TakeDamage(raw int) int {
	d := float64(p.DefenseTotal())
	dealt := int(float64(raw) * (1 - d/(d+50)))
	if dealt < 1 {
		dealt = 1
	}
	p.Health -= dealt
	return dealt
}

// DirectDamage bypasses mitigation entirely.
func (p *Player) DirectDamage(n int) {
	if n < 1 {
		n = 1
	}
	p.Health -= n
}

// Heal restores health up to the maximum and returns the amount healed.
func (p *Player) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.Health
	p.Health += n
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	return p.Health - before
}

// UseStamina spends n stamina, returning false (and spending nothing)
// when the player lacks it.
func (p *Player) UseStamina(n int) bool {
	if p.Stamina < n {
		return false
	}
	p.Stamina -= n
	return true
}

// RestoreStamina regains stamina up to the maximum.
func (p *Player) RestoreStamina(n int) {
	p.Stamina += n
	if p.Stamina > p.MaxStamina {
		p.Stamina = p.MaxStamina
	}
}

// StaminaRegen is the per-turn recovery rate in combat.
func (p *Player) StaminaRegen() int {
	return 5 + p.Dexterity/5
}

// ApplyBuff adds a stat modifier.
func (p *Player) ApplyBuff(b Buff) {
	p.Buffs = append(p.Buffs, b)
}

// TickBuffs advances buff durations by one turn and drops expired ones,
// returning a line per expired buff.
func (p *Player) TickBuffs() []string {
	var lines []string
	kept := p.Buffs[:0]
	for _, b := range p.Buffs {
		if b.Permanent {
			kept = append(kept, b)
			continue
		}
		b.Duration--
		if b.Duration > 0 {
			kept = append(kept, b)
		} else {
			lines = append(lines, fmt.Sprintf("The %s effect fades.", b.Type))
		}
	}
	p.Buffs = kept
	return lines
}

// ClearTemporaryBuffs drops all non-permanent buffs (used when resting).
func (p *Player) ClearTemporaryBuffs() {
	kept := p.Buffs[:0]
	for _, b := range p.Buffs {
		if b.Permanent {
			kept = append(kept, b)
		}
	}
	p.Buffs = kept
}

// IsAlive reports whether the player still stands.
func (p *Player) IsAlive() bool {
	return p.Health > 0
}

// Rest fully restores health and stamina and clears temporary buffs.
func (p *Player) Rest() {
	p.Health = p.MaxHealth
	p.Stamina = p.MaxStamina
	p.ClearTemporaryBuffs()
}

// UseConsumable applies a consumable's effect, decrements its stack and
// removes it at zero. Returns a narrative line and whether it was usable.
func (p *Player) UseConsumable(it *Item) (string, bool) {
	if it.Consumable == nil {
		return "", false
	}
	spec := it.Consumable
	var line string
	switch spec.Effect {
	case "heal":
		healed := p.Heal(spec.Value)
		line = fmt.Sprintf("You use the %s and recover %d health.", it.Name, healed)
	case "stamina":
		p.RestoreStamina(spec.Value)
		line = fmt.Sprintf("You use the %s and feel your stamina return.", it.Name)
	default:
		p.ApplyBuff(Buff{
			Type:      spec.Effect,
			Amount:    spec.Value,
			Duration:  spec.Duration,
			Permanent: spec.Duration == 0,
		})
		line = fmt.Sprintf("You use the %s. Your %s increases by %d.", it.Name, spec.Effect, spec.Value)
	}
	it.Quantity--
	if it.Quantity <= 0 {
		p.Inventory.Remove(it.ID, 1)
	}
	return line, true
}

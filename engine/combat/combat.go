// Package combat resolves turn-based fights between the player and one
// enemy instance. Each player action resolves fully (including the enemy
// response and end-of-turn upkeep) before control returns. The clock and
// the parry reaction input are injected so every path is deterministic
// under a seeded RNG.
package combat

import (
	"fmt"
	"time"

	"github.com/nathoo/ardenvale/engine/quest"
	"github.com/nathoo/ardenvale/engine/rng"
	"github.com/nathoo/ardenvale/entity"
)

// Stance adjusts outgoing damage.
type Stance string

const (
	StanceAggressive Stance = "aggressive"
	StanceNeutral    Stance = "neutral"
	StanceDefensive  Stance = "defensive"
)

// Stamina costs and tuning constants.
const (
	UnarmedStaminaCost = 10
	ParryStaminaCost   = 15
	ChargeStaminaCost  = 25
	DodgeStaminaCost   = 15

	ComboWindow    = 2 * time.Second
	ComboThreshold = 3

	BaseCritChance  = 0.05
	CritMultiplier  = 1.5
	EnemyCritChance = 0.10

	SpecialChance = 0.3
)

// Outcome reports what a resolved turn did to the fight.
type Outcome struct {
	Lines          []string
	EnemyDefeated  bool
	PlayerDefeated bool
	Fled           bool
}

// Session is one fight in progress.
type Session struct {
	Player  *entity.Player
	Enemy   *entity.NPC
	World   *entity.World
	Loc     *entity.Location
	RNG     *rng.RNG
	Tracker *quest.Tracker

	Stance Stance
	Combo  int

	// Now supplies the combo clock; Parry is the reaction prompt shown by
	// the presentation layer, returning whether the player hit the window.
	Now   func() time.Time
	Parry func() bool

	lastAttack time.Time
	dodging    bool
}

// New opens a fight. The default parry input always misses, which is the
// right behavior for non-interactive callers.
func New(p *entity.Player, enemy *entity.NPC, w *entity.World, loc *entity.Location, g *rng.RNG, tr *quest.Tracker) *Session {
	return &Session{
		Player:  p,
		Enemy:   enemy,
		World:   w,
		Loc:     loc,
		RNG:     g,
		Tracker: tr,
		Stance:  StanceNeutral,
		Now:     time.Now,
		Parry:   func() bool { return false },
	}
}

// SetStance switches the fighting stance. A free action. "balanced" is
// accepted as a synonym for neutral.
func (s *Session) SetStance(st Stance) []string {
	if st == "balanced" {
		st = StanceNeutral
	}
	switch st {
	case StanceAggressive, StanceNeutral, StanceDefensive:
		s.Stance = st
		return []string{fmt.Sprintf("You shift to a %s stance.", st)}
	}
	return []string{"You know three stances: aggressive, neutral, defensive."}
}

func (s *Session) stanceMultiplier() float64 {
	switch s.Stance {
	case StanceAggressive:
		return 1.3
	case StanceDefensive:
		return 0.7
	}
	return 1.0
}

// Turn resolves one player action. Recognized actions: attack, parry,
// charge, dodge, flee. Unknown actions cost nothing.
func (s *Session) Turn(action string) *Outcome {
	out := &Outcome{}
	retaliate := true

	switch action {
	case "attack":
		retaliate = s.playerAttack(out)
	case "parry":
		s.parry(out)
		retaliate = false
	case "charge":
		retaliate = s.charge(out)
	case "dodge":
		s.dodge(out)
	case "flee":
		retaliate = s.flee(out)
	default:
		out.Lines = append(out.Lines, "You hesitate. (attack, parry, charge, dodge, flee)")
		return out
	}

	if !s.Enemy.IsAlive() {
		s.defeat(out)
		return out
	}
	if out.Fled {
		return out
	}
	if retaliate {
		s.enemyTurn(out)
	}
	s.endOfTurn(out)

	if !s.Player.IsAlive() {
		out.PlayerDefeated = true
	}
	return out
}

// UseItem consumes an item mid-fight; the enemy still gets its turn.
func (s *Session) UseItem(it *entity.Item) *Outcome {
	out := &Outcome{}
	line, ok := s.Player.UseConsumable(it)
	if !ok {
		out.Lines = append(out.Lines, fmt.Sprintf("The %s is of no use here.", it.Name))
		return out
	}
	out.Lines = append(out.Lines, line)
	s.enemyTurn(out)
	s.endOfTurn(out)
	if !s.Player.IsAlive() {
		out.PlayerDefeated = true
	}
	return out
}

// playerAttack is the standard strike: stance, crit, combo and variance
// multipliers over base attack power. Returns whether the enemy gets to
// retaliate (an exhausted swing aborts the exchange).
func (s *Session) playerAttack(out *Outcome) bool {
	cost := UnarmedStaminaCost
	if w := s.Player.Inventory.Equipped[entity.SlotWeapon]; w != nil && w.Weapon != nil {
		cost = w.Weapon.StaminaCost
	}
	if !s.Player.UseStamina(cost) {
		out.Lines = append(out.Lines, "You are too exhausted to attack.")
		return false
	}

	now := s.Now()
	if now.Sub(s.lastAttack) < ComboWindow {
		s.Combo++
	} else {
		s.Combo = 0
	}
	s.lastAttack = now

	dmg := float64(s.Player.AttackPower()) * s.stanceMultiplier()

	crit := s.RNG.Chance(BaseCritChance + float64(s.Player.Dexterity)/200)
	if crit {
		dmg *= CritMultiplier
	}
	if s.Combo >= ComboThreshold {
		dmg *= 1 + float64(s.Combo)*0.1
	}
	dmg *= s.RNG.Uniform(0.9, 1.1)

	dealt := s.Enemy.TakeDamage(int(dmg))
	switch {
	case crit && s.Combo >= ComboThreshold:
		out.Lines = append(out.Lines, fmt.Sprintf("A devastating %d-hit critical! %s takes %d damage.", s.Combo+1, s.Enemy.Name, dealt))
	case crit:
		out.Lines = append(out.Lines, fmt.Sprintf("Critical hit! %s takes %d damage.", s.Enemy.Name, dealt))
	case s.Combo >= ComboThreshold:
		out.Lines = append(out.Lines, fmt.Sprintf("Combo x%d! %s takes %d damage.", s.Combo+1, s.Enemy.Name, dealt))
	default:
		out.Lines = append(out.Lines, fmt.Sprintf("You strike %s for %d damage.", s.Enemy.Name, dealt))
	}
	return true
}

// parry is a timed reaction. Success spends stamina and punishes with a
// counter that negates the enemy's turn; failure lets the blow through
// unmitigated at half strength. Either way the normal retaliation is
// replaced by this exchange.
func (s *Session) parry(out *Outcome) {
	if s.Parry() {
		if !s.Player.UseStamina(ParryStaminaCost) {
			out.Lines = append(out.Lines, "You read the blow but lack the stamina to turn it.")
			return
		}
		dmg := float64(s.Player.AttackPower()) * 1.5
		dealt := s.Enemy.TakeDamage(int(dmg))
		out.Lines = append(out.Lines, fmt.Sprintf("You turn the blow aside and counter for %d damage!", dealt))
		return
	}
	hit := s.Enemy.Attack / 2
	s.Player.DirectDamage(hit)
	out.Lines = append(out.Lines, fmt.Sprintf("Your parry falters. %s strikes through for %d damage.", s.Enemy.Name, hit))
}

// charge is a slow heavy blow: double base damage, no crit or combo.
func (s *Session) charge(out *Outcome) bool {
	if !s.Player.UseStamina(ChargeStaminaCost) {
		out.Lines = append(out.Lines, "You lack the stamina for a charged strike.")
		return false
	}
	dmg := float64(s.Player.AttackPower()) * 2 * s.RNG.Uniform(0.9, 1.1)
	dealt := s.Enemy.TakeDamage(int(dmg))
	out.Lines = append(out.Lines, fmt.Sprintf("You wind up and crush %s for %d damage.", s.Enemy.Name, dealt))
	return true
}

// dodge readies an evasion; on success the enemy's next action misses.
func (s *Session) dodge(out *Outcome) {
	if !s.Player.UseStamina(DodgeStaminaCost) {
		out.Lines = append(out.Lines, "You are too tired to stay light on your feet.")
		return
	}
	if s.RNG.Chance(0.5 + float64(s.Player.Dexterity)/100) {
		s.dodging = true
		out.Lines = append(out.Lines, "You read the rhythm of the fight, ready to slip aside.")
	} else {
		out.Lines = append(out.Lines, "You misjudge the opening.")
	}
}

// flee attempts to escape; failure costs the exchange.
func (s *Session) flee(out *Outcome) bool {
	if s.RNG.Chance(0.4 + float64(s.Player.Dexterity)/100) {
		out.Fled = true
		out.Lines = append(out.Lines, fmt.Sprintf("You break away from %s.", s.Enemy.Name))
		return false
	}
	out.Lines = append(out.Lines, "You fail to escape!")
	return true
}

// enemyTurn resolves the enemy response: a special ability three times
// out of ten when it has any, otherwise a plain attack.
func (s *Session) enemyTurn(out *Outcome) {
	if s.dodging {
		s.dodging = false
		out.Lines = append(out.Lines, fmt.Sprintf("%s lashes out, but you slip aside.", s.Enemy.Name))
		return
	}
	if len(s.Enemy.Abilities) > 0 && s.RNG.Chance(SpecialChance) {
		ab := s.Enemy.Abilities[s.RNG.Roll(len(s.Enemy.Abilities))]
		s.resolveAbility(ab, out)
		return
	}

	raw := float64(s.Enemy.Attack)
	if s.RNG.Chance(EnemyCritChance) {
		raw *= CritMultiplier
	}
	raw *= s.RNG.Uniform(0.9, 1.1)
	dealt := s.Player.TakeDamage(int(raw))
	out.Lines = append(out.Lines, fmt.Sprintf("%s hits you for %d damage.", s.Enemy.Name, dealt))
}

func (s *Session) resolveAbility(ab entity.Ability, out *Outcome) {
	switch ab.Kind {
	case "aoe_attack":
		dealt := s.Player.TakeDamage(ab.Damage)
		out.Lines = append(out.Lines, fmt.Sprintf("%s unleashes %s! You take %d damage.", s.Enemy.Name, ab.Name, dealt))
	case "heal":
		s.Enemy.Health += ab.Heal
		if s.Enemy.Health > s.Enemy.MaxHealth {
			s.Enemy.Health = s.Enemy.MaxHealth
		}
		out.Lines = append(out.Lines, fmt.Sprintf("%s uses %s and recovers.", s.Enemy.Name, ab.Name))
	case "status":
		s.Player.ApplyBuff(entity.Buff{Type: ab.Effect, Amount: -ab.Potency, Duration: ab.Duration})
		out.Lines = append(out.Lines, fmt.Sprintf("%s uses %s. Your %s is sapped.", s.Enemy.Name, ab.Name, ab.Effect))
	case "summon":
		// Recognized but inert: reinforcements are an extension point.
		out.Lines = append(out.Lines, fmt.Sprintf("%s calls into the dark, but nothing answers.", s.Enemy.Name))
	default:
		out.Lines = append(out.Lines, fmt.Sprintf("%s uses %s to no effect.", s.Enemy.Name, ab.Name))
	}
}

// endOfTurn runs upkeep: buff durations tick and stamina recovers.
func (s *Session) endOfTurn(out *Outcome) {
	out.Lines = append(out.Lines, s.Player.TickBuffs()...)
	s.Player.RestoreStamina(s.Player.StaminaRegen())
}

// defeat pays out the fallen enemy: loot, essence, experience and the
// kill event for any quests watching this enemy.
func (s *Session) defeat(out *Outcome) {
	out.EnemyDefeated = true
	e := s.Enemy
	out.Lines = append(out.Lines, fmt.Sprintf("%s falls.", e.Name))

	if e.Loot != nil {
		if e.Loot.EssenceMax > 0 {
			essence := s.RNG.IntBetween(e.Loot.EssenceMin, e.Loot.EssenceMax)
			s.Player.Essence += essence
			out.Lines = append(out.Lines, fmt.Sprintf("You absorb %d essence.", essence))
		}
		for _, id := range e.Loot.Guaranteed {
			s.award(id, out)
		}
		for _, d := range e.Loot.Drops {
			if s.RNG.Chance(d.Chance) {
				s.award(d.ItemID, out)
			}
		}
	}

	out.Lines = append(out.Lines, s.Player.GainExperience(e.MaxHealth/2)...)

	if s.Loc != nil {
		s.Loc.RemoveEnemy(e)
	}
	if s.Tracker != nil {
		out.Lines = append(out.Lines, s.Tracker.Record(s.Player, s.Loc, entity.ObjectiveKill, e.ID, 1)...)
	}
}

func (s *Session) award(itemID string, out *Outcome) {
	it, err := s.World.ItemInstance(itemID)
	if err != nil {
		return
	}
	if s.Player.Inventory.Add(it) {
		out.Lines = append(out.Lines, fmt.Sprintf("You find: %s", it.Name))
	} else if s.Loc != nil {
		s.Loc.Items = append(s.Loc.Items, it)
		out.Lines = append(out.Lines, fmt.Sprintf("Your pack is full. The %s falls to the ground.", it.Name))
	}
}

// Package engine coordinates the world simulation: it parses player
// input, routes it to the exploration, combat or dialogue handler for the
// current mode, advances background world state and enforces the death
// and respawn rules. All output is returned as narrative lines; the
// presentation layers decide how to draw them.
package engine

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/ardenvale/engine/combat"
	"github.com/nathoo/ardenvale/engine/dialogue"
	"github.com/nathoo/ardenvale/engine/parser"
	"github.com/nathoo/ardenvale/engine/quest"
	"github.com/nathoo/ardenvale/engine/rng"
	"github.com/nathoo/ardenvale/entity"
)

// Mode is the input mode the engine is in.
type Mode int

const (
	ModeExplore Mode = iota
	ModeCombat
	ModeDialogue
)

// SellRate is the fraction of an item's value a merchant pays for it.
const SellRate = 0.7

// Engine drives one game session.
type Engine struct {
	World   *entity.World
	Player  *entity.Player
	RNG     *rng.RNG
	Tracker *quest.Tracker
	Log     *zap.Logger

	// Now feeds the combat combo clock and essence decay; ParryInput is
	// the reaction prompt for parries. Both are injectable for the front
	// ends and for tests.
	Now        func() time.Time
	ParryInput func() bool

	// EssenceDecay overrides the default decay window when positive.
	EssenceDecay time.Duration

	// AutosaveEvery triggers OnAutosave after that many turns (0 = off).
	AutosaveEvery int
	OnAutosave    func() []string

	Turns    int
	GameOver bool

	fight *combat.Session
	talk  *dialogue.Session
}

// New creates an engine over a loaded world and player.
func New(w *entity.World, p *entity.Player, g *rng.RNG, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		World:      w,
		Player:     p,
		RNG:        g,
		Tracker:    quest.NewTracker(w),
		Log:        log,
		Now:        time.Now,
		ParryInput: func() bool { return false },
	}
}

// Mode reports the current input mode.
func (e *Engine) Mode() Mode {
	switch {
	case e.fight != nil:
		return ModeCombat
	case e.talk != nil:
		return ModeDialogue
	}
	return ModeExplore
}

// Fight exposes the active combat session (nil outside combat); the TUI
// status bar reads enemy health from it.
func (e *Engine) Fight() *combat.Session { return e.fight }

// Start returns the opening narration for a fresh session.
func (e *Engine) Start() []string {
	var lines []string
	if e.World.Intro != "" {
		lines = append(lines, e.World.Intro, "")
	}
	e.Player.Discovered[e.Player.Location] = true
	return append(lines, e.look()...)
}

// Step processes one player input and returns the resulting narration.
func (e *Engine) Step(input string) []string {
	if e.GameOver {
		return []string{"The fire has gone out. Start a new journey."}
	}
	cmd := parser.Parse(input)
	if cmd.Verb == "" {
		return nil
	}

	var lines []string
	switch e.Mode() {
	case ModeDialogue:
		lines = e.stepDialogue(cmd)
	case ModeCombat:
		lines = e.stepCombat(cmd)
	default:
		lines = e.stepExplore(cmd)
	}

	e.Turns++
	if e.Mode() == ModeExplore && !e.GameOver {
		pruned, faded := e.World.Refresh(e.Now(), e.EssenceDecay)
		if pruned > 0 || faded {
			e.Log.Debug("world refresh",
				zap.Int("pruned", pruned), zap.Bool("essence_faded", faded))
		}
		if e.AutosaveEvery > 0 && e.OnAutosave != nil && e.Turns%e.AutosaveEvery == 0 {
			lines = append(lines, e.OnAutosave()...)
		}
	}
	return lines
}

// stepDialogue routes input while a conversation is open: a numbered
// choice, or leaving.
func (e *Engine) stepDialogue(cmd parser.Command) []string {
	switch cmd.Verb {
	case "leave", "farewell", "bye", "quit":
		lines := e.talk.Leave()
		e.talk = nil
		return lines
	case "choose":
		if n, err := strconv.Atoi(cmd.Arg); err == nil {
			return e.choose(n)
		}
	default:
		if n, err := strconv.Atoi(cmd.Verb); err == nil {
			return e.choose(n)
		}
	}
	return []string{"Pick a numbered response, or 'leave'."}
}

func (e *Engine) choose(n int) []string {
	lines := e.talk.Choose(n)
	if !e.talk.Active() {
		e.talk = nil
	}
	return lines
}

// stepCombat routes input while a fight is on.
func (e *Engine) stepCombat(cmd parser.Command) []string {
	switch cmd.Verb {
	case "attack", "parry", "charge", "dodge", "flee":
		return e.resolveCombat(e.fight.Turn(cmd.Verb))
	case "go":
		// Running for an exit is just fleeing.
		return e.resolveCombat(e.fight.Turn("flee"))
	case "stance":
		return e.fight.SetStance(combat.Stance(cmd.Arg))
	case "use":
		it := e.Player.Inventory.Find(cmd.Arg)
		if it == nil {
			return []string{"You carry no such thing."}
		}
		return e.resolveCombat(e.fight.UseItem(it))
	case "status":
		return e.statusLines()
	case "look":
		en := e.fight.Enemy
		return []string{fmt.Sprintf("%s: %d/%d health. %s",
			en.Name, en.Health, en.MaxHealth, en.Description)}
	}
	return []string{"The fight allows: attack, parry, charge, dodge, flee, stance <s>, use <item>."}
}

// resolveCombat applies a turn outcome to the session state.
func (e *Engine) resolveCombat(out *combat.Outcome) []string {
	lines := out.Lines
	loc := e.loc()

	switch {
	case out.PlayerDefeated:
		e.fight = nil
		lines = append(lines, e.die()...)
	case out.EnemyDefeated:
		enemy := e.fight.Enemy
		e.fight = nil
		lines = append(lines, e.afterKill(loc, enemy)...)
	case out.Fled:
		e.fight = nil
		// Fleeing carries the player back the way they came.
		if prev := e.Player.PreviousLocation; prev != "" {
			if _, err := e.World.Location(prev); err == nil {
				e.Player.PreviousLocation = e.Player.Location
				e.Player.Location = prev
				lines = append(lines, e.look()...)
			}
		}
	}
	return lines
}

// afterKill handles location consequences of a defeated enemy: beacon
// guardians unlock their beacon, boss areas stay cleared.
func (e *Engine) afterKill(loc *entity.Location, enemy *entity.NPC) []string {
	var lines []string
	if loc.Beacon && !loc.Unlocked && enemy.ID == loc.Guardian {
		loc.Unlocked = true
		lines = append(lines, "The guardian's ember gutters out. The beacon flares to life.")
		e.Log.Info("beacon unlocked", zap.String("location", loc.ID))
	}
	if loc.Boss && len(loc.SpawnPool) > 0 && enemy.ID == loc.SpawnPool[0] {
		loc.Cleared = true
	}
	if len(loc.ActiveEnemies) == 0 {
		lines = append(lines, "The area falls silent.")
	} else {
		lines = append(lines, fmt.Sprintf("%d hostiles remain.", len(loc.ActiveEnemies)))
	}
	return lines
}

// loc returns the player's current location. The id is validated on
// load and on every move, so a miss here is a programming error.
func (e *Engine) loc() *entity.Location {
	l, err := e.World.Location(e.Player.Location)
	if err != nil {
		e.Log.Error("player at unknown location", zap.String("id", e.Player.Location))
		for _, any := range e.World.Locations {
			return any
		}
	}
	return l
}

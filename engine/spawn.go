package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/ardenvale/entity"
)

const (
	spawnChance   = 0.8
	maxSpawnCount = 3

	// Guardian scaling per player level above 1.
	guardianHealthPerLevel  = 20
	guardianAttackPerLevel  = 3
	guardianDefensePerLevel = 2
)

// spawnAt populates a location the player just entered. Boss areas hold
// exactly one boss until cleared; ordinary areas roll a pack from the
// spawn pool. Nothing spawns while earlier hostiles still prowl, and a
// protected beacon's guardian waits for a rest attempt, not for arrival.
func (e *Engine) spawnAt(loc *entity.Location) []string {
	if len(loc.ActiveEnemies) > 0 {
		return nil
	}

	if len(loc.SpawnPool) == 0 {
		return nil
	}

	if loc.Boss {
		if loc.Cleared {
			return nil
		}
		boss, err := e.World.SpawnNPC(loc.SpawnPool[0])
		if err != nil {
			e.Log.Error("boss template missing", zap.String("location", loc.ID), zap.Error(err))
			return nil
		}
		loc.ActiveEnemies = append(loc.ActiveEnemies, boss)
		return []string{fmt.Sprintf("%s awaits.", boss.Name)}
	}

	if !e.RNG.Chance(spawnChance) {
		return nil
	}
	limit := len(loc.SpawnPool)
	if limit > maxSpawnCount {
		limit = maxSpawnCount
	}
	count := e.RNG.IntBetween(1, limit)
	for i := 0; i < count; i++ {
		id := loc.SpawnPool[e.RNG.Roll(len(loc.SpawnPool))]
		inst, err := e.World.SpawnNPC(id)
		if err != nil {
			e.Log.Error("spawn template missing", zap.String("id", id), zap.Error(err))
			continue
		}
		loc.ActiveEnemies = append(loc.ActiveEnemies, inst)
	}
	if len(loc.ActiveEnemies) == 0 {
		return nil
	}
	e.Log.Debug("spawned hostiles",
		zap.String("location", loc.ID), zap.Int("count", len(loc.ActiveEnemies)))
	return []string{fmt.Sprintf("Hostile shapes stir in the gloom (%d).", len(loc.ActiveEnemies))}
}

// raiseGuardian materializes a protected beacon's guardian, at most one
// at a time. Returns nil when the guardian already prowls the location.
func (e *Engine) raiseGuardian(loc *entity.Location) []string {
	for _, en := range loc.ActiveEnemies {
		if en.ID == loc.Guardian && en.IsAlive() {
			return nil
		}
	}
	g, err := e.World.SpawnNPC(loc.Guardian)
	if err != nil {
		e.Log.Error("guardian template missing", zap.String("location", loc.ID), zap.Error(err))
		return nil
	}
	e.scaleGuardian(g)
	loc.ActiveEnemies = append(loc.ActiveEnemies, g)
	return []string{fmt.Sprintf("%s stands between you and the beacon.", g.Name)}
}

// scaleGuardian grows a beacon guardian linearly with player level so
// late-game beacons stay contested.
func (e *Engine) scaleGuardian(g *entity.NPC) {
	steps := e.Player.Level - 1
	if steps <= 0 {
		return
	}
	g.MaxHealth += guardianHealthPerLevel * steps
	g.Health = g.MaxHealth
	g.Attack += guardianAttackPerLevel * steps
	g.Defense += guardianDefensePerLevel * steps
	if g.Level < e.Player.Level {
		g.Level = e.Player.Level
	}
}

// die applies the death policy: essence scatters where the player fell,
// and the last beacon relights them at half health. Without a beacon the
// journey ends.
func (e *Engine) die() []string {
	loc := e.loc()
	lines := []string{"You die."}

	if e.Player.Essence > 0 {
		if loc.Essence == nil {
			loc.Essence = &entity.EssenceDrop{}
		}
		loc.Essence.Amount += e.Player.Essence
		loc.Essence.DroppedAt = e.Now()
		lines = append(lines, fmt.Sprintf("Your essence (%d) scatters where you fell.", loc.Essence.Amount))
		e.Player.Essence = 0
	}

	if e.Player.LastBeacon == "" {
		e.GameOver = true
		e.Log.Info("game over", zap.Int("turns", e.Turns))
		return append(lines, "No beacon holds your flame. Darkness takes Ardenvale.")
	}

	e.Player.PreviousLocation = e.Player.Location
	e.Player.Location = e.Player.LastBeacon
	e.Player.Health = e.Player.MaxHealth / 2
	e.Player.Stamina = e.Player.MaxStamina
	e.Log.Info("player respawned", zap.String("beacon", e.Player.LastBeacon))
	lines = append(lines, "You wake at the beacon, hollow but breathing.")
	return append(lines, e.look()...)
}

// Package quest advances quest objectives from game events and pays out
// rewards when a quest completes. Events are fire-and-forget: the caller
// reports what happened (a kill, a pickup, a discovery, a conversation)
// and every active quest with a matching objective moves forward.
package quest

import (
	"fmt"

	"github.com/nathoo/ardenvale/entity"
)

// Tracker routes events to active quests.
type Tracker struct {
	World *entity.World
}

// NewTracker wraps a world's quest registry.
func NewTracker(w *entity.World) *Tracker {
	return &Tracker{World: w}
}

// Record reports a game event. kind is the objective stream, target the
// entity id involved, n the amount (kills and pickups count, discoveries
// and talks pass 1). Returns narrative lines for any objective or quest
// completions, including reward payout.
func (t *Tracker) Record(p *entity.Player, loc *entity.Location, kind entity.ObjectiveKind, target string, n int) []string {
	var lines []string
	for _, q := range t.World.Quests {
		if !q.Active() {
			continue
		}
		advanced := false
		for _, o := range q.Objectives {
			if o.Kind != kind || o.Target != target || o.Done {
				continue
			}
			if o.Advance(n) {
				lines = append(lines, fmt.Sprintf("Objective complete: %s (%s)", describe(o), q.Name))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %d/%d (%s)", describe(o), o.Progress, o.Required, q.Name))
			}
			advanced = true
		}
		if advanced && q.AllObjectivesDone() {
			lines = append(lines, t.complete(q, p, loc)...)
		}
	}
	return lines
}

// complete marks the quest finished and applies rewards in order:
// essence, item, experience, reputation.
func (t *Tracker) complete(q *entity.Quest, p *entity.Player, loc *entity.Location) []string {
	q.Completed = true
	lines := []string{fmt.Sprintf("Quest complete: %s", q.Name)}

	r := q.Rewards
	if r.Essence > 0 {
		p.Essence += r.Essence
		lines = append(lines, fmt.Sprintf("You receive %d essence.", r.Essence))
	}
	if r.ItemID != "" {
		if it, err := t.World.ItemInstance(r.ItemID); err == nil {
			if p.Inventory.Add(it) {
				lines = append(lines, fmt.Sprintf("You receive: %s", it.Name))
			} else if loc != nil {
				loc.Items = append(loc.Items, it)
				lines = append(lines, fmt.Sprintf("Your pack is full. The %s falls at your feet.", it.Name))
			}
		}
	}
	if r.Experience > 0 {
		lines = append(lines, p.GainExperience(r.Experience)...)
	}
	if r.Faction != "" && r.Reputation != 0 {
		p.Reputation[r.Faction] += r.Reputation
		lines = append(lines, fmt.Sprintf("Your standing with %s improves.", r.Faction))
	}
	return lines
}

// Offerable returns the quests the given NPC can offer the player right
// now: not yet started, giver matches, prerequisites met.
func (t *Tracker) Offerable(npcID string, p *entity.Player) []*entity.Quest {
	var out []*entity.Quest
	for _, q := range t.World.Quests {
		if q.Started || q.Completed || q.Giver != npcID {
			continue
		}
		if entity.AllMet(q.Prereqs, p, nil, t.World) {
			out = append(out, q)
		}
	}
	return out
}

func describe(o *entity.Objective) string {
	switch o.Kind {
	case entity.ObjectiveKill:
		return fmt.Sprintf("Slay %s", o.Target)
	case entity.ObjectiveItem:
		return fmt.Sprintf("Obtain %s", o.Target)
	case entity.ObjectiveLocation:
		return fmt.Sprintf("Reach %s", o.Target)
	case entity.ObjectiveTalk:
		return fmt.Sprintf("Speak with %s", o.Target)
	}
	return o.Target
}

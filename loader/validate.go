package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/ardenvale/entity"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled world for referential integrity. It always
// returns a ValidationError; the load fails only when Errors is non-empty.
func validate(w *entity.World) *ValidationError {
	ve := &ValidationError{}

	if w.Title == "" {
		ve.errorf("Game.title is required")
	}
	if w.Start == "" {
		ve.errorf("Game.start is required")
	} else if _, ok := w.Locations[w.Start]; !ok {
		ve.errorf("start location %q not found in defined locations", w.Start)
	}

	for _, id := range sortedKeys(w.Locations) {
		validateLocation(w.Locations[id], w, ve)
	}
	for _, id := range sortedKeys(w.NPCs) {
		validateNPC(w.NPCs[id], w, ve)
	}
	for _, id := range sortedKeys(w.Quests) {
		validateQuest(w.Quests[id], w, ve)
	}

	for _, id := range w.StartingItems {
		if _, ok := w.Items[id]; !ok {
			ve.errorf("starting item %q is not defined", id)
		}
	}

	for region, ids := range w.Regions {
		for _, id := range ids {
			if _, ok := w.Locations[id]; !ok {
				ve.errorf("region %q lists undefined location %q", region, id)
			}
		}
	}

	return ve
}

func validateLocation(l *entity.Location, w *entity.World, ve *ValidationError) {
	for dir, target := range l.Connections {
		if _, ok := w.Locations[target]; !ok {
			ve.errorf("location %q connection %q points to undefined location %q",
				l.ID, dir, target)
		}
	}

	for _, npcID := range l.NPCs {
		npc, ok := w.NPCs[npcID]
		if !ok {
			ve.errorf("location %q lists undefined npc %q", l.ID, npcID)
			continue
		}
		if !npc.Friendly {
			ve.warnf("location %q lists hostile %q as a resident; hostiles belong in spawn_pool",
				l.ID, npcID)
		}
	}

	for _, tmplID := range l.SpawnPool {
		tmpl, ok := w.NPCs[tmplID]
		if !ok {
			ve.errorf("location %q spawn pool references undefined npc %q", l.ID, tmplID)
			continue
		}
		if tmpl.Friendly {
			ve.warnf("location %q spawn pool includes friendly npc %q", l.ID, tmplID)
		}
	}

	if l.Boss && len(l.SpawnPool) == 0 {
		ve.errorf("boss location %q has an empty spawn pool", l.ID)
	}

	if l.Guardian != "" {
		if _, ok := w.NPCs[l.Guardian]; !ok {
			ve.errorf("location %q guardian references undefined npc %q", l.ID, l.Guardian)
		}
		if !l.Beacon {
			ve.warnf("location %q has a guardian but no beacon", l.ID)
		}
	}

	for i, g := range l.Gates {
		validateCondition(fmt.Sprintf("location %q gate %d", l.ID, i+1), g.Condition, w, ve)
		if g.Reason == "" {
			ve.warnf("location %q gate %d has no refusal reason", l.ID, i+1)
		}
	}
}

func validateNPC(n *entity.NPC, w *entity.World, ve *ValidationError) {
	for _, s := range n.Shop {
		if _, ok := w.Items[s.ItemID]; !ok {
			ve.errorf("npc %q sells undefined item %q", n.ID, s.ItemID)
		}
		if s.Price <= 0 {
			ve.errorf("npc %q sells %q without a positive price", n.ID, s.ItemID)
		}
	}
	if len(n.Shop) > 0 && !n.Merchant {
		ve.warnf("npc %q has shop entries but is not a merchant", n.ID)
	}

	if n.Loot != nil {
		for _, id := range n.Loot.Guaranteed {
			if _, ok := w.Items[id]; !ok {
				ve.errorf("npc %q guaranteed loot references undefined item %q", n.ID, id)
			}
		}
		for _, d := range n.Loot.Drops {
			if _, ok := w.Items[d.ItemID]; !ok {
				ve.errorf("npc %q loot drop references undefined item %q", n.ID, d.ItemID)
			}
			if d.Chance <= 0 || d.Chance > 1 {
				ve.errorf("npc %q loot drop %q chance %v outside (0, 1]", n.ID, d.ItemID, d.Chance)
			}
		}
	}

	if n.Dialogue != nil {
		validateDialogue(n, w, ve)
	}
}

func validateDialogue(n *entity.NPC, w *entity.World, ve *ValidationError) {
	if _, ok := n.Dialogue["greeting"]; !ok {
		ve.errorf("npc %q dialogue has no greeting node", n.ID)
	}

	for _, nodeID := range sortedKeys(n.Dialogue) {
		node := n.Dialogue[nodeID]
		if node.Condition != nil {
			ctx := fmt.Sprintf("npc %q dialogue %q", n.ID, nodeID)
			validateCondition(ctx, *node.Condition, w, ve)
			for arm, branch := range map[string]*entity.DialogueBranch{
				"success": node.Success, "failure": node.Failure,
			} {
				if branch == nil {
					ve.errorf("%s has no %s branch", ctx, arm)
					continue
				}
				if branch.Next != "" {
					if _, ok := n.Dialogue[branch.Next]; !ok {
						ve.errorf("%s %s branch leads to undefined node %q", ctx, arm, branch.Next)
					}
				}
			}
		}
		for i, resp := range node.Responses {
			ctx := fmt.Sprintf("npc %q dialogue %q response %d", n.ID, nodeID, i+1)
			if resp.Next != "" {
				if _, ok := n.Dialogue[resp.Next]; !ok {
					ve.errorf("%s leads to undefined node %q", ctx, resp.Next)
				}
			}
			for _, c := range resp.Conditions {
				validateCondition(ctx, c, w, ve)
			}
			for _, eff := range resp.Effects {
				validateEffect(ctx, eff, w, ve)
			}
		}
	}
}

func validateQuest(q *entity.Quest, w *entity.World, ve *ValidationError) {
	if q.Giver != "" {
		if _, ok := w.NPCs[q.Giver]; !ok {
			ve.errorf("quest %q giver references undefined npc %q", q.ID, q.Giver)
		}
	}

	for i, o := range q.Objectives {
		ctx := fmt.Sprintf("quest %q objective %d", q.ID, i+1)
		if o.Required < 1 {
			ve.errorf("%s needs a count of at least 1", ctx)
		}
		switch o.Kind {
		case entity.ObjectiveKill, entity.ObjectiveTalk:
			if _, ok := w.NPCs[o.Target]; !ok {
				ve.errorf("%s targets undefined npc %q", ctx, o.Target)
			}
		case entity.ObjectiveItem:
			if _, ok := w.Items[o.Target]; !ok {
				ve.errorf("%s targets undefined item %q", ctx, o.Target)
			}
		case entity.ObjectiveLocation:
			if _, ok := w.Locations[o.Target]; !ok {
				ve.errorf("%s targets undefined location %q", ctx, o.Target)
			}
		}
	}

	if q.Rewards.ItemID != "" {
		if _, ok := w.Items[q.Rewards.ItemID]; !ok {
			ve.errorf("quest %q reward references undefined item %q", q.ID, q.Rewards.ItemID)
		}
	}

	for i, c := range q.Prereqs {
		validateCondition(fmt.Sprintf("quest %q prereq %d", q.ID, i+1), c, w, ve)
	}
}

func validateCondition(ctx string, c entity.Condition, w *entity.World, ve *ValidationError) {
	switch c.Kind {
	case entity.CondHasItem:
		if _, ok := w.Items[c.ItemID]; !ok {
			ve.errorf("%s: has_item references undefined item %q", ctx, c.ItemID)
		}
	case entity.CondQuestComplete:
		if _, ok := w.Quests[c.QuestID]; !ok {
			ve.errorf("%s: quest_complete references undefined quest %q", ctx, c.QuestID)
		}
	case entity.CondPlayerFlag, entity.CondNPCFlag:
		if c.Flag == "" {
			ve.errorf("%s: flag condition has no flag name", ctx)
		}
	case entity.CondMinLevel:
		if c.Level < 1 {
			ve.errorf("%s: min_level needs a level of at least 1", ctx)
		}
	default:
		ve.errorf("%s: unknown condition kind %q", ctx, c.Kind)
	}
}

func validateEffect(ctx string, eff entity.DialogueEffect, w *entity.World, ve *ValidationError) {
	switch eff.Kind {
	case "set_player_flag", "set_npc_flag":
		if eff.Flag == "" {
			ve.errorf("%s: flag effect has no flag name", ctx)
		}
	case "start_quest":
		if _, ok := w.Quests[eff.QuestID]; !ok {
			ve.errorf("%s: start_quest references undefined quest %q", ctx, eff.QuestID)
		}
	case "give_item":
		if _, ok := w.Items[eff.ItemID]; !ok {
			ve.errorf("%s: give_item references undefined item %q", ctx, eff.ItemID)
		}
	default:
		ve.errorf("%s: unknown effect kind %q", ctx, eff.Kind)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

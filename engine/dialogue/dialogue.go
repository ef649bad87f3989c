// Package dialogue runs conversations over the dialogue graphs attached
// to NPCs. A session walks the graph one node at a time, filtering
// responses by their conditions and applying side effects when the player
// picks one.
package dialogue

import (
	"fmt"

	"github.com/nathoo/ardenvale/entity"
)

// GreetingNode is the entry node of every dialogue graph.
const GreetingNode = "greeting"

// Session is an in-progress conversation with one NPC.
type Session struct {
	Player *entity.Player
	NPC    *entity.NPC
	World  *entity.World
	Loc    *entity.Location

	node    *entity.DialogueNode
	choices []entity.DialogueResponse
	done    bool
}

// Start opens a conversation, resuming from the NPC's saved cursor if one
// is set. Returns the session and the opening lines; the session is nil
// when the NPC has nothing to say.
func Start(p *entity.Player, npc *entity.NPC, w *entity.World, loc *entity.Location) (*Session, []string) {
	if len(npc.Dialogue) == 0 {
		return nil, []string{fmt.Sprintf("%s has nothing to say.", npc.Name)}
	}
	start := npc.Cursor
	if start == "" {
		start = GreetingNode
	}
	node, ok := npc.Dialogue[start]
	if !ok {
		if node, ok = npc.Dialogue[GreetingNode]; !ok {
			return nil, []string{fmt.Sprintf("%s has nothing to say.", npc.Name)}
		}
	}
	s := &Session{Player: p, NPC: npc, World: w, Loc: loc}
	return s, s.enter(node)
}

// Active reports whether the conversation is still going.
func (s *Session) Active() bool { return !s.done }

// Choices returns the responses currently offered to the player.
func (s *Session) Choices() []entity.DialogueResponse { return s.choices }

// enter moves to a node, renders its utterance and the numbered choices,
// and ends the conversation when no response passes its conditions.
//
// A branching node carries a condition instead of display text: the
// condition picks the success or failure arm, the arm's text becomes the
// utterance, and the conversation lands on the arm's next node (staying
// put when the arm names none). The landed node supplies the choices.
func (s *Session) enter(node *entity.DialogueNode) []string {
	utterance := node.Text
	if node.Condition != nil {
		branch := node.Failure
		if node.Condition.Met(s.Player, s.NPC, s.World) {
			branch = node.Success
		}
		if branch != nil {
			utterance = branch.Text
			if branch.Next != "" {
				if landed, ok := s.NPC.Dialogue[branch.Next]; ok {
					node = landed
				}
			}
		}
	}

	s.node = node
	s.choices = s.choices[:0]
	for _, r := range node.Responses {
		if entity.AllMet(r.Conditions, s.Player, s.NPC, s.World) {
			s.choices = append(s.choices, r)
		}
	}

	lines := []string{fmt.Sprintf("%s: '%s'", s.NPC.Name, utterance)}
	if len(s.choices) == 0 {
		s.end()
		return append(lines, fmt.Sprintf("%s turns away.", s.NPC.Name))
	}
	for i, r := range s.choices {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, r.Text))
	}
	return lines
}

// Choose picks the i-th offered response (1-based), applies its effects
// and advances the conversation. Out-of-range choices leave the session
// untouched.
func (s *Session) Choose(i int) []string {
	if s.done {
		return nil
	}
	if i < 1 || i > len(s.choices) {
		return []string{fmt.Sprintf("Choose between 1 and %d.", len(s.choices))}
	}
	r := s.choices[i-1]

	// Effects run in a fixed order, not listing order: NPC flags, player
	// flags, quest starts, then item grants.
	var lines []string
	for _, kind := range []string{"set_npc_flag", "set_player_flag", "start_quest", "give_item"} {
		for _, eff := range r.Effects {
			if eff.Kind == kind {
				lines = append(lines, s.apply(eff)...)
			}
		}
	}

	// The reply is the response's own line when it has one; otherwise the
	// next node speaks for it, and a conversation that simply ends gets a
	// plain acknowledgement.
	if r.ResponseText != "" {
		lines = append(lines, fmt.Sprintf("%s: '%s'", s.NPC.Name, r.ResponseText))
	}
	next, ok := s.NPC.Dialogue[r.Next]
	if r.Next == "" || !ok {
		if r.ResponseText == "" {
			lines = append(lines, fmt.Sprintf("%s nods.", s.NPC.Name))
		}
		s.end()
		return lines
	}
	return append(lines, s.enter(next)...)
}

// Leave abandons the conversation, remembering the current node so the
// next talk resumes there.
func (s *Session) Leave() []string {
	if s.done {
		return nil
	}
	if s.node != nil {
		s.NPC.Cursor = s.node.ID
	}
	s.done = true
	return []string{fmt.Sprintf("You step away from %s.", s.NPC.Name)}
}

func (s *Session) end() {
	s.NPC.Cursor = ""
	s.done = true
}

// apply executes one dialogue side effect.
func (s *Session) apply(eff entity.DialogueEffect) []string {
	switch eff.Kind {
	case "set_npc_flag":
		if s.NPC.Flags == nil {
			s.NPC.Flags = make(map[string]string)
		}
		s.NPC.Flags[eff.Flag] = eff.Value
	case "set_player_flag":
		s.Player.Flags[eff.Flag] = eff.Value
	case "start_quest":
		q := s.World.Quest(eff.QuestID)
		if q == nil || q.Started || q.Completed {
			return nil
		}
		if !entity.AllMet(q.Prereqs, s.Player, s.NPC, s.World) {
			return nil
		}
		q.Started = true
		return []string{fmt.Sprintf("New quest: %s", q.Name)}
	case "give_item":
		it, err := s.World.ItemInstance(eff.ItemID)
		if err != nil {
			return nil
		}
		if !s.Player.Inventory.Add(it) {
			if s.Loc != nil {
				s.Loc.Items = append(s.Loc.Items, it)
			}
			return []string{fmt.Sprintf("Your pack is full. The %s falls at your feet.", it.Name)}
		}
		return []string{fmt.Sprintf("Received: %s", it.Name)}
	}
	return nil
}

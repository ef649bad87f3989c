package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		// Empty / whitespace
		{"empty string", "", Command{}},
		{"whitespace only", "   ", Command{}},

		// Basic verbs
		{"look", "look", Command{Verb: "look"}},
		{"inventory", "inventory", Command{Verb: "inventory"}},
		{"rest", "rest", Command{Verb: "rest"}},

		// Aliases
		{"l to look", "l", Command{Verb: "look"}},
		{"i to inventory", "i", Command{Verb: "inventory"}},
		{"get to take", "get rusty key", Command{Verb: "take", Arg: "rusty key"}},
		{"fight to attack", "fight grave hound", Command{Verb: "attack", Arg: "grave hound"}},
		{"wield to equip", "wield ashen blade", Command{Verb: "equip", Arg: "ashen blade"}},
		{"drink to use", "drink ember draught", Command{Verb: "use", Arg: "ember draught"}},
		{"journal to quests", "journal", Command{Verb: "quests"}},
		{"shop to wares", "shop", Command{Verb: "wares"}},

		// Direction shortcuts
		{"bare n", "n", Command{Verb: "go", Arg: "north"}},
		{"bare south", "south", Command{Verb: "go", Arg: "south"}},
		{"go w expands", "go w", Command{Verb: "go", Arg: "west"}},
		{"go east", "go east", Command{Verb: "go", Arg: "east"}},

		// Multi-word verbs
		{"pick up", "pick up the old key", Command{Verb: "take", Arg: "old key"}},
		{"talk to", "talk to elder maren", Command{Verb: "talk", Arg: "elder maren"}},
		{"put on", "put on iron helm", Command{Verb: "equip", Arg: "iron helm"}},
		{"take off", "take off iron helm", Command{Verb: "unequip", Arg: "iron helm"}},
		{"look at", "look at the beacon", Command{Verb: "look", Arg: "beacon"}},

		// Articles stripped
		{"articles", "take the a an ember draught", Command{Verb: "take", Arg: "ember draught"}},

		// Case folding
		{"uppercase", "TALK TO Elder Maren", Command{Verb: "talk", Arg: "elder maren"}},

		// Numbers pass through as arguments (dialogue choices)
		{"choose number", "choose 2", Command{Verb: "choose", Arg: "2"}},
		{"respond alias", "respond 1", Command{Verb: "choose", Arg: "1"}},

		// Trade
		{"buy", "buy ember draught", Command{Verb: "buy", Arg: "ember draught"}},
		{"sell", "sell hound fang", Command{Verb: "sell", Arg: "hound fang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

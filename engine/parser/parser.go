// Package parser converts command strings into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import "strings"

// Command is a parsed player input: a canonical verb and its argument.
type Command struct {
	Verb string
	Arg  string
}

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"x":       "look",
	"examine": "look",
	"inspect": "look",

	// Movement
	"walk":   "go",
	"run":    "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",

	// Take / Drop
	"get":     "take",
	"grab":    "take",
	"loot":    "take",
	"discard": "drop",

	// Combat
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"kill":   "attack",
	"engage": "attack",

	// Dialogue
	"speak":    "talk",
	"chat":     "talk",
	"converse": "talk",
	"respond":  "choose",
	"answer":   "choose",

	// Items
	"inv":      "inventory",
	"i":        "inventory",
	"wear":     "equip",
	"wield":    "equip",
	"remove":   "unequip",
	"doff":     "unequip",
	"drink":    "use",
	"eat":      "use",
	"quaff":    "use",
	"consume":  "use",

	// Trade
	"purchase": "buy",
	"shop":     "wares",
	"browse":   "wares",

	// Views
	"stats":   "status",
	"journal": "quests",
	"log":     "quests",
	"m":       "map",

	// Rest and session
	"sleep": "rest",
	"sit":   "rest",
	"q":     "quit",
	"exit":  "quit",
	"h":     "help",
	"?":     "help",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "my": true,
}

// Parse converts a raw command string into a Command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Direction shortcut: bare "n", "south", etc. means "go <direction>".
	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return Command{Verb: "go", Arg: dir}
		}
		if directionNames[words[0]] {
			return Command{Verb: "go", Arg: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])
	if verb == "go" && len(rest) > 0 {
		if dir, ok := directionExpansions[rest[0]]; ok {
			rest[0] = dir
		}
	}

	return Command{Verb: verb, Arg: strings.Join(rest, " ")}
}

// expandMultiWordVerbs handles "pick up", "talk to" and friends.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" {
			return append([]string{"look"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "put":
		if words[1] == "on" {
			return append([]string{"equip"}, words[2:]...)
		}
		if words[1] == "down" {
			return append([]string{"drop"}, words[2:]...)
		}
	case "take":
		if words[1] == "off" {
			return append([]string{"unequip"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

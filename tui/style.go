package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleBeacon = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	stylePresence = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleHostile = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	stylePaths = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindBeacon
	kindPresence
	kindHostile
	kindPaths
	kindDialogue
	kindSystem
	kindError
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "A beacon burns here"),
		strings.HasPrefix(line, "A darkened beacon"),
		strings.HasPrefix(line, "Your lost essence shimmers"):
		return kindBeacon
	case strings.HasPrefix(line, "Hostiles:"):
		return kindHostile
	case strings.HasPrefix(line, "Figures here:"),
		strings.HasPrefix(line, "On the ground:"):
		return kindPresence
	case strings.HasPrefix(line, "Paths:"):
		return kindPaths
	case strings.HasPrefix(line, "You cannot"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You carry no such thing"):
		return kindError
	case isDialogueChoice(line), containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindNarrative
	}
}

// isDialogueChoice matches the numbered response lines a conversation offers.
func isDialogueChoice(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(trimmed) < 3 || len(trimmed) == len(line) {
		return false
	}
	return trimmed[0] >= '1' && trimmed[0] <= '9' && strings.HasPrefix(trimmed[1:], ". ")
}

// containsQuotedSpeech checks if a line contains speech in single quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '\'' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindBeacon:
		return styleBeacon.Render(line)
	case kindPresence:
		return stylePresence.Render(line)
	case kindHostile:
		return styleHostile.Render(line)
	case kindPaths:
		return stylePaths.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/ardenvale/engine"
)

// renderStatusBar produces a full-width inverted status line: where the
// player is and what is open to them on the left, vitals on the right.
// During a fight the exits give way to the enemy's remaining health.
func (m Model) renderStatusBar() string {
	p := m.engine.Player

	var left string
	if m.engine.Mode() == engine.ModeCombat {
		en := m.engine.Fight().Enemy
		left = fmt.Sprintf(" %s | Fighting %s %d/%d", m.engine.LocationName(), en.Name, en.Health, en.MaxHealth)
	} else {
		left = fmt.Sprintf(" %s | Paths: %s", m.engine.LocationName(), strings.Join(m.engine.Exits(), ","))
	}

	right := fmt.Sprintf("HP %d/%d | ST %d/%d | Essence %d | T:%d ",
		p.Health, p.MaxHealth, p.Stamina, p.MaxStamina, p.Essence, m.engine.Turns)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Narrow terminals drop the essence and turn counters first.
		right = fmt.Sprintf("HP %d/%d | ST %d/%d ", p.Health, p.MaxHealth, p.Stamina, p.MaxStamina)
		gap = m.width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 0 {
			gap = 0
		}
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// Package tui provides the Bubble Tea terminal UI: a scrollback viewport
// over the engine's narration, a status bar and an input line, with the
// same save-slot meta-commands as the plain CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/nathoo/ardenvale/engine"
	"github.com/nathoo/ardenvale/engine/save"
	"github.com/nathoo/ardenvale/storage"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for meta-command output
}

// session owns the save-slot plumbing. It is shared by pointer so that
// the engine's autosave hook and every copy of the model see the same
// store and session id.
type session struct {
	engine *engine.Engine
	store  storage.Store
	log    *zap.Logger
	id     string
}

// Model is the Bubble Tea model for the game.
type Model struct {
	engine  *engine.Engine
	session *session

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine and save store.
func New(eng *engine.Engine, store storage.Store, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	s := &session{
		engine: eng,
		store:  store,
		log:    log,
		id:     uuid.NewString(),
	}
	eng.OnAutosave = s.autosave

	return Model{
		engine:  eng,
		session: s,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, store storage.Store, log *zap.Logger) error {
	m := New(eng, store, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the opening narration.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		w := m.engine.World
		header := w.Title
		if w.Version != "" {
			header += " v" + w.Version
		}
		if w.Author != "" {
			header += " by " + w.Author
		}
		lines = append(lines, header, "")
		lines = append(lines, m.engine.Start()...)

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	m = m.appendOutput(gameOutputMsg{input: input, lines: m.engine.Step(input)})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordwrap.String(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/saves":
		return m.cmdSaves(), false

	case "/delete":
		return m.cmdDelete(arg), false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(slot string) []string {
	if slot == "" {
		slot = "quicksave"
	}
	if err := m.session.writeSlot(slot); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s (turn %d).", slot, m.engine.Turns)}
}

func (m *Model) cmdLoad(slot string) []string {
	if slot == "" {
		slot = "quicksave"
	}

	data, err := m.session.store.Get(context.Background(), slot)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	var output []string
	rec, err := save.Unmarshal(data)
	if errors.Is(err, save.ErrVersionMismatch) {
		output = append(output, "Save was written by a different version; loading anyway.")
	} else if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	save.Apply(m.engine, rec)
	m.session.id = rec.SessionID

	output = append(output, fmt.Sprintf("Game loaded from %s (turn %d).", slot, rec.Turns))
	output = append(output, m.engine.Step("look")...)
	return output
}

func (m *Model) cmdSaves() []string {
	slots, err := m.session.store.List(context.Background())
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saves yet."}
	}
	output := []string{"Saves:"}
	for _, s := range slots {
		output = append(output, "  "+s)
	}
	return output
}

func (m *Model) cmdDelete(slot string) []string {
	if slot == "" {
		return []string{"Usage: /delete <slot>"}
	}
	if err := m.session.store.Delete(context.Background(), slot); err != nil {
		return []string{fmt.Sprintf("Delete failed: %v", err)}
	}
	return []string{fmt.Sprintf("Deleted save %s.", slot)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [slot]   — Save game (default: quicksave)",
		"  /load [slot]   — Load game (default: quicksave)",
		"  /saves         — List save slots",
		"  /delete <slot> — Delete a save slot",
		"  /quit          — Exit game",
		"  /help          — Show this help",
		"",
		"Game commands:",
		"  look (l)              — Describe your surroundings",
		"  go <dir>              — Move (or just type north/south/east/west)",
		"  talk <name>           — Speak with someone",
		"  attack <name>         — Start a fight",
		"  take/drop <item>      — Pick up or put down",
		"  equip/unequip         — Manage gear",
		"  use <item>            — Drink, eat or apply",
		"  inventory (i)         — Check your pack",
		"  status, quests, map   — Views",
		"  wares, buy, sell      — Trade with a merchant",
		"  rest                  — Rest at a lit beacon",
		"  again (g)             — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// writeSlot snapshots the engine into the named slot.
func (s *session) writeSlot(slot string) error {
	if s.store == nil {
		return errors.New("no save store configured")
	}
	data, err := save.Marshal(save.Snapshot(s.engine, s.id))
	if err != nil {
		return err
	}
	return s.store.Put(context.Background(), slot, data)
}

// autosave runs on the engine's autosave cadence and on resting.
func (s *session) autosave() []string {
	if s.store == nil {
		return nil
	}
	if err := s.writeSlot("autosave"); err != nil {
		s.log.Warn("autosave failed", zap.Error(err))
		return []string{"[Autosave failed.]"}
	}
	return []string{"[The flame remembers your progress.]"}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}

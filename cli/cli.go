// Package cli provides the plain-terminal front end: a prompt loop over
// the engine plus meta-command dispatch for the save slots.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nathoo/ardenvale/engine"
	"github.com/nathoo/ardenvale/engine/save"
	"github.com/nathoo/ardenvale/storage"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Store     storage.Store
	Log       *zap.Logger
	In        io.Reader
	Out       io.Writer
	SessionID string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine and save store, and hooks
// the engine's autosave into the "autosave" slot.
func New(eng *engine.Engine, store storage.Store, log *zap.Logger) *CLI {
	if log == nil {
		log = zap.NewNop()
	}
	c := &CLI{
		Engine:    eng,
		Store:     store,
		Log:       log,
		In:        os.Stdin,
		Out:       os.Stdout,
		SessionID: uuid.NewString(),
	}
	eng.OnAutosave = c.autosave
	return c
}

// Run starts the game loop: intro, then prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printLines(c.Engine.Start())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printLines(c.Engine.Step(input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/saves":
		c.cmdSaves()

	case "/delete":
		c.cmdDelete(arg)

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(slot string) {
	if slot == "" {
		slot = "quicksave"
	}
	if err := c.writeSlot(slot); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s (turn %d).", slot, c.Engine.Turns))
}

func (c *CLI) cmdLoad(slot string) {
	if slot == "" {
		slot = "quicksave"
	}

	data, err := c.Store.Get(context.Background(), slot)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	rec, err := save.Unmarshal(data)
	if errors.Is(err, save.ErrVersionMismatch) {
		c.printSystem("Save was written by a different version; loading anyway.")
	} else if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.Apply(c.Engine, rec)
	c.SessionID = rec.SessionID
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", slot, rec.Turns))
	c.printLines(c.Engine.Step("look"))
}

func (c *CLI) cmdSaves() {
	slots, err := c.Store.List(context.Background())
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saves yet.")
		return
	}
	c.printSystem("Saves:")
	for _, s := range slots {
		c.printLine("  " + s)
	}
}

func (c *CLI) cmdDelete(slot string) {
	if slot == "" {
		c.printSystem("Usage: /delete <slot>")
		return
	}
	if err := c.Store.Delete(context.Background(), slot); err != nil {
		c.printSystem(fmt.Sprintf("Delete failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Deleted save %s.", slot))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [slot]   — Save game (default: quicksave)",
		"  /load [slot]   — Load game (default: quicksave)",
		"  /saves         — List save slots",
		"  /delete <slot> — Delete a save slot",
		"  /quit          — Exit game",
		"  /help          — Show this help",
		"",
		"Type 'help' inside the game for the adventure commands.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

// writeSlot snapshots the engine into the named slot.
func (c *CLI) writeSlot(slot string) error {
	if c.Store == nil {
		return errors.New("no save store configured")
	}
	data, err := save.Marshal(save.Snapshot(c.Engine, c.SessionID))
	if err != nil {
		return err
	}
	return c.Store.Put(context.Background(), slot, data)
}

// autosave runs on the engine's autosave cadence and on resting.
func (c *CLI) autosave() []string {
	if c.Store == nil {
		return nil
	}
	if err := c.writeSlot("autosave"); err != nil {
		c.Log.Warn("autosave failed", zap.Error(err))
		return []string{"[Autosave failed.]"}
	}
	return []string{"[The flame remembers your progress.]"}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

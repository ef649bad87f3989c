// Package save implements JSON serialization of a full game session:
// the player, the world (content plus mutable session state) and the
// RNG stream position, stamped with a format version and a session id.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/ardenvale/engine"
	"github.com/nathoo/ardenvale/engine/rng"
	"github.com/nathoo/ardenvale/entity"
)

// FormatVersion stamps every save record.
const FormatVersion = "1"

// ErrVersionMismatch is returned together with usable data when a save
// was written by a different format version; callers should warn and
// continue.
var ErrVersionMismatch = errors.New("save format version mismatch")

// Record is the JSON save format.
type Record struct {
	Version     string         `json:"version"`
	SessionID   string         `json:"session_id"`
	Game        string         `json:"game"`
	SavedAt     time.Time      `json:"saved_at"`
	Turns       int            `json:"turns"`
	RNGSeed     int64          `json:"rng_seed"`
	RNGPosition int            `json:"rng_position"`
	Player      *entity.Player `json:"player"`
	World       *entity.World  `json:"world"`
}

// Snapshot captures an engine into a save record.
func Snapshot(e *engine.Engine, sessionID string) *Record {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Record{
		Version:     FormatVersion,
		SessionID:   sessionID,
		Game:        e.World.Title,
		SavedAt:     time.Now(),
		Turns:       e.Turns,
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
		Player:      e.Player,
		World:       e.World,
	}
}

// Marshal encodes a record as indented JSON.
func Marshal(r *Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal decodes and normalizes a save record. A version mismatch is
// reported as ErrVersionMismatch alongside the decoded record.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if r.Player == nil || r.World == nil {
		return nil, errors.New("save record incomplete")
	}
	normalize(&r)
	if err := resolve(&r); err != nil {
		return nil, err
	}
	if r.Version != FormatVersion {
		return &r, ErrVersionMismatch
	}
	return &r, nil
}

// Apply rebuilds an engine's session state from the record.
func Apply(e *engine.Engine, r *Record) {
	e.World = r.World
	e.Player = r.Player
	e.Turns = r.Turns
	e.GameOver = false
	e.RNG = rng.Restore(r.RNGSeed, r.RNGPosition)
	e.Tracker.World = r.World
}

// normalize guards against nil maps in hand-edited or older saves.
func normalize(r *Record) {
	p := r.Player
	if p.Inventory == nil {
		p.Inventory = entity.NewInventory()
	}
	if p.Flags == nil {
		p.Flags = map[string]string{}
	}
	if p.Reputation == nil {
		p.Reputation = map[string]int{}
	}
	if p.Discovered == nil {
		p.Discovered = map[string]bool{}
	}
	p.Inventory.RebuildEquipped()

	w := r.World
	if w.Locations == nil {
		w.Locations = map[string]*entity.Location{}
	}
	if w.NPCs == nil {
		w.NPCs = map[string]*entity.NPC{}
	}
	if w.Items == nil {
		w.Items = map[string]*entity.Item{}
	}
	if w.Quests == nil {
		w.Quests = map[string]*entity.Quest{}
	}
}

// resolve verifies that every location id the player references exists
// in the restored world.
func resolve(r *Record) error {
	check := func(field, id string) error {
		if id == "" {
			return nil
		}
		if _, ok := r.World.Locations[id]; !ok {
			return fmt.Errorf("save references unknown %s location %q", field, id)
		}
		return nil
	}
	if err := check("current", r.Player.Location); err != nil {
		return err
	}
	if err := check("previous", r.Player.PreviousLocation); err != nil {
		return err
	}
	return check("beacon", r.Player.LastBeacon)
}

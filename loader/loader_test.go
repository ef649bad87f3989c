package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/ardenvale/entity"
)

func TestLoad_MinimalWorld(t *testing.T) {
	w, err := Load("testdata/minimal", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if w.Title != "Minimal Test World" {
		t.Errorf("Title = %q, want %q", w.Title, "Minimal Test World")
	}
	if w.Start != "hollow" {
		t.Errorf("Start = %q, want %q", w.Start, "hollow")
	}
	l, ok := w.Locations["hollow"]
	if !ok {
		t.Fatal("location 'hollow' not found")
	}
	if l.Description != "A bare hollow ringed by old stones." {
		t.Errorf("hollow description = %q", l.Description)
	}
	if l.Connections == nil {
		t.Error("connections should be an empty map, not nil")
	}
}

func TestLoad_FullWorld(t *testing.T) {
	w, err := Load("testdata/full", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// World metadata.
	if w.Title != "Full Test World" {
		t.Errorf("Title = %q", w.Title)
	}
	if w.Author != "Tester" {
		t.Errorf("Author = %q", w.Author)
	}
	if w.Start != "crossing" {
		t.Errorf("Start = %q", w.Start)
	}
	if len(w.Regions["lowlands"]) != 2 {
		t.Errorf("lowlands region = %v", w.Regions["lowlands"])
	}
	if len(w.StartingItems) != 1 || w.StartingItems[0] != "worn_blade" {
		t.Errorf("starting items = %v", w.StartingItems)
	}

	// Locations.
	if len(w.Locations) != 4 {
		t.Errorf("expected 4 locations, got %d", len(w.Locations))
	}
	crossing := w.Locations["crossing"]
	if crossing.Connections["north"] != "mire" {
		t.Errorf("crossing north = %q", crossing.Connections["north"])
	}
	if len(crossing.NPCs) != 2 {
		t.Errorf("crossing residents = %v", crossing.NPCs)
	}
	if len(crossing.Items) != 1 || crossing.Items[0].ID != "bitter_tonic" {
		t.Errorf("crossing ground items = %v", crossing.Items)
	}

	watchpost := w.Locations["watchpost"]
	if !watchpost.Beacon {
		t.Error("watchpost should be a beacon")
	}
	if watchpost.Guardian != "stone_sentinel" {
		t.Errorf("watchpost guardian = %q", watchpost.Guardian)
	}
	if watchpost.Unlocked {
		t.Error("a guarded beacon starts locked")
	}

	hall := w.Locations["heronhall"]
	if !hall.Boss {
		t.Error("heronhall should be a boss location")
	}
	if len(hall.Gates) != 1 {
		t.Fatalf("heronhall gates = %d, want 1", len(hall.Gates))
	}
	gate := hall.Gates[0]
	if gate.Condition.Kind != entity.CondHasItem || gate.Condition.ItemID != "mire_token" {
		t.Errorf("heronhall gate condition = %+v", gate.Condition)
	}

	// Items.
	blade := w.Items["worn_blade"]
	if blade == nil || blade.Weapon == nil {
		t.Fatal("worn_blade should be a weapon")
	}
	if blade.Weapon.Damage != 8 || blade.Weapon.StaminaCost != 12 {
		t.Errorf("worn_blade weapon spec = %+v", blade.Weapon)
	}
	if blade.Weapon.WeaponType != "sword" || blade.Weapon.AttackSpeed != 1.1 {
		t.Errorf("worn_blade type/speed = %q/%v", blade.Weapon.WeaponType, blade.Weapon.AttackSpeed)
	}
	if blade.Weapon.SpecialEffects["bleed_chance"] != 0.1 {
		t.Errorf("worn_blade special effects = %v", blade.Weapon.SpecialEffects)
	}
	if blade.Weapon.Durability != 40 || blade.Weapon.MaxDurability != 40 {
		t.Errorf("worn_blade durability = %d/%d", blade.Weapon.Durability, blade.Weapon.MaxDurability)
	}
	vest := w.Items["quilted_vest"]
	if vest == nil || vest.Armor == nil || vest.Armor.Slot != entity.SlotChest {
		t.Fatalf("quilted_vest armor spec = %+v", vest)
	}
	if vest.Armor.Resistance["physical"] != 0.1 {
		t.Errorf("quilted_vest resistance = %v", vest.Armor.Resistance)
	}
	tonic := w.Items["bitter_tonic"]
	if tonic == nil || tonic.Consumable == nil || tonic.Consumable.Value != 25 {
		t.Fatalf("bitter_tonic consumable spec = %+v", tonic)
	}
	if tonic.Consumable.Effect != "heal" {
		t.Errorf("bitter_tonic effect = %q, want heal by default", tonic.Consumable.Effect)
	}
	token := w.Items["mire_token"]
	if token == nil || token.Kind != entity.KindKey {
		t.Fatalf("mire_token = %+v, want a key", token)
	}

	// NPCs.
	iska := w.NPCs["warden_iska"]
	if iska == nil || !iska.Friendly {
		t.Fatal("warden_iska should be friendly")
	}
	greeting, ok := iska.Dialogue["greeting"]
	if !ok {
		t.Fatal("warden_iska has no greeting node")
	}
	if len(greeting.Responses) != 2 {
		t.Fatalf("greeting responses = %d, want 2", len(greeting.Responses))
	}
	if greeting.Responses[0].Next != "trouble" {
		t.Errorf("greeting response next = %q", greeting.Responses[0].Next)
	}
	if len(greeting.Responses[0].Effects) != 1 ||
		greeting.Responses[0].Effects[0].Kind != "set_player_flag" {
		t.Errorf("greeting response effects = %+v", greeting.Responses[0].Effects)
	}
	trouble := iska.Dialogue["trouble"]
	if trouble.Responses[0].Effects[0].Kind != "start_quest" ||
		trouble.Responses[0].Effects[0].QuestID != "thin_the_mire" {
		t.Errorf("trouble effects = %+v", trouble.Responses[0].Effects)
	}
	if len(trouble.Responses[1].Conditions) != 1 ||
		trouble.Responses[1].Conditions[0].Kind != entity.CondPlayerFlag {
		t.Errorf("trouble conditions = %+v", trouble.Responses[1].Conditions)
	}
	debt := iska.Dialogue["debt"]
	if debt.Condition == nil || debt.Condition.Kind != entity.CondQuestComplete ||
		debt.Condition.QuestID != "thin_the_mire" {
		t.Fatalf("debt condition = %+v", debt.Condition)
	}
	if debt.Success == nil || debt.Success.Next != "reward" || debt.Failure == nil {
		t.Errorf("debt branches = %+v / %+v", debt.Success, debt.Failure)
	}
	if debt.Responses[0].ResponseText != "Spear high, stranger." {
		t.Errorf("debt response text = %q", debt.Responses[0].ResponseText)
	}

	rask := w.NPCs["peddler_rask"]
	if rask == nil || !rask.Merchant || len(rask.Shop) != 2 {
		t.Fatalf("peddler_rask shop = %+v", rask)
	}

	king := w.NPCs["heron_king"]
	if king == nil || len(king.Abilities) != 2 {
		t.Fatalf("heron_king abilities = %+v", king)
	}
	if king.Loot == nil || len(king.Loot.Guaranteed) != 1 {
		t.Fatalf("heron_king loot = %+v", king.Loot)
	}

	// Quests.
	thin := w.Quests["thin_the_mire"]
	if thin == nil || len(thin.Objectives) != 1 {
		t.Fatalf("thin_the_mire = %+v", thin)
	}
	if thin.Objectives[0].Kind != entity.ObjectiveKill || thin.Objectives[0].Required != 3 {
		t.Errorf("thin_the_mire objective = %+v", thin.Objectives[0])
	}
	if thin.Rewards.ItemID != "quilted_vest" || thin.Rewards.Reputation != 5 {
		t.Errorf("thin_the_mire rewards = %+v", thin.Rewards)
	}
	crown := w.Quests["crown_of_reeds"]
	if crown == nil || len(crown.Prereqs) != 2 {
		t.Fatalf("crown_of_reeds prereqs = %+v", crown)
	}
	if crown.Objectives[0].Required != 1 {
		t.Errorf("objective count should default to 1, got %d", crown.Objectives[0].Required)
	}
}

func TestLoad_GroundItemsAreInstances(t *testing.T) {
	w, err := Load("testdata/full", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ground := w.Locations["crossing"].Items[0]
	ground.Quantity = 99
	if w.Items["bitter_tonic"].Quantity == 99 {
		t.Error("mutating a ground item must not touch the template")
	}
}

func TestLoad_InvalidRefs_Fails(t *testing.T) {
	_, err := Load("testdata/invalid_refs", nil)
	if err == nil {
		t.Fatal("expected error for invalid references")
	}
	if !strings.Contains(err.Error(), "undefined location") {
		t.Errorf("error = %q, expected 'undefined location'", err.Error())
	}
}

func TestLoad_DuplicateLocation_Fails(t *testing.T) {
	_, err := Load("testdata/duplicate", nil)
	if err == nil {
		t.Fatal("expected error for duplicate location ids")
	}
	if !strings.Contains(err.Error(), "duplicate location id") {
		t.Errorf("error = %q, expected 'duplicate location id'", err.Error())
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	if _, err := Load("testdata/bad_lua", nil); err == nil {
		t.Fatal("expected error for bad Lua syntax")
	}
}

func TestLoad_NoGameDef_Fails(t *testing.T) {
	_, err := Load("testdata/no_game", nil)
	if err == nil {
		t.Fatal("expected error for missing Game{} definition")
	}
	if !strings.Contains(err.Error(), "no Game{} definition") {
		t.Errorf("error = %q, expected 'no Game{} definition'", err.Error())
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	// os library should not be available.
	if err := L.DoString(`os.execute("echo pwned")`); err == nil {
		t.Fatal("expected sandbox to block os.execute")
	}
	// Neither should loading arbitrary files.
	if err := L.DoString(`dofile("/etc/hostname")`); err == nil {
		t.Fatal("expected sandbox to block dofile")
	}
}

func TestLoad_FileOrdering(t *testing.T) {
	files := sortedLuaFiles([]string{"npcs.lua", "game.lua", "locations.lua", "items.lua"})
	if files[0] != "game.lua" {
		t.Errorf("first file = %q, want game.lua", files[0])
	}
	if files[1] != "items.lua" {
		t.Errorf("second file = %q, want items.lua", files[1])
	}
}

package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/ardenvale/entity"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

// curried wraps a sink so that `Ctor "id" { ... }` parses as
// Ctor("id")({...}).
func curried(L *lua.LState, sink func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			sink(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			L.RaiseError("Game{} defined twice")
		}
		coll.game = tbl
		return 0
	}))

	L.SetGlobal("Location", curried(L, func(id string, tbl *lua.LTable) {
		coll.locations = append(coll.locations, rawDef{id: id, table: tbl})
	}))

	L.SetGlobal("NPC", curried(L, func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
	}))

	L.SetGlobal("Quest", curried(L, func(id string, tbl *lua.LTable) {
		coll.quests = append(coll.quests, rawDef{id: id, table: tbl})
	}))

	// Item constructors share a collector slice; the kind tells compile
	// which spec struct to build.
	itemCtor := func(kind entity.ItemKind) *lua.LFunction {
		return curried(L, func(id string, tbl *lua.LTable) {
			coll.items = append(coll.items, rawItem{id: id, kind: kind, table: tbl})
		})
	}
	L.SetGlobal("Item", itemCtor(entity.KindMisc))
	L.SetGlobal("Key", itemCtor(entity.KindKey))
	L.SetGlobal("Weapon", itemCtor(entity.KindWeapon))
	L.SetGlobal("Armor", itemCtor(entity.KindArmor))
	L.SetGlobal("Consumable", itemCtor(entity.KindConsumable))
}

// condTable builds the typed table a condition helper returns.
func condTable(L *lua.LState, kind string, kv ...string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(kind))
	for i := 0; i+1 < len(kv); i += 2 {
		tbl.RawSetString(kv[i], lua.LString(kv[i+1]))
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// HasItem("rusty_key")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "has_item", "item", L.CheckString(1)))
		return 1
	}))

	// QuestComplete("clear_the_fen")
	L.SetGlobal("QuestComplete", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "quest_complete", "quest", L.CheckString(1)))
		return 1
	}))

	// PlayerFlag("met_elder", "yes") — value defaults to "true".
	L.SetGlobal("PlayerFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "player_flag",
			"flag", L.CheckString(1),
			"value", L.OptString(2, "true")))
		return 1
	}))

	// NPCFlag("trusts_player", "yes") — value defaults to "true".
	L.SetGlobal("NPCFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "npc_flag",
			"flag", L.CheckString(1),
			"value", L.OptString(2, "true")))
		return 1
	}))

	// MinLevel(5)
	L.SetGlobal("MinLevel", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("min_level"))
		tbl.RawSetString("level", lua.LNumber(L.CheckInt(1)))
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// SetPlayerFlag("met_elder", "yes") — value defaults to "true".
	L.SetGlobal("SetPlayerFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "set_player_flag",
			"flag", L.CheckString(1),
			"value", L.OptString(2, "true")))
		return 1
	}))

	// SetNPCFlag("trusts_player", "yes") — value defaults to "true".
	L.SetGlobal("SetNPCFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "set_npc_flag",
			"flag", L.CheckString(1),
			"value", L.OptString(2, "true")))
		return 1
	}))

	// StartQuest("clear_the_fen")
	L.SetGlobal("StartQuest", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "start_quest", "quest", L.CheckString(1)))
		return 1
	}))

	// GiveItem("healing_draught")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(condTable(L, "give_item", "item", L.CheckString(1)))
		return 1
	}))
}

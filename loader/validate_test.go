package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/ardenvale/entity"
)

// validWorld returns a minimal consistent world for validation tests.
func validWorld() *entity.World {
	return &entity.World{
		Title: "Test",
		Start: "hollow",
		Locations: map[string]*entity.Location{
			"hollow": {
				ID:          "hollow",
				Name:        "Hollow",
				Connections: map[string]string{},
			},
		},
		NPCs:   map[string]*entity.NPC{},
		Items:  map[string]*entity.Item{},
		Quests: map[string]*entity.Quest{},
	}
}

func hasError(ve *ValidationError, substr string) bool {
	for _, e := range ve.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func hasWarning(ve *ValidationError, substr string) bool {
	for _, w := range ve.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestValidate_CleanWorld(t *testing.T) {
	ve := validate(validWorld())
	if len(ve.Errors) != 0 {
		t.Fatalf("expected no errors, got: %v", ve.Errors)
	}
}

func TestValidate_MissingStart(t *testing.T) {
	w := validWorld()
	w.Start = "nonexistent"
	ve := validate(w)
	if !hasError(ve, "start location") {
		t.Errorf("errors = %v, want start location error", ve.Errors)
	}
}

func TestValidate_BadConnection(t *testing.T) {
	w := validWorld()
	w.Locations["hollow"].Connections["north"] = "void"
	ve := validate(w)
	if !hasError(ve, "undefined location") {
		t.Errorf("errors = %v, want undefined location", ve.Errors)
	}
}

func TestValidate_BossNeedsSpawnPool(t *testing.T) {
	w := validWorld()
	w.Locations["hollow"].Boss = true
	ve := validate(w)
	if !hasError(ve, "empty spawn pool") {
		t.Errorf("errors = %v, want empty spawn pool", ve.Errors)
	}
}

func TestValidate_SpawnPoolRefs(t *testing.T) {
	w := validWorld()
	w.Locations["hollow"].SpawnPool = []string{"phantom"}
	ve := validate(w)
	if !hasError(ve, "undefined npc") {
		t.Errorf("errors = %v, want undefined npc", ve.Errors)
	}
}

func TestValidate_DialogueGraph(t *testing.T) {
	w := validWorld()
	w.NPCs["mute"] = &entity.NPC{
		ID:       "mute",
		Friendly: true,
		Dialogue: map[string]*entity.DialogueNode{
			"aside": {
				ID:   "aside",
				Text: "...",
				Responses: []entity.DialogueResponse{
					{Text: "Go on.", Next: "missing"},
				},
			},
		},
	}
	ve := validate(w)
	if !hasError(ve, "no greeting node") {
		t.Errorf("errors = %v, want no greeting node", ve.Errors)
	}
	if !hasError(ve, `undefined node "missing"`) {
		t.Errorf("errors = %v, want undefined node", ve.Errors)
	}
}

func TestValidate_DialogueBranches(t *testing.T) {
	w := validWorld()
	w.NPCs["warden"] = &entity.NPC{
		ID:       "warden",
		Friendly: true,
		Dialogue: map[string]*entity.DialogueNode{
			"greeting": {
				ID:        "greeting",
				Condition: &entity.Condition{Kind: entity.CondQuestComplete, QuestID: "ghost"},
				Success:   &entity.DialogueBranch{Text: "Pass.", Next: "missing"},
			},
		},
	}
	ve := validate(w)
	if !hasError(ve, `success branch leads to undefined node "missing"`) {
		t.Errorf("errors = %v, want branch target error", ve.Errors)
	}
	if !hasError(ve, "no failure branch") {
		t.Errorf("errors = %v, want missing failure branch", ve.Errors)
	}
	if !hasError(ve, "quest_complete references undefined quest") {
		t.Errorf("errors = %v, want node condition checked", ve.Errors)
	}
}

func TestValidate_ShopRefs(t *testing.T) {
	w := validWorld()
	w.NPCs["rask"] = &entity.NPC{
		ID:       "rask",
		Friendly: true,
		Merchant: true,
		Shop:     []entity.ShopEntry{{ItemID: "vapor", Price: 10}},
	}
	ve := validate(w)
	if !hasError(ve, "sells undefined item") {
		t.Errorf("errors = %v, want sells undefined item", ve.Errors)
	}
}

func TestValidate_LootRefs(t *testing.T) {
	w := validWorld()
	w.NPCs["wisp"] = &entity.NPC{
		ID: "wisp",
		Loot: &entity.LootTable{
			Guaranteed: []string{"vapor"},
			Drops:      []entity.LootDrop{{ItemID: "vapor", Chance: 1.5}},
		},
	}
	ve := validate(w)
	if !hasError(ve, "guaranteed loot references undefined item") {
		t.Errorf("errors = %v, want guaranteed loot error", ve.Errors)
	}
	if !hasError(ve, "outside (0, 1]") {
		t.Errorf("errors = %v, want chance bounds error", ve.Errors)
	}
}

func TestValidate_QuestRefs(t *testing.T) {
	w := validWorld()
	w.Quests["hunt"] = &entity.Quest{
		ID:    "hunt",
		Giver: "nobody",
		Objectives: []*entity.Objective{
			{Kind: entity.ObjectiveKill, Target: "phantom", Required: 1},
			{Kind: entity.ObjectiveItem, Target: "vapor", Required: 0},
		},
		Rewards: entity.Rewards{ItemID: "vapor"},
		Prereqs: []entity.Condition{{Kind: entity.CondQuestComplete, QuestID: "ghost"}},
	}
	ve := validate(w)
	for _, want := range []string{
		"giver references undefined npc",
		"targets undefined npc",
		"targets undefined item",
		"count of at least 1",
		"reward references undefined item",
		"quest_complete references undefined quest",
	} {
		if !hasError(ve, want) {
			t.Errorf("errors = %v, missing %q", ve.Errors, want)
		}
	}
}

func TestValidate_RegionRefs(t *testing.T) {
	w := validWorld()
	w.Regions = map[string][]string{"vale": {"hollow", "void"}}
	ve := validate(w)
	if !hasError(ve, `region "vale" lists undefined location "void"`) {
		t.Errorf("errors = %v, want region error", ve.Errors)
	}
}

func TestValidate_Warnings(t *testing.T) {
	w := validWorld()
	w.NPCs["shambler"] = &entity.NPC{ID: "shambler"} // hostile
	w.NPCs["keeper"] = &entity.NPC{ID: "keeper"}
	w.NPCs["rask"] = &entity.NPC{
		ID:       "rask",
		Friendly: true,
		Shop:     []entity.ShopEntry{{ItemID: "tonic", Price: 5}},
	}
	w.Items["tonic"] = &entity.Item{ID: "tonic", Kind: entity.KindConsumable}
	hollow := w.Locations["hollow"]
	hollow.NPCs = []string{"shambler"}
	hollow.Guardian = "keeper" // no beacon

	ve := validate(w)
	if len(ve.Errors) != 0 {
		t.Fatalf("expected warnings only, got errors: %v", ve.Errors)
	}
	for _, want := range []string{
		"hostile",
		"guardian but no beacon",
		"not a merchant",
	} {
		if !hasWarning(ve, want) {
			t.Errorf("warnings = %v, missing %q", ve.Warnings, want)
		}
	}
}

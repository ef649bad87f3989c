package entity

// ObjectiveKind names the event stream an objective counts.
type ObjectiveKind string

const (
	ObjectiveKill     ObjectiveKind = "kill"
	ObjectiveItem     ObjectiveKind = "item"
	ObjectiveLocation ObjectiveKind = "location"
	ObjectiveTalk     ObjectiveKind = "talk"
)

// Objective is one requirement of a quest. Progress never exceeds
// Required; Done latches once reached.
type Objective struct {
	Kind     ObjectiveKind `json:"kind"`
	Target   string        `json:"target"`
	Required int           `json:"required"`
	Progress int           `json:"progress"`
	Done     bool          `json:"done"`
}

// Advance adds n to the objective's progress, clamping at Required.
// Returns true the moment the objective completes.
func (o *Objective) Advance(n int) bool {
	if o.Done {
		return false
	}
	o.Progress += n
	if o.Progress >= o.Required {
		o.Progress = o.Required
		o.Done = true
		return true
	}
	return false
}

// Rewards is what a completed quest grants, applied in the order
// essence, item, experience, reputation.
type Rewards struct {
	Essence    int    `json:"essence,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Experience int    `json:"experience,omitempty"`
	Faction    string `json:"faction,omitempty"`
	Reputation int    `json:"reputation,omitempty"`
}

// Quest tracks a goal the player can pursue. Quests live in the world
// registry; Started and Completed are the session state.
type Quest struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Giver       string       `json:"giver,omitempty"`
	Objectives  []*Objective `json:"objectives"`
	Rewards     Rewards      `json:"rewards"`
	Prereqs     []Condition  `json:"prereqs,omitempty"`
	Started     bool         `json:"started"`
	Completed   bool         `json:"completed"`
}

// Active reports whether the quest is underway and unfinished.
func (q *Quest) Active() bool {
	return q.Started && !q.Completed
}

// AllObjectivesDone reports whether every objective has latched.
func (q *Quest) AllObjectivesDone() bool {
	for _, o := range q.Objectives {
		if !o.Done {
			return false
		}
	}
	return true
}

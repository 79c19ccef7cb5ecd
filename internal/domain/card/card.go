// Package card defines the immutable content catalogue for PRINCIPIA:
// research cards, journals, grants, large projects, scenarios, crises and
// the playable intrigue/opportunity cards. Definitions are frozen after
// load; match state works on copies and references them by stable id.
// This package is PURE and must NOT import any infrastructure packages.
package card

import "github.com/principia-juego/server/internal/domain/hexboard"

// Reward is a parsed reward bundle. Prose like "10K + 2 PZ" is converted to
// this struct at load time; the engine never re-parses strings.
type Reward struct {
	Credits    int `json:"credits"` // in raw credits, 1K = 1000
	PZ         int `json:"pz"`
	PB         int `json:"pb"`
	Reputation int `json:"reputation"`
}

// IsZero reports whether the reward pays nothing.
func (r Reward) IsZero() bool {
	return r == Reward{}
}

// ScientistDef is a hireable scientist definition from the catalogue.
type ScientistDef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"` // intern, doctor, professor
	Field        string `json:"field"`
	Salary       int    `json:"salary"` // raw credits per round
	HexBonus     int    `json:"hex_bonus"`
	SpecialBonus string `json:"special_bonus"`
	Description  string `json:"description"`
}

// ResearchCard is a research project with its hex board.
type ResearchCard struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Field       string          `json:"field"`
	MapSource   string          `json:"map_source"`
	Board       *hexboard.Board `json:"-"`
	BasicReward Reward          `json:"basic_reward"`
	BonusReward Reward          `json:"bonus_reward"`
	Description string          `json:"description"`
}

// Journal gates publications by cost and reputation.
type Journal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ImpactFactor  int    `json:"impact_factor"`
	PBCost        int    `json:"pb_cost"`
	MinReputation int    `json:"min_reputation"`
	RequiredField string `json:"required_field"` // completed research in this field, if set
	PZReward      int    `json:"pz_reward"`
	SpecialBonus  string `json:"special_bonus"`
	Description   string `json:"description"`
}

// GoalKind enumerates the grant goal kinds the engine evaluates at upkeep.
type GoalKind string

const (
	GoalPublications      GoalKind = "publications"
	GoalCompletedResearch GoalKind = "completed_research"
	GoalFoundConsortium   GoalKind = "found_consortium"
	GoalActivityPoints    GoalKind = "activity_points" // round_activity_points this round
)

// GrantGoal is a parsed grant goal, e.g. "6 activity points this round".
type GrantGoal struct {
	Kind GoalKind `json:"kind"`
	N    int      `json:"n"`
}

// GrantRequirements gate which grants a player may take.
type GrantRequirements struct {
	MinReputation        int `json:"min_reputation"`
	MinCompletedResearch int `json:"min_completed_research"`
}

// Grant is a per-round funding card.
type Grant struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Requirements GrantRequirements `json:"requirements"`
	Goal         GrantGoal         `json:"goal"`
	Reward       Reward            `json:"reward"`
	RoundBonus   Reward            `json:"round_bonus"`
	Description  string            `json:"description"`
}

// ProjectRequirements are the parsed completion thresholds of a large project.
type ProjectRequirements struct {
	PB                int      `json:"pb"`
	Credits           int      `json:"credits"`
	CompletedResearch int      `json:"completed_research"` // director threshold
	NeedsProfessor    bool     `json:"needs_professor"`    // director must employ one
	FieldConstraints  []string `json:"field_constraints"`
}

// LargeProject is a consortium target: a multi-player resource pool with a
// director and members yielding differentiated rewards on completion.
type LargeProject struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Requirements   ProjectRequirements `json:"requirements"`
	DirectorReward Reward              `json:"director_reward"`
	MemberReward   Reward              `json:"member_reward"`
	Description    string              `json:"description"`
}

// Scenario defines the match frame: round count, crisis schedule and the
// victory descriptor. CrisisRounds is a required content field; there is no
// fallback schedule.
type Scenario struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Story             string `json:"story"`
	Modifiers         string `json:"modifiers"`
	MaxRounds         int    `json:"max_rounds"`
	VictoryConditions string `json:"victory_conditions"`
	CrisisCount       int    `json:"crisis_count"`
	CrisisRounds      []int  `json:"crisis_rounds"`
}

// Crisis is a scenario-driven global event revealed at upkeep.
type Crisis struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Effects     []Effect `json:"effects"`
	Description string   `json:"description"`
}

// IntrigueCard targets another player with its effects.
type IntrigueCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Effects     []Effect `json:"effects"`
	Description string   `json:"description"`
}

// OpportunityCard benefits its owner with its effects.
type OpportunityCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Effects     []Effect `json:"effects"`
	Description string   `json:"description"`
}

// Institute is one of the playable research institutes. Rule overrides for
// institutes live exclusively in the rules modifier table, keyed by ID.
type Institute struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

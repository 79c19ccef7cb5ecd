package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
)

// Phase is the current step of the round lifecycle.
type Phase string

const (
	PhaseGrants  Phase = "grants"
	PhaseActions Phase = "actions"
	PhaseUpkeep  Phase = "upkeep"
)

// matchNamespace seeds deterministic v5 UUIDs so two engines built from the
// same config mint identical ids.
var matchNamespace = uuid.MustParse("8d9b6f6e-1a34-4c85-9a5e-42f1c0de7701")

// PlayerConfig is one seat of the match configuration.
type PlayerConfig struct {
	Name   string `json:"name" yaml:"name"`
	Colour string `json:"colour" yaml:"colour"`
}

// MatchConfig fully determines a match: same config, same seed, same command
// sequence reproduce an identical event log.
type MatchConfig struct {
	Players    []PlayerConfig `json:"players" yaml:"players"`
	ScenarioID string         `json:"scenario_id" yaml:"scenario_id"`
	Seed       int64          `json:"seed" yaml:"seed"`
}

// Project is the mutable consortium state of one large project.
type Project struct {
	Def                card.LargeProject `json:"def"`
	DirectorID         string            `json:"director_id,omitempty"`
	Members            []string          `json:"members,omitempty"`
	Pending            []string          `json:"pending,omitempty"`
	ContributedPB      int               `json:"contributed_pb"`
	ContributedCredits int               `json:"contributed_credits"`
	Completed          bool              `json:"completed"`
}

// IsMember reports whether the player sits in the consortium (director included).
func (pr *Project) IsMember(playerID string) bool {
	for _, m := range pr.Members {
		if m == playerID {
			return true
		}
	}
	return false
}

// IsPending reports whether the player has an open application.
func (pr *Project) IsPending(playerID string) bool {
	for _, m := range pr.Pending {
		if m == playerID {
			return true
		}
	}
	return false
}

// MatchState is the aggregate authoritative state. It exclusively owns every
// mutable entity; the catalogue stays frozen and is referenced by id.
type MatchState struct {
	MatchID string           `json:"match_id"`
	Players []*player.Player `json:"players"`

	CurrentPlayer int   `json:"current_player_index"`
	Round         int   `json:"round_number"`
	CurrentPhase  Phase `json:"phase"`

	Scenario       card.Scenario `json:"scenario"`
	CrisisDeck     []card.Crisis `json:"crisis_deck"`
	RevealedCrises []card.Crisis `json:"revealed_crises"`

	AvailableGrants     []card.Grant        `json:"available_grants"`
	AvailableJournals   []card.Journal      `json:"available_journals"`
	AvailableScientists []card.ScientistDef `json:"available_scientists"`

	MainDeck    []card.HandCard `json:"main_deck"`
	DiscardPile []card.HandCard `json:"discard_pile"`

	Projects          []*Project `json:"projects"`
	ProjectsCompleted int        `json:"projects_completed"`

	ActiveActionCard      player.ActionCardKind `json:"active_action_card,omitempty"`
	RemainingActionPoints int                   `json:"remaining_action_points"`

	PendingHexPlacements  int    `json:"pending_hex_placements"`
	CurrentResearchForHex string `json:"current_research_for_hex,omitempty"`
	ResearchSelectionMode bool   `json:"research_selection_mode"`

	// GrantsServed lists the players already served this grants phase, either
	// by a grant, a subvention, or a skip-grant penalty.
	GrantsServed []string `json:"grants_served,omitempty"`

	GameEnded bool `json:"game_ended"`

	// rng is the single source of randomness: deck shuffles, institute
	// assignment, market sampling and crisis coin-flips all draw from it.
	rng    *rand.Rand
	nextID int
}

func newMatchState(catalog *card.Catalog, cfg MatchConfig) (*MatchState, *Error) {
	if len(cfg.Players) < 2 {
		return nil, failf(FailUnknownCommand, "a match needs at least two players, got %d", len(cfg.Players))
	}
	scenario := catalog.ScenarioByID(cfg.ScenarioID)
	if scenario == nil {
		return nil, failf(FailIllegalTarget, "unknown scenario %q", cfg.ScenarioID)
	}

	st := &MatchState{
		Round:        1,
		CurrentPhase: PhaseGrants,
		Scenario:     *scenario,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
	}
	st.MatchID = deterministicID("match", cfg.ScenarioID, cfg.Seed)

	// Seat players and assign institutes from a seeded shuffle.
	institutes := instituteIDs(catalog)
	st.rng.Shuffle(len(institutes), func(i, j int) {
		institutes[i], institutes[j] = institutes[j], institutes[i]
	})
	for i, pc := range cfg.Players {
		id := deterministicID("player", fmt.Sprintf("%s/%d/%s", cfg.ScenarioID, i, pc.Name), cfg.Seed)
		st.Players = append(st.Players, player.New(id, pc.Name, pc.Colour, institutes[i%len(institutes)]))
	}

	// Consortium boards exist for every catalogue project from the start.
	for _, def := range catalog.Projects {
		st.Projects = append(st.Projects, &Project{Def: def})
	}

	// Crisis deck: the scenario's crisis_count cards off a seeded shuffle.
	crises := append([]card.Crisis(nil), catalog.Crises...)
	st.rng.Shuffle(len(crises), func(i, j int) {
		crises[i], crises[j] = crises[j], crises[i]
	})
	n := scenario.CrisisCount
	if n > len(crises) {
		n = len(crises)
	}
	st.CrisisDeck = crises[:n]

	st.buildMainDeck(catalog)
	st.dealStartingHands()
	st.sampleMarkets(catalog)
	return st, nil
}

func instituteIDs(catalog *card.Catalog) []string {
	if len(catalog.Institutes) > 0 {
		ids := make([]string, len(catalog.Institutes))
		for i, inst := range catalog.Institutes {
			ids[i] = inst.ID
		}
		return ids
	}
	return append([]string(nil), rules.InstituteIDs...)
}

// buildMainDeck assembles the shuffled draw pile: one copy of every research,
// intrigue and opportunity definition plus four consortium charters.
func (st *MatchState) buildMainDeck(catalog *card.Catalog) {
	var deck []card.HandCard
	for _, def := range catalog.Research {
		deck = append(deck, card.NewResearchHandCard(st.mintID("deck"), def))
	}
	for _, def := range catalog.Intrigues {
		deck = append(deck, card.NewIntrigueHandCard(st.mintID("deck"), def))
	}
	for _, def := range catalog.Opportunities {
		deck = append(deck, card.NewOpportunityHandCard(st.mintID("deck"), def))
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, card.NewConsortiumHandCard(st.mintID("deck")))
	}
	st.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	st.MainDeck = deck
}

func (st *MatchState) dealStartingHands() {
	const startingHand = 4
	for _, p := range st.Players {
		for i := 0; i < startingHand; i++ {
			if c, ok := st.drawCard(); ok {
				p.Hand = append(p.Hand, c)
			}
		}
	}
}

// drawCard pops the main deck, reshuffling the discard pile in only when the
// deck is empty.
func (st *MatchState) drawCard() (card.HandCard, bool) {
	if len(st.MainDeck) == 0 && len(st.DiscardPile) > 0 {
		st.MainDeck = st.DiscardPile
		st.DiscardPile = nil
		st.rng.Shuffle(len(st.MainDeck), func(i, j int) {
			st.MainDeck[i], st.MainDeck[j] = st.MainDeck[j], st.MainDeck[i]
		})
	}
	if len(st.MainDeck) == 0 {
		return card.HandCard{}, false
	}
	c := st.MainDeck[0]
	st.MainDeck = st.MainDeck[1:]
	return c, true
}

// sampleMarkets re-rolls the per-round grant, journal and scientist offers.
func (st *MatchState) sampleMarkets(catalog *card.Catalog) {
	st.AvailableGrants = sampleCards(st.rng, catalog.Grants, len(st.Players)+1)
	st.AvailableJournals = sampleCards(st.rng, catalog.Journals, 4)

	var hireable []card.ScientistDef
	for _, s := range catalog.Scientists {
		if s.Kind != string(player.KindIntern) {
			hireable = append(hireable, s)
		}
	}
	st.AvailableScientists = sampleCards(st.rng, hireable, 3)
}

func sampleCards[T any](rng *rand.Rand, pool []T, n int) []T {
	idx := rng.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]T, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

func (st *MatchState) playerByID(id string) *player.Player {
	for _, p := range st.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (st *MatchState) current() *player.Player {
	return st.Players[st.CurrentPlayer]
}

func (st *MatchState) projectByID(id string) *Project {
	for _, pr := range st.Projects {
		if pr.Def.ID == id {
			return pr
		}
	}
	return nil
}

// mintID returns a deterministic per-match identifier for minted entities
// (deck cards, interns).
func (st *MatchState) mintID(prefix string) string {
	st.nextID++
	return fmt.Sprintf("%s-%03d", prefix, st.nextID)
}

func (st *MatchState) grantServed(playerID string) bool {
	for _, id := range st.GrantsServed {
		if id == playerID {
			return true
		}
	}
	return false
}

func (st *MatchState) markGrantServed(playerID string) {
	if !st.grantServed(playerID) {
		st.GrantsServed = append(st.GrantsServed, playerID)
	}
}

// coinFlip draws a fair coin from the match RNG.
func (st *MatchState) coinFlip() bool {
	return st.rng.Intn(2) == 0
}

func deterministicID(kind, material string, seed int64) string {
	return uuid.NewSHA1(matchNamespace, []byte(fmt.Sprintf("%s:%s:%d", kind, material, seed))).String()
}

// MatchSnapshot is a detached deep copy of the authoritative state handed to
// observers. Mutating it never touches the engine.
type MatchSnapshot struct {
	MatchID string           `json:"match_id"`
	Players []*player.Player `json:"players"`

	CurrentPlayer int    `json:"current_player_index"`
	Round         int    `json:"round_number"`
	CurrentPhase  Phase  `json:"phase"`
	ScenarioID    string `json:"scenario_id"`

	RevealedCrises      []card.Crisis       `json:"revealed_crises"`
	AvailableGrants     []card.Grant        `json:"available_grants"`
	AvailableJournals   []card.Journal      `json:"available_journals"`
	AvailableScientists []card.ScientistDef `json:"available_scientists"`
	Projects            []*Project          `json:"projects"`
	ProjectsCompleted   int                 `json:"projects_completed"`

	ActiveActionCard      player.ActionCardKind `json:"active_action_card,omitempty"`
	RemainingActionPoints int                   `json:"remaining_action_points"`
	PendingHexPlacements  int                   `json:"pending_hex_placements"`
	CurrentResearchForHex string                `json:"current_research_for_hex,omitempty"`

	GameEnded bool `json:"game_ended"`
}

// snapshot deep-copies through JSON; every field involved is a plain data
// record, so the round trip is lossless.
func (st *MatchState) snapshot() MatchSnapshot {
	snap := MatchSnapshot{
		MatchID:               st.MatchID,
		CurrentPlayer:         st.CurrentPlayer,
		Round:                 st.Round,
		CurrentPhase:          st.CurrentPhase,
		ScenarioID:            st.Scenario.ID,
		ProjectsCompleted:     st.ProjectsCompleted,
		ActiveActionCard:      st.ActiveActionCard,
		RemainingActionPoints: st.RemainingActionPoints,
		PendingHexPlacements:  st.PendingHexPlacements,
		CurrentResearchForHex: st.CurrentResearchForHex,
		GameEnded:             st.GameEnded,
	}
	deepCopy(&snap.Players, st.Players)
	deepCopy(&snap.RevealedCrises, st.RevealedCrises)
	deepCopy(&snap.AvailableGrants, st.AvailableGrants)
	deepCopy(&snap.AvailableJournals, st.AvailableJournals)
	deepCopy(&snap.AvailableScientists, st.AvailableScientists)
	deepCopy(&snap.Projects, st.Projects)
	return snap
}

func deepCopy(dst, src interface{}) {
	raw, err := json.Marshal(src)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

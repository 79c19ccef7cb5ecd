package engine

import (
	"testing"

	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/hexboard"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
)

const testBoardMap = "START(0,0)->[(1,0)->END(2,0) | (0,1)->BONUS(+1PZ)]"

func testCatalog(t *testing.T) *card.Catalog {
	t.Helper()
	board, err := hexboard.ParseMap(testBoardMap)
	if err != nil {
		t.Fatalf("Failed to parse test board: %v", err)
	}

	cat := &card.Catalog{
		Scenarios: []card.Scenario{
			{ID: "standard", Name: "Standard Run", MaxRounds: 10, CrisisCount: 2, CrisisRounds: []int{3, 5}},
		},
		Research: []card.ResearchCard{
			{
				ID: "quantum-loop", Name: "Quantum Loop", Field: "physics",
				MapSource: testBoardMap, Board: board,
				BasicReward: card.Reward{PB: 2}, BonusReward: card.Reward{PZ: 1},
			},
			{
				ID: "gene-splice", Name: "Gene Splice", Field: "biology",
				MapSource: testBoardMap, Board: board,
				BasicReward: card.Reward{Credits: 3000}, BonusReward: card.Reward{PB: 1},
			},
		},
		Journals: []card.Journal{
			{ID: "j-nature", Name: "Nature", ImpactFactor: 8, PBCost: 3, MinReputation: 2, PZReward: 6},
			{ID: "j-review", Name: "Modern Review", ImpactFactor: 5, PBCost: 2, MinReputation: 1, PZReward: 3},
			{ID: "j-letters", Name: "Field Letters", ImpactFactor: 4, PBCost: 2, PZReward: 4},
			{ID: "j-bulletin", Name: "The Bulletin", ImpactFactor: 2, PBCost: 1, PZReward: 2},
		},
		Grants: []card.Grant{
			{ID: "g-activity", Name: "Activity Grant", Goal: card.GrantGoal{Kind: card.GoalActivityPoints, N: 6}, Reward: card.Reward{Credits: 10000}},
			{ID: "g-pubs", Name: "Publication Grant", Goal: card.GrantGoal{Kind: card.GoalPublications, N: 2}, Reward: card.Reward{Credits: 6000}},
			{ID: "g-research", Name: "Research Grant", Goal: card.GrantGoal{Kind: card.GoalCompletedResearch, N: 1}, Reward: card.Reward{PZ: 2}},
			{ID: "g-consortium", Name: "Consortium Grant", Goal: card.GrantGoal{Kind: card.GoalFoundConsortium}, Reward: card.Reward{Credits: 8000}},
		},
		Projects: []card.LargeProject{
			{
				ID: "p-collider", Name: "Collider",
				Requirements:   card.ProjectRequirements{PB: 20, Credits: 30000, CompletedResearch: 2, NeedsProfessor: true},
				DirectorReward: card.Reward{PZ: 5, Credits: 10000},
				MemberReward:   card.Reward{PZ: 2},
			},
		},
		Scientists: []card.ScientistDef{
			{ID: "s-doc-1", Name: "Dr. Vega", Kind: "doctor", Field: "physics", Salary: 2000, HexBonus: 2},
			{ID: "s-doc-2", Name: "Dr. Okoye", Kind: "doctor", Field: "biology", Salary: 2000, HexBonus: 2},
			{ID: "s-prof-1", Name: "Prof. Lindqvist", Kind: "professor", Field: "physics", Salary: 4000, HexBonus: 3},
			{ID: "s-prof-2", Name: "Prof. Arnaud", Kind: "professor", Field: "chemistry", Salary: 4000, HexBonus: 3},
		},
		Crises: []card.Crisis{
			{ID: "c-cuts", Name: "Funding Cuts", Effects: []card.Effect{
				{Target: card.TargetAll, Parameter: card.ParamCredits, Operation: card.OpSub, Value: 2000},
			}},
			{ID: "c-strike", Name: "Lab Strike", Effects: []card.Effect{
				{Target: card.TargetAll, Parameter: card.ParamCredits, Operation: card.OpSub, Value: 2000},
			}},
		},
		Intrigues: []card.IntrigueCard{
			{ID: "i-audit", Name: "Hostile Audit", Effects: []card.Effect{
				{Target: card.TargetOpponent, Parameter: card.ParamCredits, Operation: card.OpSub, Value: 3000},
			}},
		},
		Opportunities: []card.OpportunityCard{
			{ID: "o-windfall", Name: "Windfall", Effects: []card.Effect{
				{Target: card.TargetSelf, Parameter: card.ParamCredits, Operation: card.OpAdd, Value: 5000},
			}},
		},
	}
	cat.BuildIndexes()
	return cat
}

func testConfig(seed int64) MatchConfig {
	return MatchConfig{
		Players: []PlayerConfig{
			{Name: "Ada", Colour: "blue"},
			{Name: "Max", Colour: "red"},
		},
		ScenarioID: "standard",
		Seed:       seed,
	}
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := New(testCatalog(t), testConfig(seed), events.NewLog(nil), logger.NewLogger())
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}
	return e
}

// finishGrantsPhase drives every player through a grant decision and returns
// the commands it issued.
func finishGrantsPhase(t *testing.T, e *Engine) []Command {
	t.Helper()
	var issued []Command
	for i := 0; e.state.CurrentPhase == PhaseGrants; i++ {
		if i > 10 {
			t.Fatalf("Grants phase did not terminate")
		}
		actor := e.state.current()
		var cmd Command = TakeSubvention{NewBase(actor.ID)}
		for _, g := range e.state.AvailableGrants {
			if grantEligible(actor, g) {
				cmd = TakeGrant{Base: NewBase(actor.ID), GrantID: g.ID}
				break
			}
		}
		if err := e.Apply(cmd); err != nil {
			t.Fatalf("Grant decision for %s failed: %v", actor.Name, err)
		}
		issued = append(issued, cmd)
	}
	return issued
}

// passActionsPhase passes every remaining player, triggering upkeep.
func passActionsPhase(t *testing.T, e *Engine) []Command {
	t.Helper()
	var issued []Command
	for i := 0; e.state.CurrentPhase == PhaseActions && !e.state.GameEnded; i++ {
		if i > 10 {
			t.Fatalf("Actions phase did not terminate")
		}
		cmd := PassTurn{NewBase(e.state.current().ID)}
		if err := e.Apply(cmd); err != nil {
			t.Fatalf("Pass failed: %v", err)
		}
		issued = append(issued, cmd)
	}
	return issued
}

func hasEvent(e *Engine, typ events.EventType) bool {
	for _, ev := range e.log.Replay() {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func lastEvent(t *testing.T, e *Engine, typ events.EventType) events.GameEvent {
	t.Helper()
	history := e.log.Replay()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == typ {
			return history[i]
		}
	}
	t.Fatalf("No %s event in log", typ)
	return events.GameEvent{}
}

func failKind(t *testing.T, err error) FailureKind {
	t.Helper()
	ferr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T (%v)", err, err)
	}
	return ferr.Kind
}

func TestNewEngineSeatsPlayers(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state

	if len(st.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(st.Players))
	}
	if st.Round != 1 || st.CurrentPhase != PhaseGrants {
		t.Errorf("Expected round 1 grants phase, got round %d phase %s", st.Round, st.CurrentPhase)
	}
	for _, p := range st.Players {
		if p.Credits != 20000 || p.Reputation != 3 || p.HexTokens != player.HexTokenCapacity {
			t.Errorf("Player %s has wrong starting resources: %d credits, %d rep, %d tokens",
				p.Name, p.Credits, p.Reputation, p.HexTokens)
		}
		if len(p.Hand) != 4 {
			t.Errorf("Player %s should start with 4 cards, got %d", p.Name, len(p.Hand))
		}
		if p.Institute == "" {
			t.Errorf("Player %s has no institute", p.Name)
		}
	}
	if len(e.log.Replay()) == 0 || !hasEvent(e, events.EventRoundStarted) {
		t.Errorf("Expected player_joined and round_started events in log")
	}
}

func TestCommandsRejectedByProtocol(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state

	// Wrong actor during the grants phase.
	other := st.Players[(st.CurrentPlayer+1)%2]
	err := e.Apply(PassTurn{NewBase(other.ID)})
	if failKind(t, err) != FailNotActor {
		t.Errorf("Expected not_actor, got %v", err)
	}

	// Action command during the grants phase.
	err = e.Apply(PassTurn{NewBase(st.current().ID)})
	if failKind(t, err) != FailWrongPhase {
		t.Errorf("Expected wrong_phase, got %v", err)
	}

	// Unknown player.
	err = e.Apply(PassTurn{NewBase("nobody")})
	if failKind(t, err) != FailNotActor {
		t.Errorf("Expected not_actor for unknown player, got %v", err)
	}

	// Grant command during the actions phase.
	finishGrantsPhase(t, e)
	err = e.Apply(TakeGrant{Base: NewBase(st.current().ID), GrantID: "g-activity"})
	if failKind(t, err) != FailWrongPhase {
		t.Errorf("Expected wrong_phase in actions phase, got %v", err)
	}
}

func TestSubventionOnlyWhenNoGrantEligible(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state
	actor := st.current()

	// With requirement-free grants on offer, the subvention is refused.
	err := e.Apply(TakeSubvention{NewBase(actor.ID)})
	if failKind(t, err) != FailIllegalTarget {
		t.Errorf("Expected illegal_target, got %v", err)
	}

	// With only an out-of-reach grant listed, the subvention is the fallback.
	st.AvailableGrants = []card.Grant{{
		ID: "g-elite", Name: "Elite Grant",
		Requirements: card.GrantRequirements{MinReputation: 5},
		Goal:         card.GrantGoal{Kind: card.GoalPublications, N: 3},
	}}
	if err := e.Apply(TakeSubvention{NewBase(actor.ID)}); err != nil {
		t.Fatalf("Subvention should be legal with no eligible grant: %v", err)
	}
	if !actor.TookSubvention {
		t.Errorf("Expected took_subvention to be recorded")
	}
}

func TestEndActionTwiceIsNotLegal(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	first := st.current()

	if err := e.Apply(PlayActionCard{Base: NewBase(first.ID), Slot: player.CardManage}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	if err := e.Apply(EndAction{NewBase(first.ID)}); err != nil {
		t.Fatalf("end_action failed: %v", err)
	}

	// The turn moved on: the same player is rejected as actor.
	err := e.Apply(EndAction{NewBase(first.ID)})
	if failKind(t, err) != FailNotActor {
		t.Errorf("Expected not_actor on stale end_action, got %v", err)
	}

	// The new current player has no active card.
	err = e.Apply(EndAction{NewBase(st.current().ID)})
	if failKind(t, err) != FailWrongPhase {
		t.Errorf("Expected wrong_phase without active card, got %v", err)
	}
}

func TestActionCardBudgetsAndReuse(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	actor := st.current()
	pbBefore := actor.Research

	if err := e.Apply(PlayActionCard{Base: NewBase(actor.ID), Slot: player.CardLeadResearch}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	if actor.Research != pbBefore+1 {
		t.Errorf("lead_research basic action should grant +1 PB")
	}
	if st.RemainingActionPoints != 3 {
		t.Errorf("Expected 3 PA, got %d", st.RemainingActionPoints)
	}

	// A second card cannot be activated while one is live.
	err := e.Apply(PlayActionCard{Base: NewBase(actor.ID), Slot: player.CardManage})
	if failKind(t, err) != FailIllegalTarget {
		t.Errorf("Expected illegal_target with active card, got %v", err)
	}

	if err := e.Apply(EndAction{NewBase(actor.ID)}); err != nil {
		t.Fatalf("end_action failed: %v", err)
	}

	// Both players pass; the slot is re-usable only after round end.
	passActionsPhase(t, e)
	if st.Round != 2 {
		t.Fatalf("Expected round 2, got %d", st.Round)
	}
	if actor.Slot(player.CardLeadResearch).UsedInRound {
		t.Errorf("used_in_round should reset at the round boundary")
	}
}

func TestPublicationGateBoundaries(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	actor := st.current()
	actor.Institute = rules.InstituteCERN // no publish modifiers
	actor.Research = 10

	if err := e.Apply(PlayActionCard{Base: NewBase(actor.ID), Slot: player.CardPublish}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}

	// Reputation 1 forbids a 4 PZ journal.
	actor.Reputation = 1
	err := e.Apply(Publish{Base: NewBase(actor.ID), JournalID: "j-letters"})
	if failKind(t, err) != FailJournalRequirement {
		t.Errorf("Expected journal_requirement_unmet at rep 1, got %v", err)
	}

	// Reputation 2 still forbids a 6 PZ journal.
	actor.Reputation = 2
	err = e.Apply(Publish{Base: NewBase(actor.ID), JournalID: "j-nature"})
	if failKind(t, err) != FailJournalRequirement {
		t.Errorf("Expected journal_requirement_unmet for 6 PZ at rep 2, got %v", err)
	}

	// Reputation 2 publishes the 4 PZ journal.
	prestigeBefore := actor.Prestige
	if err := e.Apply(Publish{Base: NewBase(actor.ID), JournalID: "j-letters"}); err != nil {
		t.Fatalf("publish should succeed at rep 2: %v", err)
	}
	if actor.Prestige != prestigeBefore+4 {
		t.Errorf("Expected +4 PZ, prestige went %d -> %d", prestigeBefore, actor.Prestige)
	}
	if actor.Publications != 1 || len(actor.PublicationHistory) != 1 {
		t.Errorf("Publication history out of sync: %d / %d", actor.Publications, len(actor.PublicationHistory))
	}
	if actor.Research != 10+1-2 {
		t.Errorf("Expected PB debit of 2, got %d", actor.Research)
	}
	if !hasEvent(e, events.EventPublicationMade) {
		t.Errorf("Expected publication_made event")
	}
}

func TestHireScientistFromMarket(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	actor := st.current()

	if err := e.Apply(PlayActionCard{Base: NewBase(actor.ID), Slot: player.CardHire}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	// The basic action already added a free intern.
	if len(actor.Scientists) != 1 || actor.Scientists[0].Kind != player.KindIntern {
		t.Fatalf("hire basic action should add an intern")
	}

	offer := st.AvailableScientists[0]
	cmd := HireScientist{
		Base:          NewBase(actor.ID),
		ScientistKind: player.ScientistKind(offer.Kind),
		MarketID:      offer.ID,
	}
	if err := e.Apply(cmd); err != nil {
		t.Fatalf("hire_scientist failed: %v", err)
	}
	if len(actor.Scientists) != 2 {
		t.Fatalf("Expected 2 scientists, got %d", len(actor.Scientists))
	}
	hired := actor.Scientists[1]
	if hired.ID != offer.ID || hired.BaseSalary != offer.Salary {
		t.Errorf("Hired scientist does not match the market offer")
	}
	if actor.RoundActivityPoints != 2*rules.ActivityHire {
		t.Errorf("Expected %d activity for two hires, got %d", 2*rules.ActivityHire, actor.RoundActivityPoints)
	}
	for _, s := range st.AvailableScientists {
		if s.ID == offer.ID {
			t.Errorf("Hired scientist should leave the market")
		}
	}

	// The second PA buys one more hire; the third is refused.
	if err := e.Apply(HireScientist{Base: NewBase(actor.ID), ScientistKind: player.KindIntern}); err != nil {
		t.Fatalf("Second hire should fit the budget: %v", err)
	}
	err := e.Apply(HireScientist{Base: NewBase(actor.ID), ScientistKind: player.KindIntern})
	if failKind(t, err) != FailInsufficientResources {
		t.Errorf("Expected insufficient_resources for PA, got %v", err)
	}
}

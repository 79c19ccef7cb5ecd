package engine

import (
	"testing"

	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

// giveCompletedResearch plants n completed research cards on the player.
func giveCompletedResearch(e *Engine, p *player.Player, n int) {
	for i := 0; i < n && i < len(e.catalog.Research); i++ {
		p.Completed = append(p.Completed, e.catalog.Research[i])
	}
}

func TestConsortiumLifecycleWithExactThresholds(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	director := st.current()
	member := st.Players[(st.CurrentPlayer+1)%2]
	director.Institute = rules.InstituteMIT
	director.Research = 30
	director.Hand = append(director.Hand, card.NewConsortiumHandCard("charter-1"))

	// FUND: budget 3, found costs 2, contribute costs 1.
	if err := e.Apply(PlayActionCard{Base: NewBase(director.ID), Slot: player.CardFund}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	if err := e.Apply(FoundConsortium{Base: NewBase(director.ID), ProjectID: "p-collider"}); err != nil {
		t.Fatalf("found_consortium failed: %v", err)
	}
	pr := st.projectByID("p-collider")
	if pr.DirectorID != director.ID || !pr.IsMember(director.ID) {
		t.Fatalf("Founder should direct the project")
	}
	if !director.FoundedThisRound || director.RoundActivityPoints < rules.ActivityConsortiumFound {
		t.Errorf("Founding should flag the player and score activity")
	}
	if director.FirstHandOfKind(card.HandConsortium) >= 0 {
		t.Errorf("The charter card should be consumed")
	}

	if err := e.Apply(Contribute{
		Base: NewBase(director.ID), ProjectID: "p-collider",
		What: ContributePB, Amount: 5,
	}); err != nil {
		t.Fatalf("contribute failed: %v", err)
	}
	if pr.ContributedPB != 5 || director.Research != 25 {
		t.Errorf("Contribution should move 5 PB into the pool")
	}
	if err := e.Apply(EndAction{NewBase(director.ID)}); err != nil {
		t.Fatalf("end_action failed: %v", err)
	}

	// The other player applies and passes; the director approves.
	if err := e.Apply(RequestJoin{Base: NewBase(member.ID), ProjectID: "p-collider"}); err != nil {
		t.Fatalf("request_consortium_join failed: %v", err)
	}
	if err := e.Apply(PassTurn{NewBase(member.ID)}); err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if err := e.Apply(ApproveJoin{
		Base: NewBase(director.ID), ProjectID: "p-collider", ApplicantID: member.ID,
	}); err != nil {
		t.Fatalf("approve_join failed: %v", err)
	}
	if !pr.IsMember(member.ID) || pr.IsPending(member.ID) {
		t.Fatalf("Approval should move the applicant into the member list")
	}

	// Completion with a threshold unmet is refused.
	err := e.Apply(CompleteConsortium{Base: NewBase(director.ID), ProjectID: "p-collider"})
	if failKind(t, err) != FailConsortiumRequirement {
		t.Errorf("Expected consortium_requirement_unmet, got %v", err)
	}

	// Meet every requirement with exact values.
	pr.ContributedPB = 20
	pr.ContributedCredits = 30000
	giveCompletedResearch(e, director, 2)
	director.Scientists = append(director.Scientists, &player.Scientist{
		ID: "prof-x", Name: "Prof. X", Kind: player.KindProfessor, BaseSalary: 4000, IsPaid: true,
	})

	directorPZ, memberPZ := director.Prestige, member.Prestige
	directorCredits := director.Credits
	if err := e.Apply(CompleteConsortium{Base: NewBase(director.ID), ProjectID: "p-collider"}); err != nil {
		t.Fatalf("complete_consortium failed at exact thresholds: %v", err)
	}
	if director.Prestige != directorPZ+5 || director.Credits != directorCredits+10000 {
		t.Errorf("Director reward misapplied: %d PZ, %d credits", director.Prestige, director.Credits)
	}
	if member.Prestige != memberPZ+2 {
		t.Errorf("Member reward misapplied: %d PZ", member.Prestige)
	}
	if !pr.Completed || st.ProjectsCompleted != 1 {
		t.Errorf("Completion bookkeeping wrong: completed=%v total=%d", pr.Completed, st.ProjectsCompleted)
	}
	if !hasEvent(e, events.EventConsortiumCompleted) {
		t.Errorf("Expected consortium_completed event")
	}

	// The payout fires exactly once.
	err = e.Apply(CompleteConsortium{Base: NewBase(director.ID), ProjectID: "p-collider"})
	if failKind(t, err) != FailIllegalTarget {
		t.Errorf("Expected illegal_target on a second completion, got %v", err)
	}
	if director.Prestige != directorPZ+5 {
		t.Errorf("Director reward must not double-pay")
	}
}

func TestContributionRequiresMembership(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	director := st.current()
	outsider := st.Players[(st.CurrentPlayer+1)%2]
	director.Hand = append(director.Hand, card.NewConsortiumHandCard("charter-1"))

	if err := e.Apply(PlayActionCard{Base: NewBase(director.ID), Slot: player.CardFund}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	if err := e.Apply(FoundConsortium{Base: NewBase(director.ID), ProjectID: "p-collider"}); err != nil {
		t.Fatalf("found_consortium failed: %v", err)
	}
	if err := e.Apply(EndAction{NewBase(director.ID)}); err != nil {
		t.Fatalf("end_action failed: %v", err)
	}

	// The outsider activates FUND but was never accepted.
	outsider.Research = 10
	if err := e.Apply(PlayActionCard{Base: NewBase(outsider.ID), Slot: player.CardFund}); err != nil {
		t.Fatalf("play_action_card failed: %v", err)
	}
	err := e.Apply(Contribute{
		Base: NewBase(outsider.ID), ProjectID: "p-collider",
		What: ContributePB, Amount: 5,
	})
	if failKind(t, err) != FailConsortiumRequirement {
		t.Errorf("Expected consortium_requirement_unmet for non-member, got %v", err)
	}
	if e.state.projectByID("p-collider").ContributedPB != 0 {
		t.Errorf("Rejected contribution must not touch the pool")
	}
}

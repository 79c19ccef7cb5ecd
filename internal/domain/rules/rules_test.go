package rules

import (
	"testing"

	"github.com/principia-juego/server/internal/domain/player"
)

func TestPassBonusTable(t *testing.T) {
	cases := []struct {
		hand int
		want int
	}{
		{7, 0}, {6, 0}, {5, 0}, {4, 1000}, {3, 3000}, {2, 5000}, {1, 8000}, {0, 8000},
	}
	for _, tc := range cases {
		if got := PassBonus(tc.hand); got != tc.want {
			t.Errorf("PassBonus(%d) = %d, want %d", tc.hand, got, tc.want)
		}
	}
}

func TestSalaryOwedWithOverload(t *testing.T) {
	roster := []*player.Scientist{
		{Kind: player.KindDoctor, BaseSalary: 2000},
		{Kind: player.KindDoctor, BaseSalary: 2000},
		{Kind: player.KindProfessor, BaseSalary: 4000},
		{Kind: player.KindIntern, BaseSalary: 0},
	}

	// Three non-interns at threshold 3: no surcharge.
	if got := SalaryOwed(roster, 3); got != 8000 {
		t.Errorf("Expected 8000 owed at threshold, got %d", got)
	}

	// A fourth non-intern engages the penalty strictly above threshold.
	roster = append(roster, &player.Scientist{Kind: player.KindDoctor, BaseSalary: 2000})
	if got := SalaryOwed(roster, 3); got != 11000 {
		t.Errorf("Expected 10000 + 1000 overload, got %d", got)
	}

	// A raised threshold exempts the fourth employee.
	if got := SalaryOwed(roster, 4); got != 10000 {
		t.Errorf("Expected no overload at threshold 4, got %d", got)
	}
}

func TestPublicationGates(t *testing.T) {
	// Reputation 1: journals paying 4+ PZ are forbidden.
	if CanPublishAtReputation(1, 4) {
		t.Errorf("rep 1 must not publish pz_reward 4")
	}
	if !CanPublishAtReputation(1, 3) {
		t.Errorf("rep 1 should publish pz_reward 3")
	}
	// Reputation 2: the same journal is allowed, 6+ is not.
	if !CanPublishAtReputation(2, 4) {
		t.Errorf("rep 2 should publish pz_reward 4")
	}
	if CanPublishAtReputation(2, 6) {
		t.Errorf("rep 2 must not publish pz_reward 6")
	}
	if !CanPublishAtReputation(3, 9) {
		t.Errorf("rep 3 has no gate")
	}
}

func TestInstituteTable(t *testing.T) {
	if FieldBonusHex(InstituteMIT, "physics") != 1 {
		t.Errorf("MIT should gain a physics hex")
	}
	if FieldBonusHex(InstituteMIT, "biology") != 0 {
		t.Errorf("MIT has no biology bonus")
	}
	if FieldBonusHex(InstituteCERN, "physics") != 0 {
		t.Errorf("CERN has no physics hex bonus")
	}

	if pb, _ := OnCompleteResearch(InstituteMaxPlanck); pb != 1 {
		t.Errorf("Max Planck should gain +1 PB on completion")
	}
	if _, credits := OnCompleteResearch(InstituteCambridge); credits != 2000 {
		t.Errorf("Cambridge should gain +2K on completion")
	}

	if pz, _ := OnPublish(InstituteCambridge, 3); pz != 1 {
		t.Errorf("Cambridge publications pay +1 PZ")
	}
	if _, rep := OnPublish(InstituteHarvard, 6); rep != 1 {
		t.Errorf("Harvard gains reputation on impact >= 6")
	}
	if _, rep := OnPublish(InstituteHarvard, 5); rep != 0 {
		t.Errorf("Harvard gains nothing below impact 6")
	}

	if OpportunityGainFactor(InstituteStanford) != 2 {
		t.Errorf("Stanford doubles opportunity gains")
	}

	got := SubActionCost(InstituteCERN, player.CardFund, player.SubContribute, 1)
	if got != 0 {
		t.Errorf("CERN fund sub-actions cost one less, got %d", got)
	}
	got = SubActionCost(InstituteCERN, player.CardManage, player.SubDrawCard, 1)
	if got != 1 {
		t.Errorf("CERN discount is limited to the FUND card")
	}

	if OverloadThreshold(InstituteMIT) != 4 || OverloadThreshold(InstituteHarvard) != 4 {
		t.Errorf("MIT/Harvard overload threshold is 4")
	}
	if OverloadThreshold(InstituteCERN) != 3 {
		t.Errorf("Default overload threshold is 3")
	}
}

func TestRankOrdering(t *testing.T) {
	a := player.New("A", "A", "red", InstituteMIT)
	b := player.New("B", "B", "blue", InstituteCERN)
	c := player.New("C", "C", "green", InstituteHarvard)

	a.Prestige = 10
	b.Prestige = 10
	c.Prestige = 20
	b.Publications = 2

	order := Rank([]*player.Player{a, b, c})
	if order[0] != "C" || order[1] != "B" || order[2] != "A" {
		t.Errorf("Unexpected ranking: %v", order)
	}
}

func TestCheckVictory(t *testing.T) {
	a := player.New("A", "A", "red", InstituteMIT)
	players := []*player.Player{a}

	if _, ended := CheckVictory(players, 0); ended {
		t.Fatalf("Fresh match must not be ended")
	}

	a.Prestige = VictoryPrestige
	if reason, ended := CheckVictory(players, 0); !ended || reason != ReasonPrestige {
		t.Errorf("Expected prestige victory, got %v %v", reason, ended)
	}

	a.Prestige = 0
	if reason, ended := CheckVictory(players, 3); !ended || reason != ReasonProjects {
		t.Errorf("Expected projects victory, got %v %v", reason, ended)
	}
}

package content

import (
	"testing"

	"github.com/principia-juego/server/internal/domain/card"
)

func TestParseRewardBundles(t *testing.T) {
	cases := []struct {
		text string
		want card.Reward
	}{
		{"10K + 2 PZ", card.Reward{Credits: 10000, PZ: 2}},
		{"3 PB", card.Reward{PB: 3}},
		{"1 Rep + 5K", card.Reward{Reputation: 1, Credits: 5000}},
		{"2PZ+1PB", card.Reward{PZ: 2, PB: 1}},
		{"", card.Reward{}},
		{"-", card.Reward{}},
	}
	for _, tc := range cases {
		got, err := ParseReward(tc.text)
		if err != nil {
			t.Errorf("ParseReward(%q) failed: %v", tc.text, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseReward(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}

	if _, err := ParseReward("10 gold"); err == nil {
		t.Errorf("Unknown units should be rejected")
	}
	if _, err := ParseReward("K"); err == nil {
		t.Errorf("A unit without an amount should be rejected")
	}
}

func TestParseGoalKinds(t *testing.T) {
	cases := []struct {
		text string
		want card.GrantGoal
	}{
		{"2 publications", card.GrantGoal{Kind: card.GoalPublications, N: 2}},
		{"1 completed research", card.GrantGoal{Kind: card.GoalCompletedResearch, N: 1}},
		{"found a consortium", card.GrantGoal{Kind: card.GoalFoundConsortium}},
		{"6 activity points this round", card.GrantGoal{Kind: card.GoalActivityPoints, N: 6}},
	}
	for _, tc := range cases {
		got, err := ParseGoal(tc.text)
		if err != nil {
			t.Errorf("ParseGoal(%q) failed: %v", tc.text, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseGoal(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}

	if _, err := ParseGoal("win the game"); err == nil {
		t.Errorf("Unknown goals should be rejected")
	}
}

func TestParseProjectRequirements(t *testing.T) {
	req, err := ParseProjectRequirements("20 PB + 30K + 2 completed research + professor + field:physics")
	if err != nil {
		t.Fatalf("ParseProjectRequirements failed: %v", err)
	}
	if req.PB != 20 || req.Credits != 30000 || req.CompletedResearch != 2 {
		t.Errorf("Thresholds misparsed: %+v", req)
	}
	if !req.NeedsProfessor {
		t.Errorf("Professor flag should be set")
	}
	if len(req.FieldConstraints) != 1 || req.FieldConstraints[0] != "physics" {
		t.Errorf("Field constraint misparsed: %v", req.FieldConstraints)
	}
}

func TestParseCrisisRoundsIsExplicit(t *testing.T) {
	rounds, err := ParseCrisisRounds("3;5;7")
	if err != nil {
		t.Fatalf("ParseCrisisRounds failed: %v", err)
	}
	if len(rounds) != 3 || rounds[0] != 3 || rounds[1] != 5 || rounds[2] != 7 {
		t.Errorf("Schedule misparsed: %v", rounds)
	}

	// No silent fallback: an empty schedule is a content error.
	if _, err := ParseCrisisRounds(""); err == nil {
		t.Errorf("Empty crisis_rounds should be rejected")
	}
	if _, err := ParseCrisisRounds("3;x"); err == nil {
		t.Errorf("Malformed crisis_rounds should be rejected")
	}
}

func TestParseEffectsDSL(t *testing.T) {
	effects, err := ParseEffects("all:credits:sub:2000; opponent:steal_scientist; self:pb:add:1:3:coin_flip")
	if err != nil {
		t.Fatalf("ParseEffects failed: %v", err)
	}
	if len(effects) != 3 {
		t.Fatalf("Expected 3 effects, got %d", len(effects))
	}
	first := effects[0]
	if first.Target != card.TargetAll || first.Parameter != card.ParamCredits ||
		first.Operation != card.OpSub || first.Value != 2000 {
		t.Errorf("Plain effect misparsed: %+v", first)
	}
	if effects[1].Special != card.SpecialStealScientist {
		t.Errorf("Special short form misparsed: %+v", effects[1])
	}
	third := effects[2]
	if third.Duration != 3 || third.Condition != "coin_flip" {
		t.Errorf("Duration/condition misparsed: %+v", third)
	}

	for _, bad := range []string{"everyone:credits:add:1", "self:gold:add:1", "self:credits:mul:2", "self:credits:add:x"} {
		if _, err := ParseEffects(bad); err == nil {
			t.Errorf("ParseEffects(%q) should fail", bad)
		}
	}
}

func TestNormalizeSalary(t *testing.T) {
	// Legacy content mixes thousands with raw credits.
	if got := NormalizeSalary(2); got != 2000 {
		t.Errorf("NormalizeSalary(2) = %d, want 2000", got)
	}
	if got := NormalizeSalary(2000); got != 2000 {
		t.Errorf("NormalizeSalary(2000) = %d, want 2000", got)
	}
	if got := NormalizeSalary(0); got != 0 {
		t.Errorf("NormalizeSalary(0) = %d, want 0", got)
	}
}

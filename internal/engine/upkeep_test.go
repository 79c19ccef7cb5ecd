package engine

import (
	"testing"

	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

func TestSalaryDefaultCostsReputation(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	debtor := st.Players[0]
	debtor.Institute = rules.InstituteCERN

	doctor := &player.Scientist{ID: "doc-1", Name: "Dr. Vega", Kind: player.KindDoctor, BaseSalary: 2000, IsPaid: true}
	debtor.Scientists = append(debtor.Scientists, doctor)
	debtor.Credits = 0 // the pass bonus of 1000 still leaves the salary short

	passActionsPhase(t, e)

	if debtor.Reputation != 2 {
		t.Errorf("A default costs one reputation: expected 2, got %d", debtor.Reputation)
	}
	if doctor.IsPaid {
		t.Errorf("The unpaid doctor should be flagged")
	}
	if debtor.Credits != 1000 {
		t.Errorf("A default leaves credits untouched: expected 1000, got %d", debtor.Credits)
	}
	ev := lastEvent(t, e, events.EventSalaryDefaulted)
	if ev.ActorID != debtor.ID {
		t.Errorf("salary_defaulted should name the debtor")
	}
	if st.Round != 2 || st.CurrentPhase != PhaseGrants {
		t.Errorf("Upkeep should open round 2 grants, got round %d phase %s", st.Round, st.CurrentPhase)
	}
}

func TestSalaryPaidWhenFunded(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	payer := e.state.Players[0]
	payer.Institute = rules.InstituteCERN

	doctor := &player.Scientist{ID: "doc-1", Kind: player.KindDoctor, BaseSalary: 2000, IsPaid: false}
	payer.Scientists = append(payer.Scientists, doctor)
	payer.Credits = 5000

	passActionsPhase(t, e)

	// 5000 + 1000 pass bonus - 2000 salary.
	if payer.Credits != 4000 {
		t.Errorf("Expected 4000 credits after salary, got %d", payer.Credits)
	}
	if !doctor.IsPaid {
		t.Errorf("The doctor should be re-marked paid")
	}
	if payer.Reputation != 3 {
		t.Errorf("Paying salaries must not touch reputation, got %d", payer.Reputation)
	}
	if !hasEvent(e, events.EventSalaryPaid) {
		t.Errorf("Expected salary_paid event")
	}
}

func TestGrantByActivityResolvesAtUpkeep(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	p := st.Players[0]
	p.Institute = rules.InstituteCERN

	grant := e.catalog.GrantByID("g-activity")
	p.CurrentGrant = &player.GrantState{Grant: *grant}
	// One hire (+2) and two publications (+3 each) beat the threshold of 6.
	p.RoundActivityPoints = 8

	creditsBefore := p.Credits
	passActionsPhase(t, e)

	// Pass bonus 1000 plus the 10K grant reward.
	if p.Credits != creditsBefore+1000+10000 {
		t.Errorf("Expected grant reward of 10000, credits went %d -> %d", creditsBefore, p.Credits)
	}
	found := false
	for _, rec := range e.log.Replay() {
		if rec.Type == events.EventGrantResolved && rec.ActorID == p.ID {
			payload := rec.Payload.(map[string]interface{})
			if payload["success"] == true {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("Expected a successful grant_resolved for %s", p.Name)
	}
	if p.CurrentGrant != nil {
		t.Errorf("The grant should be removed when the round truly ends")
	}
}

func TestSubventionResolvesByActivity(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	p := st.Players[0]
	p.Institute = rules.InstituteCERN
	p.CurrentGrant = nil
	p.TookSubvention = true
	p.RoundActivityPoints = rules.SubventionThreshold

	creditsBefore := p.Credits
	passActionsPhase(t, e)

	if p.Credits != creditsBefore+1000+rules.SubventionReward {
		t.Errorf("Expected subvention payout of %d, credits went %d -> %d",
			rules.SubventionReward, creditsBefore, p.Credits)
	}
}

func TestCrisisRevealedOnScheduledRound(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state

	// Rounds 1 and 2: no crisis. Round 3 is scheduled.
	for round := 1; round <= 3; round++ {
		if st.Round != round {
			t.Fatalf("Expected round %d, at %d", round, st.Round)
		}
		finishGrantsPhase(t, e)
		passActionsPhase(t, e)
		if round < 3 && len(st.RevealedCrises) != 0 {
			t.Fatalf("No crisis should fire before round 3")
		}
	}

	if len(st.RevealedCrises) != 1 {
		t.Fatalf("Expected 1 revealed crisis after round 3, got %d", len(st.RevealedCrises))
	}
	if len(st.CrisisDeck) != 1 {
		t.Errorf("The crisis deck should shrink to 1, got %d", len(st.CrisisDeck))
	}
	if !hasEvent(e, events.EventCrisisRevealed) {
		t.Errorf("Expected crisis_revealed event")
	}
}

func TestCrisisEffectDurationTicksAtNextUpkeep(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state
	st.CrisisDeck = []card.Crisis{{
		ID:   "c-shock",
		Name: "Energy Price Shock",
		Effects: []card.Effect{{
			Target:    card.TargetAll,
			Parameter: card.ParamCredits,
			Operation: card.OpSub,
			Value:     1000,
			Duration:  2,
		}},
	}}

	for round := 1; round <= 3; round++ {
		finishGrantsPhase(t, e)
		passActionsPhase(t, e)
	}

	for _, p := range st.Players {
		if len(p.TimedEffects) != 1 {
			t.Fatalf("A duration-2 crisis should register one remaining tick for %s, got %d", p.Name, len(p.TimedEffects))
		}
		te := p.TimedEffects[0]
		if te.Remaining != 1 || te.SourceCard != "Energy Price Shock" {
			t.Errorf("Unexpected timed effect for %s: %+v", p.Name, te)
		}
	}

	// Round 4 schedules no crisis; the shock ticks once more at its upkeep.
	// The pass bonus (+1000) and the second debit (-1000) cancel out.
	p := st.Players[0]
	creditsBefore := p.Credits
	finishGrantsPhase(t, e)
	passActionsPhase(t, e)

	if p.Credits != creditsBefore {
		t.Errorf("Expected the second debit to offset the pass bonus, credits went %d -> %d", creditsBefore, p.Credits)
	}
	if len(p.TimedEffects) != 0 {
		t.Errorf("The shock should expire after its second tick, %d timed effects remain", len(p.TimedEffects))
	}
}

func TestMatchEndsAtMaxRounds(t *testing.T) {
	e := newTestEngine(t, 42)
	st := e.state

	for round := 1; round <= 10 && !st.GameEnded; round++ {
		finishGrantsPhase(t, e)
		passActionsPhase(t, e)
	}

	if !st.GameEnded {
		t.Fatalf("The match should end after the scenario's 10 rounds")
	}
	ev := lastEvent(t, e, events.EventMatchEnded)
	payload := ev.Payload.(map[string]interface{})
	if payload["reason"] != string(rules.ReasonRoundsElapsed) {
		t.Errorf("Expected max_rounds reason, got %v", payload["reason"])
	}
	if payload["winner"] == "" {
		t.Errorf("The final event should name a winner")
	}

	// The state is frozen.
	err := e.Apply(PassTurn{NewBase(st.Players[0].ID)})
	if failKind(t, err) != FailMatchEnded {
		t.Errorf("Expected match_ended after the end, got %v", err)
	}
}

func TestSkipGrantConsumedAtNextGrantsPhase(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	marked := st.Players[0]
	marked.SkipNextGrant = true

	passActionsPhase(t, e)

	if st.Round != 2 || st.CurrentPhase != PhaseGrants {
		t.Fatalf("Expected round 2 grants phase")
	}
	// The marked player was skipped: the other one is to act.
	if st.current() == marked {
		t.Errorf("The skip-grant player should not get a grants turn")
	}
	if marked.SkipNextGrant {
		t.Errorf("The skip flag should be consumed")
	}

	finishGrantsPhase(t, e)
	if marked.CurrentGrant != nil || marked.TookSubvention {
		t.Errorf("The skipped player must end the phase without a grant")
	}
}

package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

// runUpkeep executes the end-of-round routine as one uninterruptible
// transition: timed effects, salaries, grant evaluation, subventions,
// project auto-completion, scenario crisis, victory check, round reset.
func (e *Engine) runUpkeep() {
	st := e.state
	e.emitPhaseChanged(st.CurrentPhase, PhaseUpkeep)
	st.CurrentPhase = PhaseUpkeep

	e.tickTimedEffects()
	e.paySalaries()
	e.evaluateGrants()
	e.resolveSubventions()
	e.autoCompleteProjects()
	e.revealCrisis()

	e.checkImmediateVictory()
	if !st.GameEnded && st.Round >= st.Scenario.MaxRounds {
		e.endMatch(rules.ReasonRoundsElapsed)
	}
	if st.GameEnded {
		return
	}
	e.startNextRound()
}

// tickTimedEffects re-applies registered multi-round effects and expires
// them. Special effects never recur; only parameter arithmetic ticks.
func (e *Engine) tickTimedEffects() {
	for _, p := range e.state.Players {
		kept := p.TimedEffects[:0]
		for _, te := range p.TimedEffects {
			if te.Effect.Special == card.SpecialNone {
				applyParam(p, te.Effect.Parameter, te.Effect.Operation, te.Effect.Value)
			}
			te.Remaining--
			if te.Remaining > 0 {
				kept = append(kept, te)
			}
		}
		p.TimedEffects = kept
	}
}

func (e *Engine) paySalaries() {
	for _, p := range e.state.Players {
		threshold := rules.OverloadThreshold(p.Institute)
		owed := rules.SalaryOwed(p.Scientists, threshold)
		if owed == 0 {
			continue
		}
		if p.Credits >= owed {
			p.Credits -= owed
			for _, s := range p.Scientists {
				s.IsPaid = true
			}
			e.emit(events.GameEvent{
				Type:    events.EventSalaryPaid,
				ActorID: p.ID,
				Payload: map[string]interface{}{"owed": owed},
			})
			continue
		}
		// A default costs one reputation and marks the staff unpaid; credits
		// are untouched.
		p.Reputation--
		p.ClampReputation()
		for _, s := range p.Scientists {
			if s.Kind != player.KindIntern {
				s.IsPaid = false
			}
		}
		e.emit(events.GameEvent{
			Type:    events.EventSalaryDefaulted,
			ActorID: p.ID,
			Payload: map[string]interface{}{
				"owed":       owed,
				"credits":    p.Credits,
				"reputation": p.Reputation,
			},
		})
	}
}

// grantGoalMet evaluates one parsed grant goal against the round state.
func grantGoalMet(p *player.Player, goal card.GrantGoal) bool {
	switch goal.Kind {
	case card.GoalPublications:
		return p.Publications >= goal.N
	case card.GoalCompletedResearch:
		return len(p.Completed) >= goal.N
	case card.GoalFoundConsortium:
		return p.FoundedThisRound
	case card.GoalActivityPoints:
		return p.RoundActivityPoints >= goal.N
	}
	return false
}

func (e *Engine) evaluateGrants() {
	for _, p := range e.state.Players {
		if p.CurrentGrant == nil || p.CurrentGrant.Completed {
			continue
		}
		g := p.CurrentGrant.Grant
		success := grantGoalMet(p, g.Goal)
		if success {
			creditReward(p, g.Reward)
			p.CurrentGrant.Completed = true
		}
		e.emit(events.GameEvent{
			Type:    events.EventGrantResolved,
			ActorID: p.ID,
			Payload: map[string]interface{}{
				"grant_id": g.ID,
				"success":  success,
				"reward":   rewardPayload(g.Reward),
			},
		})
	}
}

func (e *Engine) resolveSubventions() {
	for _, p := range e.state.Players {
		if !p.TookSubvention {
			continue
		}
		success := p.RoundActivityPoints >= rules.SubventionThreshold
		if success {
			p.Credits += rules.SubventionReward
		}
		e.emit(events.GameEvent{
			Type:    events.EventGrantResolved,
			ActorID: p.ID,
			Payload: map[string]interface{}{
				"subvention": true,
				"success":    success,
				"activity":   p.RoundActivityPoints,
			},
		})
	}
}

func (e *Engine) autoCompleteProjects() {
	for _, pr := range e.state.Projects {
		if pr.Completed || pr.DirectorID == "" {
			continue
		}
		if e.projectCompletable(pr) == nil {
			e.payoutProject(pr)
		}
	}
}

// revealCrisis draws the next crisis when the scenario schedules one for the
// current round and applies its global modifier. Crisis effects run through
// the same interpreter as card effects, so multi-round durations register
// their remaining ticks like any other timed effect.
func (e *Engine) revealCrisis() {
	st := e.state
	scheduled := false
	for _, r := range st.Scenario.CrisisRounds {
		if r == st.Round {
			scheduled = true
			break
		}
	}
	if !scheduled || len(st.CrisisDeck) == 0 {
		return
	}

	crisis := st.CrisisDeck[0]
	st.CrisisDeck = st.CrisisDeck[1:]
	st.RevealedCrises = append(st.RevealedCrises, crisis)

	for _, eff := range crisis.Effects {
		e.applyEffect(nil, nil, eff, crisis.Name, false)
	}

	e.emit(events.GameEvent{
		Type: events.EventCrisisRevealed,
		Payload: map[string]interface{}{
			"crisis_id": crisis.ID,
			"name":      crisis.Name,
		},
	})
}

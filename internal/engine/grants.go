package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/events"
)

// grantEligible checks the static requirements gating a grant.
func grantEligible(p *player.Player, g card.Grant) bool {
	if p.Reputation < g.Requirements.MinReputation {
		return false
	}
	if len(p.Completed) < g.Requirements.MinCompletedResearch {
		return false
	}
	return true
}

func (e *Engine) takeGrant(actor *player.Player, cmd TakeGrant) *Error {
	st := e.state
	idx := -1
	for i, g := range st.AvailableGrants {
		if g.ID == cmd.GrantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return failf(FailIllegalTarget, "grant %q is not on offer", cmd.GrantID)
	}
	g := st.AvailableGrants[idx]
	if !grantEligible(actor, g) {
		return failf(FailGrantRequirement,
			"%s does not meet the requirements of %s", actor.Name, g.Name)
	}

	st.AvailableGrants = append(st.AvailableGrants[:idx], st.AvailableGrants[idx+1:]...)
	actor.CurrentGrant = &player.GrantState{Grant: g}
	// The round bonus is unconditional funding credited on take; the goal
	// reward is evaluated at upkeep.
	creditReward(actor, g.RoundBonus)
	st.markGrantServed(actor.ID)

	e.emit(events.GameEvent{
		Type:    events.EventGrantTaken,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"grant_id":    g.ID,
			"grant_name":  g.Name,
			"round_bonus": rewardPayload(g.RoundBonus),
		},
	})
	e.advanceGrantTurn()
	return nil
}

func (e *Engine) takeSubvention(actor *player.Player) *Error {
	st := e.state
	for _, g := range st.AvailableGrants {
		if grantEligible(actor, g) {
			return failf(FailIllegalTarget,
				"subvention refused: grant %s is still eligible", g.Name)
		}
	}

	actor.TookSubvention = true
	st.markGrantServed(actor.ID)
	e.emit(events.GameEvent{
		Type:    events.EventGrantTaken,
		ActorID: actor.ID,
		Payload: map[string]interface{}{"subvention": true},
	})
	e.advanceGrantTurn()
	return nil
}

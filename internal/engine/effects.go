package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

func (e *Engine) useIntrigue(actor *player.Player, cmd UseIntrigue) *Error {
	st := e.state
	idx := actor.HandIndex(cmd.CardID)
	if idx < 0 || actor.Hand[idx].Kind != card.HandIntrigue {
		return failf(FailCardNotInHand, "no intrigue card %q in hand", cmd.CardID)
	}
	def := actor.Hand[idx].Intrigue

	var target *player.Player
	if effectsNeedTarget(def.Effects) {
		target = st.playerByID(cmd.TargetID)
		if target == nil || target == actor {
			return failf(FailIllegalTarget, "%s needs an opponent target", def.Name)
		}
	}

	hc := actor.RemoveHandCard(idx)
	st.DiscardPile = append(st.DiscardPile, hc)
	for _, eff := range def.Effects {
		e.applyEffect(actor, target, eff, def.Name, false)
	}

	e.emit(events.GameEvent{
		Type:     events.EventCardPlayed,
		ActorID:  actor.ID,
		TargetID: cmd.TargetID,
		Payload: map[string]interface{}{
			"card_kind": string(card.HandIntrigue),
			"card_id":   cmd.CardID,
			"name":      def.Name,
		},
	})
	return nil
}

func (e *Engine) useOpportunity(actor *player.Player, cmd UseOpportunity) *Error {
	st := e.state
	idx := actor.HandIndex(cmd.CardID)
	if idx < 0 || actor.Hand[idx].Kind != card.HandOpportunity {
		return failf(FailCardNotInHand, "no opportunity card %q in hand", cmd.CardID)
	}
	def := actor.Hand[idx].Opportunity

	hc := actor.RemoveHandCard(idx)
	st.DiscardPile = append(st.DiscardPile, hc)
	for _, eff := range def.Effects {
		e.applyEffect(actor, nil, eff, def.Name, true)
	}

	e.emit(events.GameEvent{
		Type:    events.EventCardPlayed,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"card_kind": string(card.HandOpportunity),
			"card_id":   cmd.CardID,
			"name":      def.Name,
		},
	})
	return nil
}

func effectsNeedTarget(effects []card.Effect) bool {
	for _, eff := range effects {
		if eff.Target == card.TargetOpponent {
			return true
		}
	}
	return false
}

// applyEffect interprets one structured effect record. Opportunity gains are
// scaled by the institute factor; timed effects register their remaining
// re-applications for upkeep.
func (e *Engine) applyEffect(source, target *player.Player, eff card.Effect, sourceName string, opportunity bool) {
	if !e.conditionHolds(eff.Condition) {
		return
	}
	for _, p := range e.effectRecipients(source, target, eff.Target) {
		value := eff.Value
		if opportunity && eff.Operation == card.OpAdd {
			value *= rules.OpportunityGainFactor(p.Institute)
		}
		switch eff.Special {
		case card.SpecialStealScientist:
			e.stealScientist(source, p)
		case card.SpecialSkipGrant:
			p.SkipNextGrant = true
		default:
			applyParam(p, eff.Parameter, eff.Operation, value)
		}
		if eff.Duration > 1 {
			p.TimedEffects = append(p.TimedEffects, player.TimedEffect{
				SourceCard: sourceName,
				Effect:     eff,
				Remaining:  eff.Duration - 1,
			})
		}
	}
}

func (e *Engine) conditionHolds(condition string) bool {
	switch condition {
	case "":
		return true
	case "coin_flip":
		return e.state.coinFlip()
	}
	return false
}

func (e *Engine) effectRecipients(source, target *player.Player, t card.TargetType) []*player.Player {
	switch t {
	case card.TargetSelf:
		if source == nil {
			return nil
		}
		return []*player.Player{source}
	case card.TargetOpponent:
		if target == nil {
			return nil
		}
		return []*player.Player{target}
	case card.TargetAll:
		return e.state.Players
	case card.TargetAllOthers:
		var out []*player.Player
		for _, p := range e.state.Players {
			if p != source {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// stealScientist moves a seeded-random non-intern from victim to thief. A
// scientist lives in at most one roster, so the move never duplicates.
func (e *Engine) stealScientist(thief, victim *player.Player) {
	if thief == nil || victim == nil || thief == victim {
		return
	}
	var candidates []string
	for _, s := range victim.Scientists {
		if s.Kind != player.KindIntern {
			candidates = append(candidates, s.ID)
		}
	}
	if len(candidates) == 0 {
		return
	}
	id := candidates[e.state.rng.Intn(len(candidates))]
	if s := victim.RemoveScientist(id); s != nil {
		thief.Scientists = append(thief.Scientists, s)
	}
}

// applyParam performs the plain parameter arithmetic of the effect VM,
// holding the resource invariants (credits >= 0, reputation 0..5, hex
// tokens 0..capacity).
func applyParam(p *player.Player, param card.Parameter, op card.Operation, value int) {
	delta := func(cur int) int {
		switch op {
		case card.OpAdd:
			return cur + value
		case card.OpSub:
			return cur - value
		case card.OpSet:
			return value
		}
		return cur
	}
	switch param {
	case card.ParamCredits:
		p.Credits = delta(p.Credits)
		if p.Credits < 0 {
			p.Credits = 0
		}
	case card.ParamPB:
		p.Research = delta(p.Research)
		if p.Research < 0 {
			p.Research = 0
		}
	case card.ParamPZ:
		p.Prestige = delta(p.Prestige)
		if p.Prestige < 0 {
			p.Prestige = 0
		}
	case card.ParamReputation:
		p.Reputation = delta(p.Reputation)
		p.ClampReputation()
	case card.ParamHexTokens:
		p.HexTokens = delta(p.HexTokens)
		if p.HexTokens < 0 {
			p.HexTokens = 0
		}
		if p.HexTokens > player.HexTokenCapacity {
			p.HexTokens = player.HexTokenCapacity
		}
	}
}

package engine

import (
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

// creditsPerGainAction is what the gain_credit basic/sub-action pays.
const creditsPerGainAction = 2000

func (e *Engine) playActionCard(actor *player.Player, cmd PlayActionCard) *Error {
	st := e.state
	if st.ActiveActionCard != "" {
		return failf(FailIllegalTarget, "finish the active %s card first", st.ActiveActionCard)
	}
	slot := actor.Slot(cmd.Slot)
	if slot == nil {
		return failf(FailIllegalTarget, "unknown action card %q", cmd.Slot)
	}
	if slot.UsedInRound {
		return failf(FailIllegalTarget, "%s was already played this round", cmd.Slot)
	}
	tmpl := player.Templates[cmd.Slot]

	slot.UsedInRound = true
	st.ActiveActionCard = cmd.Slot
	st.RemainingActionPoints = tmpl.Budget

	payload := map[string]interface{}{
		"slot":   string(cmd.Slot),
		"budget": tmpl.Budget,
		"basic":  string(tmpl.Basic),
	}
	switch tmpl.Basic {
	case player.BasicGainPB:
		actor.Research++
	case player.BasicGainCredit:
		actor.Credits += creditsPerGainAction
	case player.BasicHireIntern:
		intern := player.NewIntern(st.mintID("intern"), "")
		actor.Scientists = append(actor.Scientists, intern)
		actor.AddActivity(rules.ActivityHire)
		payload["intern_id"] = intern.ID
	case player.BasicDrawCard:
		if c, ok := st.drawCard(); ok {
			actor.Hand = append(actor.Hand, c)
			payload["drawn_card_id"] = c.ID
		}
	}

	e.emit(events.GameEvent{
		Type:    events.EventActionPlayed,
		ActorID: actor.ID,
		Payload: payload,
	})
	return nil
}

// payPA debits the menu cost of a sub-action against the active action card.
// Used both by the generic descriptor path and by the dedicated commands that
// map to menu entries.
func (e *Engine) payPA(actor *player.Player, sub player.SubActionName) *Error {
	st := e.state
	if st.ActiveActionCard == "" {
		return failf(FailIllegalTarget, "no active action card")
	}
	tmpl := player.Templates[st.ActiveActionCard]
	base, ok := tmpl.Menu[sub]
	if !ok {
		return failf(FailIllegalTarget, "%s is not on the %s menu", sub, st.ActiveActionCard)
	}
	cost := rules.SubActionCost(actor.Institute, st.ActiveActionCard, sub, base)
	if st.RemainingActionPoints < cost {
		return failf(FailInsufficientResources,
			"%s costs %d PA, %d remaining", sub, cost, st.RemainingActionPoints)
	}
	st.RemainingActionPoints -= cost
	return nil
}

func (e *Engine) executeSubAction(actor *player.Player, cmd ExecuteSubAction) *Error {
	st := e.state
	d := cmd.Descriptor
	switch d.Name {
	case player.SubDrawCard:
		if err := e.payPA(actor, d.Name); err != nil {
			return err
		}
		payload := map[string]interface{}{"name": string(d.Name)}
		if c, ok := st.drawCard(); ok {
			actor.Hand = append(actor.Hand, c)
			payload["drawn_card_id"] = c.ID
		}
		e.emit(events.GameEvent{
			Type:    events.EventSubActionExecuted,
			ActorID: actor.ID,
			Payload: payload,
		})
		return nil

	case player.SubGainCredit:
		if err := e.payPA(actor, d.Name); err != nil {
			return err
		}
		actor.Credits += creditsPerGainAction
		e.emit(events.GameEvent{
			Type:    events.EventSubActionExecuted,
			ActorID: actor.ID,
			Payload: map[string]interface{}{
				"name":    string(d.Name),
				"credits": creditsPerGainAction,
			},
		})
		return nil

	case player.SubResearch:
		return e.assignResearcher(actor, d)
	}
	return failf(FailIllegalTarget, "sub-action %q has a dedicated command", d.Name)
}

// assignResearcher puts a scientist to work on an in-progress research,
// opening a run of pending hex placements sized by the scientist's seniority
// plus any institute field bonus.
func (e *Engine) assignResearcher(actor *player.Player, d SubActionDescriptor) *Error {
	st := e.state
	ar := actor.ActiveResearchByCardID(d.ResearchID)
	if ar == nil {
		return failf(FailIllegalTarget, "no active research %q", d.ResearchID)
	}
	sci := actor.ScientistByID(d.ScientistID)
	if sci == nil {
		return failf(FailIllegalTarget, "no scientist %q on the roster", d.ScientistID)
	}
	if st.PendingHexPlacements > 0 {
		return failf(FailIllegalTarget, "finish the pending hex placements first")
	}
	if err := e.payPA(actor, player.SubResearch); err != nil {
		return err
	}

	pending := sci.HexBonus + rules.FieldBonusHex(actor.Institute, ar.Card.Field)
	st.PendingHexPlacements = pending
	st.CurrentResearchForHex = ar.Card.ID
	st.ResearchSelectionMode = true

	e.emit(events.GameEvent{
		Type:    events.EventSubActionExecuted,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"name":         string(player.SubResearch),
			"research_id":  ar.Card.ID,
			"scientist_id": sci.ID,
			"placements":   pending,
		},
	})
	return nil
}

func (e *Engine) endAction(actor *player.Player) *Error {
	st := e.state
	if st.ActiveActionCard == "" {
		return failf(FailWrongPhase, "no action card is active")
	}
	st.ActiveActionCard = ""
	st.RemainingActionPoints = 0
	// Unspent placements are forfeit; tokens were only debited per placement.
	st.PendingHexPlacements = 0
	st.CurrentResearchForHex = ""
	st.ResearchSelectionMode = false
	e.advanceActionTurn()
	return nil
}

func (e *Engine) passTurn(actor *player.Player) *Error {
	st := e.state
	if st.ActiveActionCard != "" {
		return failf(FailIllegalTarget, "end the active action card before passing")
	}
	bonus := rules.PassBonus(len(actor.Hand))
	actor.Credits += bonus
	actor.HasPassed = true
	e.emit(events.GameEvent{
		Type:    events.EventTurnPassed,
		ActorID: actor.ID,
		Payload: map[string]interface{}{"bonus": bonus},
	})
	e.advanceActionTurn()
	return nil
}

package engine

import (
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

// grantCommands and actionCommands form the phase admission table. Upkeep
// admits nothing: it runs as a single uninterruptible transition.
var grantCommands = map[CommandKind]bool{
	KindTakeGrant:      true,
	KindTakeSubvention: true,
}

var actionCommands = map[CommandKind]bool{
	KindPlayActionCard:     true,
	KindExecuteSubAction:   true,
	KindEndAction:          true,
	KindPassTurn:           true,
	KindUseIntrigue:        true,
	KindUseOpportunity:     true,
	KindRequestJoin:        true,
	KindApproveJoin:        true,
	KindRejectJoin:         true,
	KindContribute:         true,
	KindFoundConsortium:    true,
	KindCompleteConsortium: true,
	KindPlaceHex:           true,
	KindCancelHexPlacement: true,
	KindStartResearch:      true,
	KindHireScientist:      true,
	KindPublish:            true,
}

func phaseAdmits(phase Phase, kind CommandKind) bool {
	switch phase {
	case PhaseGrants:
		return grantCommands[kind]
	case PhaseActions:
		return actionCommands[kind]
	}
	return false
}

func (e *Engine) emitRoundStarted() {
	e.emit(events.GameEvent{
		Type: events.EventRoundStarted,
		Payload: map[string]interface{}{
			"round":      e.state.Round,
			"max_rounds": e.state.Scenario.MaxRounds,
		},
	})
}

func (e *Engine) emitPhaseChanged(from, to Phase) {
	e.emit(events.GameEvent{
		Type: events.EventPhaseChanged,
		Payload: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	})
}

// beginGrantsPhase seats the first player still owed a grant decision,
// consuming skip-grant penalties along the way. If everyone is served the
// round goes straight to actions.
func (e *Engine) beginGrantsPhase() {
	st := e.state
	for i := 0; i < len(st.Players); i++ {
		p := st.Players[i]
		if st.grantServed(p.ID) {
			continue
		}
		if p.SkipNextGrant {
			p.SkipNextGrant = false
			st.markGrantServed(p.ID)
			continue
		}
		st.CurrentPlayer = i
		return
	}
	e.beginActionsPhase()
}

// advanceGrantTurn moves to the next player lacking a grant, closing the
// phase when everyone is served.
func (e *Engine) advanceGrantTurn() {
	st := e.state
	for i := 1; i <= len(st.Players); i++ {
		seat := (st.CurrentPlayer + i) % len(st.Players)
		p := st.Players[seat]
		if st.grantServed(p.ID) {
			continue
		}
		if p.SkipNextGrant {
			p.SkipNextGrant = false
			st.markGrantServed(p.ID)
			continue
		}
		st.CurrentPlayer = seat
		return
	}
	e.beginActionsPhase()
}

func (e *Engine) beginActionsPhase() {
	st := e.state
	e.emitPhaseChanged(st.CurrentPhase, PhaseActions)
	st.CurrentPhase = PhaseActions
	st.CurrentPlayer = 0
}

// advanceActionTurn yields to the next player who can still act. Players who
// have exhausted all five cards are passed automatically without a bonus.
// When nobody is left, upkeep runs.
func (e *Engine) advanceActionTurn() {
	st := e.state
	for i := 1; i <= len(st.Players); i++ {
		seat := (st.CurrentPlayer + i) % len(st.Players)
		p := st.Players[seat]
		if p.HasPassed {
			continue
		}
		if p.AllCardsUsed() {
			p.HasPassed = true
			e.emit(events.GameEvent{
				Type:    events.EventTurnPassed,
				ActorID: p.ID,
				Payload: map[string]interface{}{"exhausted": true, "bonus": 0},
			})
			continue
		}
		st.CurrentPlayer = seat
		return
	}
	e.runUpkeep()
}

// startNextRound resets the per-round state after upkeep and opens the next
// grants phase.
func (e *Engine) startNextRound() {
	st := e.state
	st.Round++
	st.GrantsServed = nil
	for _, p := range st.Players {
		for i := range p.ActionCards {
			p.ActionCards[i].UsedInRound = false
		}
		p.RoundActivityPoints = 0
		p.HasPassed = false
		p.TookSubvention = false
		p.FoundedThisRound = false
		p.CurrentGrant = nil
	}
	st.ActiveActionCard = ""
	st.RemainingActionPoints = 0
	st.PendingHexPlacements = 0
	st.CurrentResearchForHex = ""
	st.ResearchSelectionMode = false
	st.sampleMarkets(e.catalog)

	e.emitPhaseChanged(st.CurrentPhase, PhaseGrants)
	st.CurrentPhase = PhaseGrants
	e.emitRoundStarted()
	e.beginGrantsPhase()
}

// checkImmediateVictory ends the match mid-command when a player crosses a
// victory threshold.
func (e *Engine) checkImmediateVictory() {
	reason, ok := rules.CheckVictory(e.state.Players, e.state.ProjectsCompleted)
	if !ok {
		return
	}
	e.endMatch(reason)
}

// endMatch freezes the state and emits the final ranking.
func (e *Engine) endMatch(reason rules.VictoryReason) {
	st := e.state
	st.GameEnded = true
	ranking := rules.Rank(st.Players)
	e.emit(events.GameEvent{
		Type: events.EventMatchEnded,
		Payload: map[string]interface{}{
			"reason":  string(reason),
			"ranking": ranking,
			"winner":  ranking[0],
		},
	})
	e.logger.Info("Match " + st.MatchID + " ended: " + string(reason))
}

package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/hexboard"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

func (e *Engine) startResearch(actor *player.Player, cmd StartResearch) *Error {
	idx := actor.HandIndex(cmd.CardID)
	if idx < 0 || actor.Hand[idx].Kind != card.HandResearch {
		return failf(FailCardNotInHand, "no research card %q in hand", cmd.CardID)
	}
	if err := e.payPA(actor, player.SubStartResearch); err != nil {
		return err
	}

	hc := actor.RemoveHandCard(idx)
	actor.Active = append(actor.Active, &player.ActiveResearch{
		Card:   *hc.Research,
		Colour: actor.Colour,
	})
	e.emit(events.GameEvent{
		Type:    events.EventSubActionExecuted,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"name":        string(player.SubStartResearch),
			"research_id": hc.Research.ID,
			"field":       hc.Research.Field,
		},
	})
	return nil
}

func (e *Engine) placeHex(actor *player.Player, cmd PlaceHex) *Error {
	st := e.state
	ar := actor.ActiveResearchByCardID(cmd.ResearchID)
	if ar == nil {
		return failf(FailIllegalTarget, "no active research %q", cmd.ResearchID)
	}
	if st.PendingHexPlacements <= 0 || st.CurrentResearchForHex != ar.Card.ID {
		return failf(FailHexIllegal, "no pending hex placement on %s", ar.Card.Name)
	}
	if actor.HexTokens <= 0 {
		return failf(FailInsufficientResources, "no hex tokens left")
	}

	path, result, issue := ar.Card.Board.Place(cmd.Pos, ar.Path)
	if issue != "" {
		return failf(FailHexIllegal, "%s at (%d,%d)", issue, cmd.Pos.Q, cmd.Pos.R)
	}
	ar.Path = path
	actor.HexTokens--
	st.PendingHexPlacements--

	e.emit(events.GameEvent{
		Type:    events.EventHexPlaced,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"research_id": ar.Card.ID,
			"pos":         cmd.Pos,
			"placed":      len(ar.Path),
		},
	})

	if result.Bonus != nil {
		e.creditTileBonus(actor, ar.Card.ID, *result.Bonus)
	}
	if result.Completed {
		e.completeResearch(actor, ar)
		return nil
	}
	if st.PendingHexPlacements == 0 {
		st.CurrentResearchForHex = ""
		st.ResearchSelectionMode = false
	}
	return nil
}

func (e *Engine) cancelHexPlacement(actor *player.Player) *Error {
	st := e.state
	if st.PendingHexPlacements <= 0 {
		return failf(FailIllegalTarget, "no pending hex placement to cancel")
	}
	st.PendingHexPlacements = 0
	st.CurrentResearchForHex = ""
	st.ResearchSelectionMode = false
	return nil
}

// creditTileBonus pays out a bonus tile as a side-event of the placement.
func (e *Engine) creditTileBonus(actor *player.Player, researchID string, b hexboard.Bonus) {
	switch b.Kind {
	case hexboard.BonusPB:
		actor.Research += b.Amount
	case hexboard.BonusPZ:
		actor.Prestige += b.Amount
	case hexboard.BonusK:
		actor.Credits += b.Amount * 1000
	case hexboard.BonusRep:
		actor.Reputation += b.Amount
		actor.ClampReputation()
	}
	e.emit(events.GameEvent{
		Type:    events.EventBonusGranted,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"research_id": researchID,
			"bonus":       b.String(),
		},
	})
}

// completeResearch moves a finished research to the completed pile, restores
// the tokens bound in its path and pays the card rewards. The bonus reward
// pays only when the path visited every bonus tile of the board.
func (e *Engine) completeResearch(actor *player.Player, ar *player.ActiveResearch) {
	st := e.state

	restored := len(ar.Path)
	actor.HexTokens += restored
	if actor.HexTokens > player.HexTokenCapacity {
		actor.HexTokens = player.HexTokenCapacity
	}

	fullExploration := visitedAllBonuses(ar.Card.Board, ar.Path)
	actor.RemoveActiveResearch(ar.Card.ID)
	actor.Completed = append(actor.Completed, ar.Card)

	creditReward(actor, ar.Card.BasicReward)
	if fullExploration {
		creditReward(actor, ar.Card.BonusReward)
	}
	pb, credits := rules.OnCompleteResearch(actor.Institute)
	actor.Research += pb
	actor.Credits += credits
	actor.AddActivity(rules.ActivityCompletedResearch)

	st.PendingHexPlacements = 0
	st.CurrentResearchForHex = ""
	st.ResearchSelectionMode = false

	e.emit(events.GameEvent{
		Type:    events.EventResearchCompleted,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"research_id":      ar.Card.ID,
			"field":            ar.Card.Field,
			"tokens_restored":  restored,
			"full_exploration": fullExploration,
			"basic_reward":     rewardPayload(ar.Card.BasicReward),
		},
	})
	e.logger.Event("RESEARCH_COMPLETED", actor.ID, "Completed "+ar.Card.Name)
}

func visitedAllBonuses(board *hexboard.Board, path []hexboard.HexPosition) bool {
	visited := make(map[hexboard.HexPosition]bool, len(path))
	for _, p := range path {
		visited[p] = true
	}
	for _, t := range board.Tiles() {
		if t.Role == hexboard.RoleBonus && !visited[t.Pos] {
			return false
		}
	}
	return true
}

package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
)

func (e *Engine) hireScientist(actor *player.Player, cmd HireScientist) *Error {
	st := e.state

	if cmd.ScientistKind == player.KindIntern {
		if err := e.payPA(actor, player.SubHireScientist); err != nil {
			return err
		}
		intern := player.NewIntern(st.mintID("intern"), "")
		actor.Scientists = append(actor.Scientists, intern)
		actor.AddActivity(rules.ActivityHire)
		e.emit(events.GameEvent{
			Type:    events.EventScientistHired,
			ActorID: actor.ID,
			Payload: map[string]interface{}{
				"scientist_id": intern.ID,
				"kind":         string(player.KindIntern),
			},
		})
		return nil
	}

	idx := -1
	for i, def := range st.AvailableScientists {
		if def.ID == cmd.MarketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return failf(FailIllegalTarget, "scientist %q is not on the market", cmd.MarketID)
	}
	def := st.AvailableScientists[idx]
	if def.Kind != string(cmd.ScientistKind) {
		return failf(FailIllegalTarget, "%s is a %s, not a %s", def.Name, def.Kind, cmd.ScientistKind)
	}
	if err := e.payPA(actor, player.SubHireScientist); err != nil {
		return err
	}

	st.AvailableScientists = append(st.AvailableScientists[:idx], st.AvailableScientists[idx+1:]...)
	sci := &player.Scientist{
		ID:         def.ID,
		Name:       def.Name,
		Kind:       cmd.ScientistKind,
		Field:      def.Field,
		BaseSalary: def.Salary,
		HexBonus:   def.HexBonus,
		IsPaid:     true,
	}
	actor.Scientists = append(actor.Scientists, sci)
	actor.AddActivity(rules.ActivityHire)

	e.emit(events.GameEvent{
		Type:    events.EventScientistHired,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"scientist_id": sci.ID,
			"name":         sci.Name,
			"kind":         string(sci.Kind),
			"salary":       sci.BaseSalary,
		},
	})
	return nil
}

func (e *Engine) publish(actor *player.Player, cmd Publish) *Error {
	st := e.state
	var journal *card.Journal
	for i := range st.AvailableJournals {
		if st.AvailableJournals[i].ID == cmd.JournalID {
			journal = &st.AvailableJournals[i]
			break
		}
	}
	if journal == nil {
		return failf(FailIllegalTarget, "journal %q is not available", cmd.JournalID)
	}
	if actor.Research < journal.PBCost {
		return failf(FailInsufficientResources,
			"%s costs %d PB, have %d", journal.Name, journal.PBCost, actor.Research)
	}
	if actor.Reputation < journal.MinReputation {
		return failf(FailJournalRequirement,
			"%s requires reputation %d", journal.Name, journal.MinReputation)
	}
	if journal.RequiredField != "" && actor.CompletedInField(journal.RequiredField) == 0 {
		return failf(FailJournalRequirement,
			"%s requires completed research in %s", journal.Name, journal.RequiredField)
	}
	if !rules.CanPublishAtReputation(actor.Reputation, journal.PZReward) {
		return failf(FailJournalRequirement,
			"reputation %d is too low for a %d PZ journal", actor.Reputation, journal.PZReward)
	}
	if err := e.payPA(actor, player.SubPublish); err != nil {
		return err
	}

	instPZ, instRep := rules.OnPublish(actor.Institute, journal.ImpactFactor)
	earned := journal.PZReward + instPZ

	actor.Research -= journal.PBCost
	actor.Prestige += earned
	actor.Reputation += instRep
	actor.ClampReputation()
	actor.Publications++
	actor.AddActivity(rules.ActivityPublication)
	actor.PublicationHistory = append(actor.PublicationHistory, player.PublicationRecord{
		JournalID:   journal.ID,
		JournalName: journal.Name,
		Impact:      journal.ImpactFactor,
		Round:       st.Round,
		PZEarned:    earned,
	})

	e.emit(events.GameEvent{
		Type:    events.EventPublicationMade,
		ActorID: actor.ID,
		Payload: map[string]interface{}{
			"journal_id": journal.ID,
			"impact":     journal.ImpactFactor,
			"pb_cost":    journal.PBCost,
			"pz_earned":  earned,
		},
	})
	return nil
}

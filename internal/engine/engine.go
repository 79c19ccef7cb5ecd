// Package engine implements the deterministic PRINCIPIA rule system: the
// authoritative match state, the command dispatcher, the round lifecycle and
// the upkeep/scoring routine. The engine is single-writer: it processes one
// command at a time to completion, and front-ends (local UI, network peer)
// plug in through Apply/Snapshot/Events without touching the rules.
package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
	"github.com/principia-juego/server/internal/platform/metrics"
)

// Engine is the authoritative rule system for one match.
type Engine struct {
	catalog *card.Catalog
	state   *MatchState
	log     *events.Log
	logger  *logger.Logger

	// staged buffers the events of the in-flight command; they are committed
	// to the log only if the command succeeds, so observers see all or none.
	staged []events.GameEvent
}

// New builds a match from the frozen catalogue and a configuration. The
// configuration seed drives every random draw, making matches reproducible.
func New(catalog *card.Catalog, cfg MatchConfig, log *events.Log, appLogger *logger.Logger) (*Engine, error) {
	st, ferr := newMatchState(catalog, cfg)
	if ferr != nil {
		return nil, ferr
	}
	e := &Engine{
		catalog: catalog,
		state:   st,
		log:     log,
		logger:  appLogger,
	}

	for _, p := range st.Players {
		e.emit(events.GameEvent{
			Type:    events.EventPlayerJoined,
			ActorID: p.ID,
			Payload: map[string]interface{}{
				"name":      p.Name,
				"colour":    p.Colour,
				"institute": p.Institute,
			},
		})
	}
	e.emitRoundStarted()
	e.commit()
	return e, nil
}

// Events exposes the ordered event log for observers.
func (e *Engine) Events() *events.Log {
	return e.log
}

// Snapshot returns a detached deep copy of the match state.
func (e *Engine) Snapshot() MatchSnapshot {
	return e.state.snapshot()
}

// Apply validates and executes one command. It returns nil on success or a
// typed *Error; state never changes on failure, and the command's events are
// appended to the log as one contiguous block on success.
func (e *Engine) Apply(cmd Command) error {
	if cmd == nil {
		return failf(FailUnknownCommand, "nil command")
	}
	if err := e.apply(cmd); err != nil {
		e.staged = nil
		metrics.Get().RecordCommand(false)
		e.logger.Warn("Command " + string(cmd.Kind()) + " rejected: " + err.Error())
		return err
	}

	// A command that pushes a player over an immediate victory condition
	// ends the match before the command returns.
	if !e.state.GameEnded {
		e.checkImmediateVictory()
	}
	e.commit()
	metrics.Get().RecordCommand(true)
	return nil
}

func (e *Engine) apply(cmd Command) *Error {
	st := e.state
	if st.GameEnded {
		return failf(FailMatchEnded, "the match is over")
	}
	actor := st.playerByID(cmd.ActorID())
	if actor == nil {
		return failf(FailNotActor, "unknown player %q", cmd.ActorID())
	}
	if actor != st.current() {
		return failf(FailNotActor, "it is %s's turn", st.current().Name)
	}
	if !phaseAdmits(st.CurrentPhase, cmd.Kind()) {
		return failf(FailWrongPhase, "%s is not legal during the %s phase", cmd.Kind(), st.CurrentPhase)
	}

	switch c := cmd.(type) {
	case TakeGrant:
		return e.takeGrant(actor, c)
	case TakeSubvention:
		return e.takeSubvention(actor)
	case PlayActionCard:
		return e.playActionCard(actor, c)
	case ExecuteSubAction:
		return e.executeSubAction(actor, c)
	case EndAction:
		return e.endAction(actor)
	case PassTurn:
		return e.passTurn(actor)
	case UseIntrigue:
		return e.useIntrigue(actor, c)
	case UseOpportunity:
		return e.useOpportunity(actor, c)
	case RequestJoin:
		return e.requestJoin(actor, c)
	case ApproveJoin:
		return e.approveJoin(actor, c)
	case RejectJoin:
		return e.rejectJoin(actor, c)
	case Contribute:
		return e.contribute(actor, c)
	case FoundConsortium:
		return e.foundConsortium(actor, c)
	case CompleteConsortium:
		return e.completeConsortium(actor, c)
	case PlaceHex:
		return e.placeHex(actor, c)
	case CancelHexPlacement:
		return e.cancelHexPlacement(actor)
	case StartResearch:
		return e.startResearch(actor, c)
	case HireScientist:
		return e.hireScientist(actor, c)
	case Publish:
		return e.publish(actor, c)
	}
	return failf(FailUnknownCommand, "unhandled command kind %q", cmd.Kind())
}

// emit stages an event for the in-flight command, stamping round and phase.
func (e *Engine) emit(ev events.GameEvent) {
	ev.Round = e.state.Round
	ev.Phase = string(e.state.CurrentPhase)
	e.staged = append(e.staged, ev)
}

// commit flushes staged events into the log as one block.
func (e *Engine) commit() {
	if len(e.staged) == 0 {
		return
	}
	batch := e.log.AppendBatch(e.staged)
	e.staged = nil
	metrics.Get().RecordEvents(int64(len(batch)))
}

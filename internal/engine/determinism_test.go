package engine

import (
	"bytes"
	"testing"

	"github.com/principia-juego/server/internal/domain/hexboard"
	"github.com/principia-juego/server/internal/domain/player"
	"github.com/principia-juego/server/internal/domain/rules"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
)

func TestVictoryByPrestigeFreezesState(t *testing.T) {
	e := newTestEngine(t, 42)
	finishGrantsPhase(t, e)
	st := e.state
	actor := st.current()
	actor.Institute = rules.InstituteCERN
	actor.Prestige = rules.VictoryPrestige - 1

	// A bonus tile pushes the actor over the line mid-command.
	rigActiveResearch(e, actor, "quantum-loop", 2)
	if err := e.Apply(PlaceHex{
		Base: NewBase(actor.ID), ResearchID: "quantum-loop",
		Pos: hexboard.HexPosition{Q: 0, R: 0},
	}); err != nil {
		t.Fatalf("place_hex failed: %v", err)
	}
	if err := e.Apply(PlaceHex{
		Base: NewBase(actor.ID), ResearchID: "quantum-loop",
		Pos: hexboard.HexPosition{Q: 0, R: 1},
	}); err != nil {
		t.Fatalf("place_hex onto the bonus tile failed: %v", err)
	}

	if !st.GameEnded {
		t.Fatalf("The match should end the moment prestige reaches %d", rules.VictoryPrestige)
	}
	ev := lastEvent(t, e, events.EventMatchEnded)
	payload := ev.Payload.(map[string]interface{})
	if payload["reason"] != string(rules.ReasonPrestige) {
		t.Errorf("Expected prestige reason, got %v", payload["reason"])
	}
	if payload["winner"] != actor.ID {
		t.Errorf("Expected %s to win, got %v", actor.Name, payload["winner"])
	}

	// Every later command is refused.
	err := e.Apply(EndAction{NewBase(actor.ID)})
	if failKind(t, err) != FailMatchEnded {
		t.Errorf("Expected match_ended, got %v", err)
	}
}

func TestSameSeedAndCommandsProduceByteEqualLogs(t *testing.T) {
	catalogA, catalogB := testCatalog(t), testCatalog(t)
	cfg := testConfig(1337)

	a, err := New(catalogA, cfg, events.NewLog(nil), logger.NewLogger())
	if err != nil {
		t.Fatalf("Failed to build engine A: %v", err)
	}
	b, err := New(catalogB, cfg, events.NewLog(nil), logger.NewLogger())
	if err != nil {
		t.Fatalf("Failed to build engine B: %v", err)
	}

	// Script a round on A, then replay the identical commands on B.
	var script []Command
	script = append(script, finishGrantsPhase(t, a)...)

	first := a.state.current().ID
	turn := []Command{
		PlayActionCard{Base: NewBase(first), Slot: player.CardManage},
		ExecuteSubAction{Base: NewBase(first), Descriptor: SubActionDescriptor{Name: player.SubDrawCard}},
		EndAction{NewBase(first)},
	}
	for _, cmd := range turn {
		if err := a.Apply(cmd); err != nil {
			t.Fatalf("Scripted command failed on A: %v", err)
		}
	}
	script = append(script, turn...)
	script = append(script, passActionsPhase(t, a)...)

	for i, cmd := range script {
		if err := b.Apply(cmd); err != nil {
			t.Fatalf("Replayed command %d failed on B: %v", i, err)
		}
	}

	logA, err := a.Events().Canonical()
	if err != nil {
		t.Fatalf("Canonical A failed: %v", err)
	}
	logB, err := b.Events().Canonical()
	if err != nil {
		t.Fatalf("Canonical B failed: %v", err)
	}
	if !bytes.Equal(logA, logB) {
		t.Fatalf("Event logs diverge:\nA: %s\nB: %s", logA, logB)
	}
	if a.state.Round != 2 || b.state.Round != 2 {
		t.Errorf("Both engines should sit in round 2")
	}
}

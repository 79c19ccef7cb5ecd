package events

import "testing"

func seededLog() *Log {
	l := NewLog(nil)
	l.Append(GameEvent{Type: EventRoundStarted, Round: 1, Phase: "grants"})
	l.Append(GameEvent{Type: EventGrantTaken, ActorID: "p1", Round: 1, Phase: "grants"})
	l.Append(GameEvent{Type: EventTurnPassed, ActorID: "p2", Round: 1, Phase: "actions"})
	l.Append(GameEvent{Type: EventRoundStarted, Round: 2, Phase: "grants"})
	l.Append(GameEvent{Type: EventGrantTaken, ActorID: "p1", Round: 2, Phase: "grants"})
	return l
}

func TestAppendAssignsContiguousSeqs(t *testing.T) {
	l := seededLog()
	if l.Len() != 5 {
		t.Fatalf("Expected 5 events, got %d", l.Len())
	}
	for i, e := range l.Replay() {
		if e.Seq != int64(i)+1 {
			t.Errorf("Event %d has seq %d", i, e.Seq)
		}
	}
}

func TestSinceReturnsTailAfterCursor(t *testing.T) {
	l := seededLog()
	tail := l.Since(3)
	if len(tail) != 2 || tail[0].Seq != 4 {
		t.Fatalf("Expected events 4..5, got %+v", tail)
	}
	if l.Since(5) != nil {
		t.Errorf("A caught-up cursor should return nil")
	}
}

func TestGetByRoundFiltersTheHistory(t *testing.T) {
	l := seededLog()
	round2 := l.GetByRound(2)
	if len(round2) != 2 {
		t.Fatalf("Expected 2 round-2 events, got %d", len(round2))
	}
	for _, e := range round2 {
		if e.Round != 2 {
			t.Errorf("Round filter leaked event %+v", e)
		}
	}
	if len(l.GetByRound(9)) != 0 {
		t.Errorf("An unplayed round should filter to nothing")
	}
}

func TestGetByActorFiltersTheHistory(t *testing.T) {
	l := seededLog()
	mine := l.GetByActor("p1")
	if len(mine) != 2 {
		t.Fatalf("Expected 2 events for p1, got %d", len(mine))
	}
	for _, e := range mine {
		if e.ActorID != "p1" {
			t.Errorf("Actor filter leaked event %+v", e)
		}
	}
}

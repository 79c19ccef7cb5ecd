package storage

import (
	"context"
	"testing"

	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
)

func TestPersisterTranslatesEventToRecord(t *testing.T) {
	arch := &memArchive{}
	p := NewArchivePersister(arch, "m1", logger.NewLogger())

	err := p.Append(events.GameEvent{
		Seq: 7, Type: events.EventHexPlaced, ActorID: "p1",
		Round: 2, Phase: "actions",
		Payload: map[string]interface{}{"research_id": "quantum-loop"},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	recs, _ := arch.GetByMatchID(context.Background(), "m1")
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Seq != 7 || rec.EventType != "hex_placed" || rec.Round != 2 {
		t.Errorf("Record fields out of sync: %+v", rec)
	}
	if rec.Payload["research_id"] != "quantum-loop" {
		t.Errorf("Payload did not survive the translation: %v", rec.Payload)
	}
	if rec.StoredAt.IsZero() {
		t.Errorf("The archive side should stamp stored_at")
	}
}

func TestPersisterArchivesBadPayloadAsNull(t *testing.T) {
	arch := &memArchive{}
	p := NewArchivePersister(arch, "m1", logger.NewLogger())

	// A channel is not JSON-serializable; the event must still archive.
	err := p.Append(events.GameEvent{
		Seq: 1, Type: events.EventCardPlayed, ActorID: "p1",
		Round: 1, Phase: "actions",
		Payload: map[string]interface{}{"bad": make(chan int)},
	})
	if err != nil {
		t.Fatalf("A bad payload must not drop the event: %v", err)
	}

	recs, _ := arch.GetByMatchID(context.Background(), "m1")
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	if recs[0].Payload != nil {
		t.Errorf("Unserializable payload should archive as null, got %v", recs[0].Payload)
	}
	if recs[0].EventType != "card_played" || recs[0].ActorID != "p1" {
		t.Errorf("The envelope fields must survive a payload failure: %+v", recs[0])
	}
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/platform/logger"
	"github.com/principia-juego/server/internal/platform/metrics"
)

// ArchivePersister adapts an EventArchive to the events.Persister interface
// the in-memory log writes through. The stored_at stamp is added here, on
// the archive side, so the deterministic log itself stays clock-free.
type ArchivePersister struct {
	archive EventArchive
	matchID string
	logger  *logger.Logger
}

// NewArchivePersister wires an archive behind the event log.
func NewArchivePersister(archive EventArchive, matchID string, log *logger.Logger) *ArchivePersister {
	return &ArchivePersister{archive: archive, matchID: matchID, logger: log}
}

// Append translates a domain event into an archive record and stores it.
// A payload that cannot round-trip through JSON is archived as null rather
// than losing the whole event; either way the failure is logged.
func (p *ArchivePersister) Append(event events.GameEvent) error {
	var payloadMap map[string]interface{}
	if event.Payload != nil {
		payloadBytes, err := json.Marshal(event.Payload)
		if err != nil {
			p.logger.Warn(fmt.Sprintf("Event %d payload not serializable, archiving without it: %v", event.Seq, err))
		} else if err := json.Unmarshal(payloadBytes, &payloadMap); err != nil {
			p.logger.Warn(fmt.Sprintf("Event %d payload not a JSON object, archiving without it: %v", event.Seq, err))
			payloadMap = nil
		}
	}

	record := EventRecord{
		Seq:       event.Seq,
		MatchID:   p.matchID,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Round:     event.Round,
		Phase:     event.Phase,
		Payload:   payloadMap,
		StoredAt:  time.Now(),
	}

	start := time.Now()
	err := p.archive.Append(context.Background(), record)
	metrics.Get().RecordArchiveWrite(time.Since(start), err)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("Archive write for event %d failed: %v", event.Seq, err))
	}
	return err
}

var _ events.Persister = (*ArchivePersister)(nil)

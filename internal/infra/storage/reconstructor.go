// Package storage - reconstructor.go
// Post-game reporting built on the event archive: per-player tallies and a
// human-readable recap. Nothing here feeds back into the engine; the archive
// is read-only input.
package storage

import (
	"context"
	"fmt"
)

// Reconstructor derives match reports from the archived event stream.
type Reconstructor struct {
	archive EventArchive
}

// NewReconstructor creates a new report builder over an archive.
func NewReconstructor(archive EventArchive) *Reconstructor {
	return &Reconstructor{archive: archive}
}

// PlayerTally aggregates one player's archived activity.
type PlayerTally struct {
	PlayerID             string `json:"player_id"`
	ActionsPlayed        int    `json:"actions_played"`
	HexesPlaced          int    `json:"hexes_placed"`
	ResearchCompleted    int    `json:"research_completed"`
	Publications         int    `json:"publications"`
	ConsortiumsFounded   int    `json:"consortiums_founded"`
	ConsortiumsCompleted int    `json:"consortiums_completed"`
	GrantsWon            int    `json:"grants_won"`
	SalaryDefaults       int    `json:"salary_defaults"`
}

// RecapEvent is one line of the human-readable match recap.
type RecapEvent struct {
	Seq       int64  `json:"seq"`
	Round     int    `json:"round"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"`
}

// Tallies rebuilds per-player aggregates from the archive.
func (r *Reconstructor) Tallies(ctx context.Context, matchID string) (map[string]*PlayerTally, error) {
	records, err := r.archive.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	tallies := make(map[string]*PlayerTally)
	tally := func(playerID string) *PlayerTally {
		t, ok := tallies[playerID]
		if !ok {
			t = &PlayerTally{PlayerID: playerID}
			tallies[playerID] = t
		}
		return t
	}

	for _, e := range records {
		switch e.EventType {
		case "action_played":
			tally(e.ActorID).ActionsPlayed++
		case "hex_placed":
			tally(e.ActorID).HexesPlaced++
		case "research_completed":
			tally(e.ActorID).ResearchCompleted++
		case "publication_made":
			tally(e.ActorID).Publications++
		case "consortium_founded":
			tally(e.ActorID).ConsortiumsFounded++
		case "consortium_completed":
			tally(e.ActorID).ConsortiumsCompleted++
		case "grant_resolved":
			if success, ok := e.Payload["success"].(bool); ok && success {
				tally(e.ActorID).GrantsWon++
			}
		case "salary_defaulted":
			tally(e.ActorID).SalaryDefaults++
		}
	}
	return tallies, nil
}

// Recap builds the chronological recap for one player from a given round
// onwards. Events where the player was neither actor nor target are skipped.
func (r *Reconstructor) Recap(ctx context.Context, matchID, playerID string, sinceRound int) ([]RecapEvent, error) {
	records, err := r.archive.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var recap []RecapEvent
	for _, e := range records {
		if e.Round < sinceRound {
			continue
		}
		if e.ActorID != playerID && e.TargetID != playerID && !isGlobalEvent(e.EventType) {
			continue
		}
		recap = append(recap, RecapEvent{
			Seq:       e.Seq,
			Round:     e.Round,
			EventType: e.EventType,
			Summary:   summarize(e, playerID),
		})
	}
	return recap, nil
}

// isGlobalEvent reports whether an event concerns the whole table.
func isGlobalEvent(eventType string) bool {
	switch eventType {
	case "round_started", "phase_changed", "crisis_revealed", "match_ended":
		return true
	}
	return false
}

// summarize creates a human-readable line for the recap screen.
func summarize(e EventRecord, observerID string) string {
	switch e.EventType {
	case "round_started":
		return fmt.Sprintf("Round %d began.", e.Round)
	case "crisis_revealed":
		if name, ok := e.Payload["name"].(string); ok {
			return "Crisis struck the institutes: " + name
		}
		return "A crisis struck the institutes."
	case "research_completed":
		if e.ActorID == observerID {
			return "You completed a research project."
		}
		return "Another institute completed a research project."
	case "publication_made":
		if e.ActorID == observerID {
			return "Your paper was published."
		}
		return "A rival paper was published."
	case "grant_resolved":
		success, _ := e.Payload["success"].(bool)
		if e.ActorID != observerID {
			return "A rival's grant was evaluated."
		}
		if success {
			return "Your grant goal was met and the reward paid out."
		}
		return "Your grant goal was missed."
	case "salary_defaulted":
		if e.ActorID == observerID {
			return "You could not pay salaries; your reputation suffered."
		}
		return "A rival institute defaulted on salaries."
	case "match_ended":
		if winner, ok := e.Payload["winner"].(string); ok && winner == observerID {
			return "The match ended. You won."
		}
		return "The match ended."
	default:
		return "Something happened at the table."
	}
}

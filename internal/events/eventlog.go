// Package events provides the ordered append-only event log the engine
// writes and presenters/peers consume. Events carry no wall-clock data:
// ordering is the log sequence number, which is what makes two engines fed
// the same seed and commands produce byte-equal logs.
package events

import (
	"bytes"
	"encoding/json"
	"sync"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventPlayerJoined          EventType = "player_joined"
	EventRoundStarted          EventType = "round_started"
	EventPhaseChanged          EventType = "phase_changed"
	EventGrantTaken            EventType = "grant_taken"
	EventActionPlayed          EventType = "action_played"
	EventSubActionExecuted     EventType = "sub_action_executed"
	EventHexPlaced             EventType = "hex_placed"
	EventBonusGranted          EventType = "bonus_granted"
	EventResearchCompleted     EventType = "research_completed"
	EventScientistHired        EventType = "scientist_hired"
	EventPublicationMade       EventType = "publication_made"
	EventConsortiumFounded     EventType = "consortium_founded"
	EventConsortiumJoinRequest EventType = "consortium_join_requested"
	EventConsortiumJoinApprove EventType = "consortium_join_approved"
	EventConsortiumJoinReject  EventType = "consortium_join_rejected"
	EventConsortiumContributed EventType = "consortium_contributed"
	EventConsortiumCompleted   EventType = "consortium_completed"
	EventCrisisRevealed        EventType = "crisis_revealed"
	EventSalaryPaid            EventType = "salary_paid"
	EventSalaryDefaulted       EventType = "salary_defaulted"
	EventGrantResolved         EventType = "grant_resolved"
	EventMatchEnded            EventType = "match_ended"
	EventTurnPassed            EventType = "turn_passed"
	EventCardPlayed            EventType = "card_played" // intrigue/opportunity
)

// GameEvent is an immutable record of something that happened in a match.
type GameEvent struct {
	Seq      int64       `json:"seq"`
	Type     EventType   `json:"type"`
	ActorID  string      `json:"actor_id"`
	TargetID string      `json:"target_id,omitempty"`
	Round    int         `json:"round"`
	Phase    string      `json:"phase"`
	Payload  interface{} `json:"payload,omitempty"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event GameEvent) error
}

// Log is the in-memory append-only log of game events.
type Log struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister Persister
}

// NewLog creates a new event log with an optional persister.
func NewLog(persister Persister) *Log {
	return &Log{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds one event, assigning its sequence number.
func (l *Log) Append(event GameEvent) GameEvent {
	l.mu.Lock()
	event.Seq = int64(len(l.events)) + 1
	l.events = append(l.events, event)
	l.mu.Unlock()

	if l.persister != nil {
		// Write through; archival failures never block the engine.
		go func(e GameEvent) {
			_ = l.persister.Append(e)
		}(event)
	}
	return event
}

// AppendBatch adds the events of one command as a contiguous block, so an
// observer sees either all of them or none.
func (l *Log) AppendBatch(batch []GameEvent) []GameEvent {
	l.mu.Lock()
	out := make([]GameEvent, len(batch))
	for i, event := range batch {
		event.Seq = int64(len(l.events)) + 1
		l.events = append(l.events, event)
		out[i] = event
	}
	l.mu.Unlock()

	if l.persister != nil {
		go func(es []GameEvent) {
			for _, e := range es {
				_ = l.persister.Append(e)
			}
		}(out)
	}
	return out
}

// Len returns the current log length.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Replay returns the full history of events.
func (l *Log) Replay() []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns events with Seq greater than the cursor. Observers poll
// with their last seen sequence number.
func (l *Log) Since(seq int64) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq >= int64(len(l.events)) {
		return nil
	}
	out := make([]GameEvent, int64(len(l.events))-seq)
	copy(out, l.events[seq:])
	return out
}

// GetByActor returns all events performed by a specific actor.
func (l *Log) GetByActor(actorID string) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByRound returns all events from a specific round.
func (l *Log) GetByRound(round int) []GameEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Round == round {
			result = append(result, e)
		}
	}
	return result
}

// Canonical serializes the log as JSON lines. Two matches are replays of
// each other iff their canonical forms are byte-equal.
func (l *Log) Canonical() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range l.events {
		if err := enc.Encode(e); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

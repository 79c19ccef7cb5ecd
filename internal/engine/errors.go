package engine

import "fmt"

// FailureKind is the typed taxonomy of command failures. Protocol kinds mean
// the caller broke the conversation; semantic kinds mean a rule refused the
// move. The engine never recovers an error: the command simply did not happen.
type FailureKind string

const (
	// Protocol errors (caller bug)
	FailWrongPhase     FailureKind = "wrong_phase"
	FailNotActor       FailureKind = "not_actor"
	FailMatchEnded     FailureKind = "match_ended"
	FailUnknownCommand FailureKind = "unknown_command"

	// Semantic errors (rule violation)
	FailInsufficientResources FailureKind = "insufficient_resources"
	FailIllegalTarget         FailureKind = "illegal_target"
	FailCardNotInHand         FailureKind = "card_not_in_hand"
	FailGrantRequirement      FailureKind = "grant_requirement_unmet"
	FailJournalRequirement    FailureKind = "journal_requirement_unmet"
	FailConsortiumRequirement FailureKind = "consortium_requirement_unmet"
	FailHexIllegal            FailureKind = "hex_illegal"
)

// Error is the typed result every mutation returns on failure.
type Error struct {
	Kind   FailureKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func failf(kind FailureKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

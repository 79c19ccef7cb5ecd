package engine

import (
	"github.com/principia-juego/server/internal/domain/hexboard"
	"github.com/principia-juego/server/internal/domain/player"
)

// CommandKind discriminates the command variant.
type CommandKind string

const (
	// grants phase
	KindTakeGrant      CommandKind = "take_grant"
	KindTakeSubvention CommandKind = "take_subvention"

	// actions phase
	KindPlayActionCard     CommandKind = "play_action_card"
	KindExecuteSubAction   CommandKind = "execute_sub_action"
	KindEndAction          CommandKind = "end_action"
	KindPassTurn           CommandKind = "pass_turn"
	KindUseIntrigue        CommandKind = "use_intrigue_card"
	KindUseOpportunity     CommandKind = "use_opportunity_card"
	KindRequestJoin        CommandKind = "request_consortium_join"
	KindApproveJoin        CommandKind = "approve_join"
	KindRejectJoin         CommandKind = "reject_join"
	KindContribute         CommandKind = "contribute_to_consortium"
	KindFoundConsortium    CommandKind = "found_consortium"
	KindCompleteConsortium CommandKind = "complete_consortium"
	KindPlaceHex           CommandKind = "place_hex"
	KindCancelHexPlacement CommandKind = "cancel_hex_placement"
	KindStartResearch      CommandKind = "start_research"
	KindHireScientist      CommandKind = "hire_scientist"
	KindPublish            CommandKind = "publish"
)

// Command is the typed request every mutation enters through. Every variant
// carries the acting player's id.
type Command interface {
	Kind() CommandKind
	ActorID() string
}

// Base carries the acting player id common to every command variant.
type Base struct {
	Actor string `json:"actor_id"`
}

func (b Base) ActorID() string { return b.Actor }

// TakeGrant claims a listed grant during the grants phase.
type TakeGrant struct {
	Base
	GrantID string `json:"grant_id"`
}

func (TakeGrant) Kind() CommandKind { return KindTakeGrant }

// TakeSubvention declines the listed grants for the fallback subvention.
// Only offered when no listed grant is eligible for the actor.
type TakeSubvention struct{ Base }

func (TakeSubvention) Kind() CommandKind { return KindTakeSubvention }

// PlayActionCard activates one of the five role templates.
type PlayActionCard struct {
	Base
	Slot player.ActionCardKind `json:"slot"`
}

func (PlayActionCard) Kind() CommandKind { return KindPlayActionCard }

// SubActionDescriptor parameterizes a generic menu sub-action.
type SubActionDescriptor struct {
	Name        player.SubActionName `json:"name"`
	ResearchID  string               `json:"research_id,omitempty"`
	ScientistID string               `json:"scientist_id,omitempty"`
}

// ExecuteSubAction runs a paid menu entry of the active action card.
type ExecuteSubAction struct {
	Base
	Descriptor SubActionDescriptor `json:"descriptor"`
}

func (ExecuteSubAction) Kind() CommandKind { return KindExecuteSubAction }

// EndAction closes the active action card and yields the turn.
type EndAction struct{ Base }

func (EndAction) Kind() CommandKind { return KindEndAction }

// PassTurn passes for the rest of the round, crediting the pass bonus.
type PassTurn struct{ Base }

func (PassTurn) Kind() CommandKind { return KindPassTurn }

// UseIntrigue plays an intrigue card from hand, optionally against a target.
type UseIntrigue struct {
	Base
	CardID   string `json:"card_id"`
	TargetID string `json:"target_id,omitempty"`
}

func (UseIntrigue) Kind() CommandKind { return KindUseIntrigue }

// UseOpportunity plays an opportunity card from hand.
type UseOpportunity struct {
	Base
	CardID string `json:"card_id"`
}

func (UseOpportunity) Kind() CommandKind { return KindUseOpportunity }

// RequestJoin applies for membership in a founded consortium.
type RequestJoin struct {
	Base
	ProjectID string `json:"project_id"`
}

func (RequestJoin) Kind() CommandKind { return KindRequestJoin }

// ApproveJoin lets the director accept an applicant.
type ApproveJoin struct {
	Base
	ProjectID   string `json:"project_id"`
	ApplicantID string `json:"applicant_id"`
}

func (ApproveJoin) Kind() CommandKind { return KindApproveJoin }

// RejectJoin lets the director turn an applicant away.
type RejectJoin struct {
	Base
	ProjectID   string `json:"project_id"`
	ApplicantID string `json:"applicant_id"`
}

func (RejectJoin) Kind() CommandKind { return KindRejectJoin }

// ContributionKind selects what a consortium contribution pays in.
type ContributionKind string

const (
	ContributePB      ContributionKind = "pb"
	ContributeCredits ContributionKind = "credits"
)

// Contribute moves PB or credits from the actor into a consortium pool.
type Contribute struct {
	Base
	ProjectID string           `json:"project_id"`
	What      ContributionKind `json:"kind"`
	Amount    int              `json:"amount"`
}

func (Contribute) Kind() CommandKind { return KindContribute }

// FoundConsortium consumes a charter card to direct a large project.
type FoundConsortium struct {
	Base
	ProjectID string `json:"project_id"`
}

func (FoundConsortium) Kind() CommandKind { return KindFoundConsortium }

// CompleteConsortium asks the engine to verify thresholds and pay out.
type CompleteConsortium struct {
	Base
	ProjectID string `json:"project_id"`
}

func (CompleteConsortium) Kind() CommandKind { return KindCompleteConsortium }

// PlaceHex places one hex token on an in-progress research board.
type PlaceHex struct {
	Base
	ResearchID string               `json:"research_id"`
	Pos        hexboard.HexPosition `json:"pos"`
}

func (PlaceHex) Kind() CommandKind { return KindPlaceHex }

// CancelHexPlacement abandons the remaining pending placements.
type CancelHexPlacement struct{ Base }

func (CancelHexPlacement) Kind() CommandKind { return KindCancelHexPlacement }

// StartResearch moves a research card from hand into active research.
type StartResearch struct {
	Base
	CardID string `json:"card_id"`
}

func (StartResearch) Kind() CommandKind { return KindStartResearch }

// HireScientist hires an intern, or a listed doctor/professor by market id.
type HireScientist struct {
	Base
	ScientistKind player.ScientistKind `json:"scientist_kind"`
	MarketID      string               `json:"market_id,omitempty"`
}

func (HireScientist) Kind() CommandKind { return KindHireScientist }

// Publish submits to a listed journal.
type Publish struct {
	Base
	JournalID string `json:"journal_id"`
}

func (Publish) Kind() CommandKind { return KindPublish }

// NewBase builds the embedded actor field; used by transports that construct
// commands from wire envelopes.
func NewBase(actorID string) Base {
	return Base{Actor: actorID}
}

package card

// TargetType selects who an effect applies to.
type TargetType string

const (
	TargetSelf      TargetType = "self"
	TargetOpponent  TargetType = "opponent" // the explicit target of the play
	TargetAll       TargetType = "all"
	TargetAllOthers TargetType = "all_others"
)

// Operation is the mutation an effect performs on its parameter.
type Operation string

const (
	OpAdd Operation = "add"
	OpSub Operation = "sub"
	OpSet Operation = "set"
)

// Parameter names a mutable player quantity.
type Parameter string

const (
	ParamCredits    Parameter = "credits"
	ParamPB         Parameter = "pb"
	ParamPZ         Parameter = "pz"
	ParamReputation Parameter = "reputation"
	ParamHexTokens  Parameter = "hex_tokens"
)

// SpecialType marks effects the interpreter handles outside the plain
// parameter arithmetic.
type SpecialType string

const (
	SpecialNone           SpecialType = ""
	SpecialStealScientist SpecialType = "steal_scientist"
	SpecialSkipGrant      SpecialType = "skip_grant" // target gets no grant next round
)

// Effect is one structured record of the card effect DSL. Cards are data,
// not code: the engine interprets these records as a small effect VM.
// Duration > 1 registers a per-player timed effect processed at upkeep.
type Effect struct {
	Target    TargetType  `json:"target"`
	Parameter Parameter   `json:"parameter"`
	Operation Operation   `json:"operation"`
	Value     int         `json:"value"`
	Special   SpecialType `json:"special,omitempty"`
	Duration  int         `json:"duration"` // rounds; 0 or 1 = immediate only
	Condition string      `json:"condition,omitempty"`
}

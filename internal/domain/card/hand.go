package card

// HandKind discriminates the heterogeneous hand variant.
type HandKind string

const (
	HandResearch    HandKind = "research"
	HandConsortium  HandKind = "consortium" // a consortium charter
	HandIntrigue    HandKind = "intrigue"
	HandOpportunity HandKind = "opportunity"
)

// HandCard is the tagged variant held in a player's hand. Exactly one of the
// payload fields matching Kind is set; the payloads are value copies of the
// catalogue definitions, never shared pointers.
type HandCard struct {
	ID          string           `json:"id"`
	Kind        HandKind         `json:"kind"`
	Research    *ResearchCard    `json:"research,omitempty"`
	Intrigue    *IntrigueCard    `json:"intrigue,omitempty"`
	Opportunity *OpportunityCard `json:"opportunity,omitempty"`
}

// NewResearchHandCard deep-copies a research definition into a hand card.
func NewResearchHandCard(id string, def ResearchCard) HandCard {
	copy := def
	return HandCard{ID: id, Kind: HandResearch, Research: &copy}
}

// NewConsortiumHandCard mints a consortium charter card.
func NewConsortiumHandCard(id string) HandCard {
	return HandCard{ID: id, Kind: HandConsortium}
}

// NewIntrigueHandCard deep-copies an intrigue definition into a hand card.
func NewIntrigueHandCard(id string, def IntrigueCard) HandCard {
	copy := def
	copy.Effects = append([]Effect(nil), def.Effects...)
	return HandCard{ID: id, Kind: HandIntrigue, Intrigue: &copy}
}

// NewOpportunityHandCard deep-copies an opportunity definition into a hand card.
func NewOpportunityHandCard(id string, def OpportunityCard) HandCard {
	copy := def
	copy.Effects = append([]Effect(nil), def.Effects...)
	return HandCard{ID: id, Kind: HandOpportunity, Opportunity: &copy}
}

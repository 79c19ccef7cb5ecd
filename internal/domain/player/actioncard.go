package player

// ActionCardKind identifies one of the five fixed role templates every
// player holds. A template is playable once per round.
type ActionCardKind string

const (
	CardLeadResearch ActionCardKind = "lead_research"
	CardHire         ActionCardKind = "hire"
	CardPublish      ActionCardKind = "publish"
	CardFund         ActionCardKind = "fund"
	CardManage       ActionCardKind = "manage"
)

// AllActionCards lists the five templates in slot order.
var AllActionCards = [5]ActionCardKind{
	CardLeadResearch, CardHire, CardPublish, CardFund, CardManage,
}

// SubActionName names a paid sub-action on an action card menu. Names
// matching command kinds are executed through their command; the rest go
// through the generic execute_sub_action descriptor.
type SubActionName string

const (
	SubStartResearch SubActionName = "start_research"
	SubResearch      SubActionName = "research" // assign a scientist, granting hex placements
	SubHireScientist SubActionName = "hire_scientist"
	SubPublish       SubActionName = "publish"
	SubFoundProject  SubActionName = "found_consortium"
	SubContribute    SubActionName = "contribute_to_consortium"
	SubDrawCard      SubActionName = "draw_card"
	SubGainCredit    SubActionName = "gain_credit"
)

// BasicAction is the free effect executed immediately when a card is played.
type BasicAction string

const (
	BasicGainPB     BasicAction = "gain_pb"      // +1 PB
	BasicHireIntern BasicAction = "hire_intern"  // add a free intern
	BasicGainCredit BasicAction = "gain_credit"  // +2K
	BasicDrawCard   BasicAction = "draw_card"    // draw from the main deck
)

// ActionCardTemplate is the static definition of one role template.
type ActionCardTemplate struct {
	Kind   ActionCardKind
	Budget int // PA granted on play
	Basic  BasicAction
	Menu   map[SubActionName]int // sub-action -> PA cost
}

// Templates is the fixed table of the five role templates.
var Templates = map[ActionCardKind]ActionCardTemplate{
	CardLeadResearch: {
		Kind:   CardLeadResearch,
		Budget: 3,
		Basic:  BasicGainPB,
		Menu: map[SubActionName]int{
			SubStartResearch: 1,
			SubResearch:      1,
		},
	},
	CardHire: {
		Kind:   CardHire,
		Budget: 2,
		Basic:  BasicHireIntern,
		Menu: map[SubActionName]int{
			SubHireScientist: 1,
		},
	},
	CardPublish: {
		Kind:   CardPublish,
		Budget: 2,
		Basic:  BasicGainPB,
		Menu: map[SubActionName]int{
			SubPublish: 2,
		},
	},
	CardFund: {
		Kind:   CardFund,
		Budget: 3,
		Basic:  BasicGainCredit,
		Menu: map[SubActionName]int{
			SubFoundProject: 2,
			SubContribute:   1,
		},
	},
	CardManage: {
		Kind:   CardManage,
		Budget: 2,
		Basic:  BasicDrawCard,
		Menu: map[SubActionName]int{
			SubDrawCard:   1,
			SubGainCredit: 1,
		},
	},
}

// ActionCardSlot is the per-player, per-round state of one template.
type ActionCardSlot struct {
	Kind        ActionCardKind `json:"kind"`
	UsedInRound bool           `json:"used_in_round"`
}

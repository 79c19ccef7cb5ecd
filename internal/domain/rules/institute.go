package rules

import "github.com/principia-juego/server/internal/domain/player"

// Institute IDs as they appear in the catalogue. Institute-specific rule
// overrides live exclusively in this table; no institute name appears in
// engine code outside it.
const (
	InstituteMIT       = "mit"
	InstituteStanford  = "stanford"
	InstituteMaxPlanck = "maxplanck"
	InstituteCambridge = "cambridge"
	InstituteHarvard   = "harvard"
	InstituteCERN      = "cern"
)

// InstituteIDs lists the playable institutes in catalogue order.
var InstituteIDs = []string{
	InstituteMIT, InstituteStanford, InstituteMaxPlanck,
	InstituteCambridge, InstituteHarvard, InstituteCERN,
}

// BaseOverloadThreshold is the employee count above which salaries incur the
// overload surcharge, before institute modifiers.
const BaseOverloadThreshold = 3

// FieldBonusHex returns extra hex placements when researching the field.
func FieldBonusHex(institute, field string) int {
	if field == "physics" && (institute == InstituteMIT || institute == InstituteStanford) {
		return 1
	}
	return 0
}

// OnCompleteResearch returns the (pb, credits) bonus for finishing a research.
func OnCompleteResearch(institute string) (pb, credits int) {
	switch institute {
	case InstituteMaxPlanck:
		return 1, 0
	case InstituteCambridge:
		return 0, 2000
	}
	return 0, 0
}

// OnPublish returns the (pz, reputation) bonus applied to a publication in a
// journal with the given impact factor.
func OnPublish(institute string, impactFactor int) (pz, reputation int) {
	switch institute {
	case InstituteCambridge:
		return 1, 0
	case InstituteHarvard:
		if impactFactor >= 6 {
			return 0, 1
		}
	}
	return 0, 0
}

// OpportunityGainFactor scales resource gains from opportunity cards.
func OpportunityGainFactor(institute string) int {
	if institute == InstituteStanford {
		return 2
	}
	return 1
}

// SubActionCost adjusts a sub-action's PA cost for the institute. The only
// override is the consortium discount on the FUND card.
func SubActionCost(institute string, cardKind player.ActionCardKind, sub player.SubActionName, base int) int {
	if institute == InstituteCERN && cardKind == player.CardFund &&
		(sub == player.SubFoundProject || sub == player.SubContribute) {
		if base > 0 {
			return base - 1
		}
	}
	return base
}

// OverloadThreshold returns the institute's employee overload threshold.
func OverloadThreshold(institute string) int {
	if institute == InstituteMIT || institute == InstituteHarvard {
		return BaseOverloadThreshold + 1
	}
	return BaseOverloadThreshold
}

// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "github.com/principia-juego/server/internal/domain/player"

// Activity point scores per action kind, credited to round_activity_points.
const (
	ActivityHire              = 2
	ActivityPublication       = 3
	ActivityCompletedResearch = 4
	ActivityConsortiumFound   = 5
)

// SubventionThreshold is the round activity needed for a subvention payout.
const SubventionThreshold = 6

// SubventionReward is the subvention payout in credits.
const SubventionReward = 10000

// OverloadPenalty is the per-scientist surcharge above the overload threshold.
const OverloadPenalty = 1000

// PassBonus returns the credit bonus for passing with the given hand size.
// Hands larger than five score nothing, same as a full hand.
func PassBonus(handSize int) int {
	switch {
	case handSize >= 5:
		return 0
	case handSize == 4:
		return 1000
	case handSize == 3:
		return 3000
	case handSize == 2:
		return 5000
	default: // 0 or 1
		return 8000
	}
}

// SalaryOwed sums base salaries of non-intern scientists plus the overload
// surcharge for every non-intern above the threshold.
func SalaryOwed(scientists []*player.Scientist, overloadThreshold int) int {
	owed := 0
	nonInterns := 0
	for _, s := range scientists {
		if s.Kind == player.KindIntern {
			continue
		}
		nonInterns++
		owed += s.BaseSalary
	}
	if nonInterns > overloadThreshold {
		owed += (nonInterns - overloadThreshold) * OverloadPenalty
	}
	return owed
}

// CanPublishAtReputation applies the global publication gates: reputation 1
// forbids journals paying 4+ PZ, reputation 2 forbids 6+ PZ.
func CanPublishAtReputation(reputation, pzReward int) bool {
	if reputation <= 1 && pzReward >= 4 {
		return false
	}
	if reputation == 2 && pzReward >= 6 {
		return false
	}
	return true
}

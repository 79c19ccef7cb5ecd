package rules

import (
	"sort"

	"github.com/principia-juego/server/internal/domain/player"
)

// Victory thresholds.
const (
	VictoryPrestige          = 35
	VictoryCompletedResearch = 6
	VictoryProjectsCompleted = 3
)

// VictoryReason names the condition that ended the match.
type VictoryReason string

const (
	ReasonPrestige      VictoryReason = "prestige"
	ReasonResearch      VictoryReason = "completed_research"
	ReasonProjects      VictoryReason = "projects_completed"
	ReasonRoundsElapsed VictoryReason = "max_rounds"
)

// CheckVictory returns the first satisfied immediate condition, if any.
// The max-rounds condition is time-driven and evaluated by the caller.
func CheckVictory(players []*player.Player, projectsCompleted int) (VictoryReason, bool) {
	for _, p := range players {
		if p.Prestige >= VictoryPrestige {
			return ReasonPrestige, true
		}
		if len(p.Completed) >= VictoryCompletedResearch {
			return ReasonResearch, true
		}
	}
	if projectsCompleted >= VictoryProjectsCompleted {
		return ReasonProjects, true
	}
	return "", false
}

// Rank orders player ids by prestige, then completed research, then
// publications. Seat order breaks remaining ties so rankings are stable.
func Rank(players []*player.Player) []string {
	idx := make([]int, len(players))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := players[idx[a]], players[idx[b]]
		if pa.Prestige != pb.Prestige {
			return pa.Prestige > pb.Prestige
		}
		if len(pa.Completed) != len(pb.Completed) {
			return len(pa.Completed) > len(pb.Completed)
		}
		return pa.Publications > pb.Publications
	})
	out := make([]string, len(players))
	for i, j := range idx {
		out[i] = players[j].ID
	}
	return out
}

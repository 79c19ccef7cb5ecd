package engine

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/player"
)

// creditReward applies a parsed reward bundle to a player. Reputation is
// clamped; the other parameters are plain counters.
func creditReward(p *player.Player, r card.Reward) {
	p.Credits += r.Credits
	p.Prestige += r.PZ
	p.Research += r.PB
	p.Reputation += r.Reputation
	p.ClampReputation()
}

// rewardPayload flattens a reward into an event payload, omitting zero parts.
func rewardPayload(r card.Reward) map[string]interface{} {
	out := map[string]interface{}{}
	if r.Credits != 0 {
		out["credits"] = r.Credits
	}
	if r.PZ != 0 {
		out["pz"] = r.PZ
	}
	if r.PB != 0 {
		out["pb"] = r.PB
	}
	if r.Reputation != 0 {
		out["reputation"] = r.Reputation
	}
	return out
}

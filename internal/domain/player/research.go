package player

import (
	"github.com/principia-juego/server/internal/domain/card"
	"github.com/principia-juego/server/internal/domain/hexboard"
)

// ActiveResearch is a research card in progress: the owning player's colour
// and the ordered path of placed hexes. It moves to completed_research when
// the path reaches the board's end tile.
type ActiveResearch struct {
	Card   card.ResearchCard     `json:"card"`
	Colour string                `json:"colour"`
	Path   []hexboard.HexPosition `json:"path"`
}

// HexesPlaced is derived from the path length.
func (ar *ActiveResearch) HexesPlaced() int {
	return len(ar.Path)
}

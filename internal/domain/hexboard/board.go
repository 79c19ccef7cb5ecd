package hexboard

import "fmt"

// TileRole classifies a tile on a research board.
type TileRole string

const (
	RoleStart  TileRole = "start"
	RoleNormal TileRole = "normal"
	RoleBonus  TileRole = "bonus"
	RoleEnd    TileRole = "end"
)

// BonusKind identifies the resource a bonus tile pays out.
type BonusKind string

const (
	BonusPB  BonusKind = "PB"  // research points
	BonusPZ  BonusKind = "PZ"  // prestige points
	BonusK   BonusKind = "K"   // credits, in thousands
	BonusRep BonusKind = "Rep" // reputation
)

// Bonus is the payload of a bonus tile, e.g. +1PZ or +2K.
type Bonus struct {
	Amount int       `json:"amount"`
	Kind   BonusKind `json:"kind"`
}

func (b Bonus) String() string {
	return fmt.Sprintf("%+d%s", b.Amount, b.Kind)
}

// HexTile is a single tile of a research board.
type HexTile struct {
	Pos   HexPosition `json:"pos"`
	Role  TileRole    `json:"role"`
	Bonus *Bonus      `json:"bonus,omitempty"`
}

// Board is the immutable hex graph of one research card. Players own the
// paths they trace over it; the board itself holds no per-match state.
type Board struct {
	Start HexPosition
	tiles map[HexPosition]*HexTile
}

// PlaceIssue classifies why a placement is illegal.
type PlaceIssue string

const (
	IssueIllegalPosition PlaceIssue = "illegal_position"
	IssueNonAdjacent     PlaceIssue = "non_adjacent"
	IssueAlreadyOccupied PlaceIssue = "already_occupied"
)

// PlacementResult describes the outcome of a legal placement.
type PlacementResult struct {
	Bonus     *Bonus // non-nil iff the tile is a bonus tile
	Completed bool   // true iff the tile is an end tile
}

// Tile returns the tile at pos, or nil.
func (b *Board) Tile(pos HexPosition) *HexTile {
	return b.tiles[pos]
}

// Tiles returns all tiles of the board.
func (b *Board) Tiles() []*HexTile {
	out := make([]*HexTile, 0, len(b.tiles))
	for _, t := range b.tiles {
		out = append(out, t)
	}
	return out
}

// CanPlace checks placement legality for the given path. The path is a simple
// walk: the first hex must land on the start tile, every later hex must be
// axial-adjacent to the last one, and no tile is ever revisited.
func (b *Board) CanPlace(pos HexPosition, path []HexPosition) (PlaceIssue, bool) {
	if _, ok := b.tiles[pos]; !ok {
		return IssueIllegalPosition, false
	}
	for _, p := range path {
		if p == pos {
			return IssueAlreadyOccupied, false
		}
	}
	if len(path) == 0 {
		if pos != b.Start {
			return IssueNonAdjacent, false
		}
		return "", true
	}
	if !Adjacent(path[len(path)-1], pos) {
		return IssueNonAdjacent, false
	}
	return "", true
}

// Place appends pos to path and reports the tile outcome. The returned slice
// is the extended path; callers own it. Completion fires only on an end tile:
// reaching the terminal hex of a bonus dead-end never completes the research.
func (b *Board) Place(pos HexPosition, path []HexPosition) ([]HexPosition, PlacementResult, PlaceIssue) {
	if issue, ok := b.CanPlace(pos, path); !ok {
		return path, PlacementResult{}, issue
	}
	tile := b.tiles[pos]
	result := PlacementResult{
		Completed: tile.Role == RoleEnd,
	}
	if tile.Role == RoleBonus {
		bonus := *tile.Bonus
		result.Bonus = &bonus
	}
	return append(path, pos), result, ""
}

// Package hexboard implements the per-research-card hex graph: axial
// coordinates, map-string parsing, adjacency, and placement legality.
// This package is PURE and must NOT import any infrastructure packages.
package hexboard

// HexPosition is an axial hex coordinate. The third cube coordinate s is
// derived: s = -q - r.
type HexPosition struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexPosition) S() int {
	return -h.Q - h.R
}

// neighborDirections defines the six neighbor offsets in axial coordinates.
var neighborDirections = [6]HexPosition{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexPosition) Neighbors() [6]HexPosition {
	var result [6]HexPosition
	for i, dir := range neighborDirections {
		result[i] = HexPosition{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Adjacent reports whether two positions share an edge.
func Adjacent(a, b HexPosition) bool {
	for _, dir := range neighborDirections {
		if b.Q == a.Q+dir.Q && b.R == a.R+dir.R {
			return true
		}
	}
	return false
}

// Distance returns the hex distance between two coordinates using the cube
// coordinate maximum norm.
func Distance(a, b HexPosition) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

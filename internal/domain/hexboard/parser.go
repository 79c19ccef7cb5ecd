package hexboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedMap is the sentinel for every map-string parse failure.
var ErrMalformedMap = errors.New("malformed_hex_map")

// ParseMap builds a Board from a research card map string:
//
//	START(q,r)->[p1->p2->...->END(q,r) | b1->...->BONUS(payload) | ...]
//
// The first branch is the main path and must terminate in END. Every later
// branch is a dead-end and must terminate in BONUS(payload), attached to the
// branch's last coordinate. Successive coordinates must be axial-adjacent,
// a branch must fork off a tile that already exists, and no coordinate may
// repeat. Whitespace is tolerated everywhere.
func ParseMap(src string) (*Board, error) {
	s := strings.Join(strings.Fields(src), "")
	if !strings.HasPrefix(s, "START(") {
		return nil, fmt.Errorf("%w: missing START head", ErrMalformedMap)
	}
	if strings.Count(s, "START(") > 1 {
		return nil, fmt.Errorf("%w: duplicate START", ErrMalformedMap)
	}

	rest := s[len("START"):]
	start, rest, err := parseCoord(rest)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(rest, "->[") || !strings.HasSuffix(rest, "]") {
		return nil, fmt.Errorf("%w: expected ->[...] after START", ErrMalformedMap)
	}
	body := rest[len("->[") : len(rest)-1]

	board := &Board{
		Start: start,
		tiles: map[HexPosition]*HexTile{
			start: {Pos: start, Role: RoleStart},
		},
	}

	branches := splitBranches(body)
	if len(branches) == 0 {
		return nil, fmt.Errorf("%w: empty branch list", ErrMalformedMap)
	}
	for i, branch := range branches {
		if err := board.parseBranch(branch, i == 0); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// splitBranches splits the bracket body on top-level '|' separators.
func splitBranches(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "|")
}

// parseBranch walks one branch, adding its tiles to the board. main selects
// between END-terminated main paths and BONUS-terminated dead-ends.
func (b *Board) parseBranch(branch string, main bool) error {
	prev := b.Start
	placedAny := false
	terminated := false

	for _, item := range strings.Split(branch, "->") {
		if terminated {
			return fmt.Errorf("%w: tokens after branch terminator", ErrMalformedMap)
		}
		switch {
		case strings.HasPrefix(item, "BONUS("):
			if main {
				return fmt.Errorf("%w: BONUS on main path", ErrMalformedMap)
			}
			if !placedAny {
				return fmt.Errorf("%w: BONUS with no preceding coordinate", ErrMalformedMap)
			}
			payload, err := parsePayload(item)
			if err != nil {
				return err
			}
			tile := b.tiles[prev]
			tile.Role = RoleBonus
			tile.Bonus = payload
			terminated = true

		case strings.HasPrefix(item, "END("):
			if !main {
				return fmt.Errorf("%w: END on dead-end branch", ErrMalformedMap)
			}
			pos, rest, err := parseCoord(item[len("END"):])
			if err != nil {
				return err
			}
			if rest != "" {
				return fmt.Errorf("%w: trailing input after END", ErrMalformedMap)
			}
			if err := b.addTile(pos, prev, RoleEnd, placedAny); err != nil {
				return err
			}
			terminated = true

		case strings.HasPrefix(item, "("):
			pos, rest, err := parseCoord(item)
			if err != nil {
				return err
			}
			if rest != "" {
				return fmt.Errorf("%w: trailing input after coordinate", ErrMalformedMap)
			}
			if err := b.addTile(pos, prev, RoleNormal, placedAny); err != nil {
				return err
			}
			prev = pos
			placedAny = true

		default:
			return fmt.Errorf("%w: unexpected token %q", ErrMalformedMap, item)
		}
	}

	if !terminated {
		if main {
			return fmt.Errorf("%w: main path lacks END terminator", ErrMalformedMap)
		}
		return fmt.Errorf("%w: dead-end branch lacks BONUS terminator", ErrMalformedMap)
	}
	return nil
}

// addTile validates adjacency and uniqueness, then registers the tile.
// A branch's first tile may attach to any existing tile, not just prev.
func (b *Board) addTile(pos, prev HexPosition, role TileRole, midBranch bool) error {
	if _, exists := b.tiles[pos]; exists {
		return fmt.Errorf("%w: coordinate (%d,%d) repeated", ErrMalformedMap, pos.Q, pos.R)
	}
	if midBranch {
		if !Adjacent(prev, pos) {
			return fmt.Errorf("%w: (%d,%d) not adjacent to (%d,%d)", ErrMalformedMap, pos.Q, pos.R, prev.Q, prev.R)
		}
	} else {
		attached := false
		for existing := range b.tiles {
			if Adjacent(existing, pos) {
				attached = true
				break
			}
		}
		if !attached {
			return fmt.Errorf("%w: branch head (%d,%d) attaches to nothing", ErrMalformedMap, pos.Q, pos.R)
		}
	}
	b.tiles[pos] = &HexTile{Pos: pos, Role: role}
	return nil
}

// parseCoord consumes a leading "(q,r)" and returns the remainder.
func parseCoord(s string) (HexPosition, string, error) {
	if !strings.HasPrefix(s, "(") {
		return HexPosition{}, "", fmt.Errorf("%w: expected coordinate, got %q", ErrMalformedMap, s)
	}
	close := strings.Index(s, ")")
	if close < 0 {
		return HexPosition{}, "", fmt.Errorf("%w: unclosed coordinate", ErrMalformedMap)
	}
	parts := strings.Split(s[1:close], ",")
	if len(parts) != 2 {
		return HexPosition{}, "", fmt.Errorf("%w: coordinate needs q,r", ErrMalformedMap)
	}
	q, err := strconv.Atoi(parts[0])
	if err != nil {
		return HexPosition{}, "", fmt.Errorf("%w: bad q %q", ErrMalformedMap, parts[0])
	}
	r, err := strconv.Atoi(parts[1])
	if err != nil {
		return HexPosition{}, "", fmt.Errorf("%w: bad r %q", ErrMalformedMap, parts[1])
	}
	return HexPosition{Q: q, R: r}, s[close+1:], nil
}

// parsePayload parses "BONUS([+-]<int><kind>)".
func parsePayload(s string) (*Bonus, error) {
	if !strings.HasPrefix(s, "BONUS(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("%w: bad BONUS token %q", ErrMalformedMap, s)
	}
	return ParseBonus(s[len("BONUS(") : len(s)-1])
}

// ParseBonus parses a bonus payload like "+1PZ", "+2K", "-1Rep".
func ParseBonus(s string) (*Bonus, error) {
	if len(s) < 3 {
		return nil, fmt.Errorf("%w: bonus payload %q too short", ErrMalformedMap, s)
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("%w: bonus payload %q lacks sign", ErrMalformedMap, s)
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return nil, fmt.Errorf("%w: bonus payload %q lacks amount", ErrMalformedMap, s)
	}
	amount, err := strconv.Atoi(s[1:i])
	if err != nil {
		return nil, fmt.Errorf("%w: bonus payload %q", ErrMalformedMap, s)
	}
	kind := BonusKind(s[i:])
	switch kind {
	case BonusPB, BonusPZ, BonusK, BonusRep:
	default:
		return nil, fmt.Errorf("%w: unknown bonus kind %q", ErrMalformedMap, s[i:])
	}
	return &Bonus{Amount: sign * amount, Kind: kind}, nil
}

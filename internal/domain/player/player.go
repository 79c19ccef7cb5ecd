// Package player defines the per-player match state: resources, roster,
// research in flight, hand, and the five action-card slots.
// This package is PURE and must NOT import any infrastructure packages.
package player

import "github.com/principia-juego/server/internal/domain/card"

// HexTokenCapacity is the per-player hex token pool.
const HexTokenCapacity = 20

// MaxReputation is the reputation clamp ceiling (floor is 0).
const MaxReputation = 5

// PublicationRecord is an immutable snapshot appended to the publication
// history when a publish succeeds.
type PublicationRecord struct {
	JournalID   string `json:"journal_id"`
	JournalName string `json:"journal_name"`
	Impact      int    `json:"impact"`
	Round       int    `json:"round"`
	PZEarned    int    `json:"pz_earned"`
}

// GrantState is a grant held for the current round.
type GrantState struct {
	Grant     card.Grant `json:"grant"`
	Completed bool       `json:"completed"`
}

// TimedEffect is a card effect with Duration > 1, re-applied at each upkeep
// until it expires.
type TimedEffect struct {
	SourceCard string      `json:"source_card"`
	Effect     card.Effect `json:"effect"`
	Remaining  int         `json:"remaining"`
}

// Player is one competing research institute's mutable match state.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Colour    string `json:"colour"`
	Institute string `json:"institute"` // catalogue institute id, fixed at match creation

	// Resources
	Credits    int `json:"credits"` // >= 0, 1K = 1000
	Prestige   int `json:"prestige"`
	Research   int `json:"research_points"` // PB
	Reputation int `json:"reputation"`      // clamped 0..5
	HexTokens  int `json:"hex_tokens"`      // 0..20

	// Collections
	Scientists         []*Scientist        `json:"scientists"`
	Active             []*ActiveResearch   `json:"active_research"`
	Completed          []card.ResearchCard `json:"completed_research"`
	Hand               []card.HandCard     `json:"hand"`
	PublicationHistory []PublicationRecord `json:"publication_history"`
	CurrentGrant       *GrantState         `json:"current_grant,omitempty"`
	ActionCards        [5]ActionCardSlot   `json:"action_cards"`
	TimedEffects       []TimedEffect       `json:"timed_effects,omitempty"`

	// Counters
	Publications        int  `json:"publications"`
	ActivityPoints      int  `json:"activity_points"`       // lifetime
	RoundActivityPoints int  `json:"round_activity_points"` // reset each round
	HasPassed           bool `json:"has_passed"`
	TookSubvention      bool `json:"took_subvention"`
	FoundedConsortium   bool `json:"founded_consortium"`       // lifetime flag
	FoundedThisRound    bool `json:"founded_consortium_round"` // for grant goals
	SkipNextGrant       bool `json:"skip_next_grant"`
}

// New creates a player with starting resources and the five action slots.
func New(id, name, colour, institute string) *Player {
	p := &Player{
		ID:         id,
		Name:       name,
		Colour:     colour,
		Institute:  institute,
		Credits:    20000,
		Reputation: 3,
		HexTokens:  HexTokenCapacity,
	}
	for i, kind := range AllActionCards {
		p.ActionCards[i] = ActionCardSlot{Kind: kind}
	}
	return p
}

// ClampReputation keeps reputation inside [0, MaxReputation].
func (p *Player) ClampReputation() {
	if p.Reputation < 0 {
		p.Reputation = 0
	}
	if p.Reputation > MaxReputation {
		p.Reputation = MaxReputation
	}
}

// Slot returns the action-card slot for the kind, or nil.
func (p *Player) Slot(kind ActionCardKind) *ActionCardSlot {
	for i := range p.ActionCards {
		if p.ActionCards[i].Kind == kind {
			return &p.ActionCards[i]
		}
	}
	return nil
}

// AllCardsUsed reports whether every action card has been played this round.
func (p *Player) AllCardsUsed() bool {
	for i := range p.ActionCards {
		if !p.ActionCards[i].UsedInRound {
			return false
		}
	}
	return true
}

// HandIndex finds a hand card by id, or -1.
func (p *Player) HandIndex(cardID string) int {
	for i := range p.Hand {
		if p.Hand[i].ID == cardID {
			return i
		}
	}
	return -1
}

// RemoveHandCard removes and returns the hand card at index i.
func (p *Player) RemoveHandCard(i int) card.HandCard {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}

// FirstHandOfKind finds the first hand card of the kind, or -1.
func (p *Player) FirstHandOfKind(kind card.HandKind) int {
	for i := range p.Hand {
		if p.Hand[i].Kind == kind {
			return i
		}
	}
	return -1
}

// ActiveResearchByCardID resolves an in-progress research, or nil.
func (p *Player) ActiveResearchByCardID(cardID string) *ActiveResearch {
	for _, ar := range p.Active {
		if ar.Card.ID == cardID {
			return ar
		}
	}
	return nil
}

// RemoveActiveResearch drops an in-progress research from the list.
func (p *Player) RemoveActiveResearch(cardID string) {
	for i, ar := range p.Active {
		if ar.Card.ID == cardID {
			p.Active = append(p.Active[:i], p.Active[i+1:]...)
			return
		}
	}
}

// HasProfessor reports whether the roster includes a professor.
func (p *Player) HasProfessor() bool {
	for _, s := range p.Scientists {
		if s.Kind == KindProfessor {
			return true
		}
	}
	return false
}

// CompletedInField counts completed research cards in a field.
func (p *Player) CompletedInField(field string) int {
	n := 0
	for _, c := range p.Completed {
		if c.Field == field {
			n++
		}
	}
	return n
}

// ScientistByID resolves a roster member, or nil.
func (p *Player) ScientistByID(id string) *Scientist {
	for _, s := range p.Scientists {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// RemoveScientist drops a roster member and returns it, or nil.
func (p *Player) RemoveScientist(id string) *Scientist {
	for i, s := range p.Scientists {
		if s.ID == id {
			p.Scientists = append(p.Scientists[:i], p.Scientists[i+1:]...)
			return s
		}
	}
	return nil
}

// AddActivity credits both the lifetime and round activity counters.
func (p *Player) AddActivity(points int) {
	p.ActivityPoints += points
	p.RoundActivityPoints += points
}

package player

// ScientistKind classifies employees by seniority.
type ScientistKind string

const (
	KindIntern    ScientistKind = "intern"
	KindDoctor    ScientistKind = "doctor"
	KindProfessor ScientistKind = "professor"
)

// HexBonusFor returns the hexes a scientist of the kind works per assignment.
func HexBonusFor(kind ScientistKind) int {
	switch kind {
	case KindIntern:
		return 1
	case KindDoctor:
		return 2
	case KindProfessor:
		return 3
	}
	return 0
}

// Scientist is an employed researcher. A scientist appears in at most one
// player's roster; card effects may move one between rosters but never
// duplicate it.
type Scientist struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Kind       ScientistKind `json:"kind"`
	Field      string        `json:"field"`
	BaseSalary int           `json:"base_salary"` // raw credits; 0 for interns
	HexBonus   int           `json:"hex_bonus"`
	IsPaid     bool          `json:"is_paid"`
}

// NewIntern creates an unpaid intern. Interns draw no salary and work one hex.
func NewIntern(id, field string) *Scientist {
	return &Scientist{
		ID:       id,
		Name:     "Intern",
		Kind:     KindIntern,
		Field:    field,
		HexBonus: HexBonusFor(KindIntern),
		IsPaid:   true,
	}
}

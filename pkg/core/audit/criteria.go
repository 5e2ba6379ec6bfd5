package audit

// Violation represents a broken rule in the roster
type Violation struct {
	SlotIndex     int    `json:"-"`
	ShiftID       string `json:"shift_id"`
	GuardID       string `json:"guard_id"`
	CriterionName string `json:"criterion"`
	Description   string `json:"description"`
}

// Criterion defines the interface for roster rules.
// Rules are checked over the whole roster and against a single prospective assignment.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// Allows reports whether holder may take slot given what they already hold
	Allows(state *State, holder *Holder, slot *Slot) bool

	// Validate checks the roster and returns the violations found
	Validate(state *State) []Violation
}

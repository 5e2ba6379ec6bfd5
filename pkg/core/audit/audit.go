package audit

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

const (
	restrictionRule = "Restriction"
	sameDayRule     = "SameDay"
)

// Config contains the roster and rules to check
type Config struct {
	// Criteria to check on top of the built-in restriction and same day rules
	Criteria []Criterion

	// Guards of the roster. Guards without settings for PopulationType are ignored.
	Guards []model.Guard

	// PopulationType selects the settings whose restrictions are used
	PopulationType model.PopulationType

	// Shifts to check. Synthetic shifts are ignored.
	Shifts []model.Shift
}

// Report is the result of checking a roster
type Report struct {
	State *State `json:"-"`

	// Violations in slot order, built-in rules first
	Violations []Violation `json:"violations"`

	// Unfilled contains the shifts without an assignee
	Unfilled []model.Shift `json:"unfilled"`
}

// Run checks every assignment in the roster against the built-in rules and the criteria
func Run(config Config) (*Report, error) {
	state, err := newState(config)
	if err != nil {
		return nil, err
	}

	report := &Report{State: state, Violations: []Violation{}, Unfilled: []model.Shift{}}
	for _, slot := range state.Slots {
		if slot.Holder == nil {
			if !slot.Shift.IsFilled() {
				report.Unfilled = append(report.Unfilled, slot.Shift)
			}
			continue
		}
		report.Violations = append(report.Violations, builtinViolations(state, slot.Holder, slot, true)...)
	}

	var fromCriteria []Violation
	for _, c := range config.Criteria {
		fromCriteria = append(fromCriteria, c.Validate(state)...)
	}
	slices.SortStableFunc(fromCriteria, func(a, b Violation) int {
		return cmp.Compare(a.SlotIndex, b.SlotIndex)
	})
	report.Violations = append(report.Violations, fromCriteria...)
	return report, nil
}

// CheckAssignment returns the rules assigning guardID to shiftID would break. The shift's
// current assignee, if any, is replaced.
func CheckAssignment(config Config, shiftID, guardID string) ([]Violation, error) {
	state, err := newState(config)
	if err != nil {
		return nil, err
	}

	slot := state.Slot(shiftID)
	if slot == nil {
		return nil, fmt.Errorf("shift %s is not part of the roster", shiftID)
	}
	holder := state.Holder(guardID)
	if holder == nil {
		return nil, fmt.Errorf("guard %s has no %q settings", guardID, config.PopulationType)
	}
	state.release(slot)

	violations := builtinViolations(state, holder, slot, false)
	for _, c := range config.Criteria {
		if !c.Allows(state, holder, slot) {
			violations = append(violations, Violation{
				SlotIndex:     slot.Index,
				ShiftID:       slot.Shift.ID,
				GuardID:       guardID,
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%s would break %s", holder.Guard.Name, c.Name()),
			})
		}
	}
	return violations, nil
}

// builtinViolations applies the rules every roster follows: no shift on a restricted day and
// no two shifts on one day. With onlyLater, a same day pair is reported once, on its later slot.
func builtinViolations(state *State, holder *Holder, slot *Slot, onlyLater bool) []Violation {
	var violations []Violation
	if holder.IsRestricted(slot.Shift.Date) {
		violations = append(violations, Violation{
			SlotIndex:     slot.Index,
			ShiftID:       slot.Shift.ID,
			GuardID:       holder.Guard.ID,
			CriterionName: restrictionRule,
			Description:   fmt.Sprintf("%s declared %s unavailable", holder.Guard.Name, slot.Shift.Date),
		})
	}
	for _, other := range holder.HeldOnDay(state, slot) {
		if onlyLater && other.Index > slot.Index {
			continue
		}
		violations = append(violations, Violation{
			SlotIndex:     slot.Index,
			ShiftID:       slot.Shift.ID,
			GuardID:       holder.Guard.ID,
			CriterionName: sameDayRule,
			Description:   fmt.Sprintf("%s also holds shift %s on %s", holder.Guard.Name, other.Shift.ID, slot.Shift.Date),
		})
	}
	return violations
}

func newState(config Config) (*State, error) {
	if config.PopulationType == "" {
		return nil, fmt.Errorf("population type is required")
	}

	state := &State{}
	for i := range config.Guards {
		guard := &config.Guards[i]
		settings := guard.SettingsFor(config.PopulationType)
		if settings == nil {
			continue
		}
		holder := &Holder{Guard: guard, restricted: make(map[string]bool, len(settings.Restrictions))}
		for _, r := range settings.Restrictions {
			holder.restricted[r.Date.Key()] = true
		}
		state.Holders = append(state.Holders, holder)
	}

	shifts := slices.DeleteFunc(slices.Clone(config.Shifts), func(s model.Shift) bool { return s.IsSynthetic() })
	slices.SortStableFunc(shifts, func(a, b model.Shift) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})

	for i, s := range shifts {
		slot := &Slot{Shift: s, Index: i}
		state.Slots = append(state.Slots, slot)
		// A dangling assignee id leaves the slot without a holder
		if holder := state.Holder(s.AssignedUserID); s.IsFilled() && holder != nil {
			slot.Holder = holder
			holder.SlotIndices = append(holder.SlotIndices, i)
		}
	}
	return state, nil
}

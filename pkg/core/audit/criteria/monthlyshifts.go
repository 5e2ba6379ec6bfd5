package criteria

import (
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
)

// MonthlyShiftsCriterion caps the shifts a guard holds in one calendar month among those
// selected by a query.
//
// Allows:
//   - Returns false if the slot matches the query and the holder already has max matching
//     shifts in the slot's month
type MonthlyShiftsCriterion struct {
	max   int
	query *ShiftQuery
}

// NewMonthlyShiftsCriterion creates a MonthlyShiftsCriterion. A nil query counts every shift.
func NewMonthlyShiftsCriterion(max int, query *ShiftQuery) *MonthlyShiftsCriterion {
	return &MonthlyShiftsCriterion{max: max, query: query}
}

func (c *MonthlyShiftsCriterion) Name() string {
	return "MonthlyShifts"
}

func (c *MonthlyShiftsCriterion) Allows(state *audit.State, holder *audit.Holder, slot *audit.Slot) bool {
	if !c.query.Matches(slot.Shift) {
		return true
	}
	return c.countInMonth(state, holder, slot) < c.max
}

func (c *MonthlyShiftsCriterion) Validate(state *audit.State) []audit.Violation {
	var violations []audit.Violation
	for _, holder := range state.Holders {
		counts := make(map[string]int)
		for _, i := range holder.SlotIndices {
			slot := state.Slots[i]
			if !c.query.Matches(slot.Shift) {
				continue
			}
			month := slot.Shift.Date.Format("2006-01")
			counts[month]++
			if counts[month] == c.max+1 {
				violations = append(violations, audit.Violation{
					SlotIndex:     slot.Index,
					ShiftID:       slot.Shift.ID,
					GuardID:       holder.Guard.ID,
					CriterionName: c.Name(),
					Description:   fmt.Sprintf("%s holds more than %d such shifts in %s", holder.Guard.Name, c.max, month),
				})
			}
		}
	}
	return violations
}

// countInMonth counts the other matching slots the holder has in the slot's month
func (c *MonthlyShiftsCriterion) countInMonth(state *audit.State, holder *audit.Holder, slot *audit.Slot) int {
	year, month, _ := slot.Shift.Date.Date()
	n := 0
	for _, i := range holder.SlotIndices {
		if i == slot.Index {
			continue
		}
		held := state.Slots[i].Shift
		y, m, _ := held.Date.Date()
		if y == year && m == month && c.query.Matches(held) {
			n++
		}
	}
	return n
}

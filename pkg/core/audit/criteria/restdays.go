package criteria

import (
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
)

// RestDaysCriterion keeps a guard's shifts apart.
//
// Allows:
//   - Returns false if the holder has another shift minDays days or fewer from the slot
type RestDaysCriterion struct {
	minDays int
}

// NewRestDaysCriterion creates a RestDaysCriterion. minDays of 1 forbids consecutive days.
func NewRestDaysCriterion(minDays int) *RestDaysCriterion {
	return &RestDaysCriterion{minDays: minDays}
}

func (c *RestDaysCriterion) Name() string {
	return "RestDays"
}

func (c *RestDaysCriterion) Allows(state *audit.State, holder *audit.Holder, slot *audit.Slot) bool {
	if c.minDays <= 0 {
		return true
	}
	distance, ok := nearestDistance(state, holder, slot)
	return !ok || distance > c.minDays
}

func (c *RestDaysCriterion) Validate(state *audit.State) []audit.Violation {
	var violations []audit.Violation
	if c.minDays <= 0 {
		return violations
	}

	for _, holder := range state.Holders {
		if len(holder.SlotIndices) < 2 {
			continue
		}
		// Each pair is reported on its later slot
		for n, i := range holder.SlotIndices[1:] {
			prev, slot := state.Slots[holder.SlotIndices[n]], state.Slots[i]
			distance := daysBetween(prev, slot)
			if distance > c.minDays {
				continue
			}
			violations = append(violations, audit.Violation{
				SlotIndex:     slot.Index,
				ShiftID:       slot.Shift.ID,
				GuardID:       holder.Guard.ID,
				CriterionName: c.Name(),
				Description: fmt.Sprintf("%s has shifts %d days apart, needs more than %d",
					holder.Guard.Name, distance, c.minDays),
			})
		}
	}
	return violations
}

// nearestDistance returns the number of days between slot and the closest other slot held by
// holder. The second return value is false when the holder has no other slot.
func nearestDistance(state *audit.State, holder *audit.Holder, slot *audit.Slot) (int, bool) {
	nearest := -1
	for _, i := range holder.SlotIndices {
		if i == slot.Index {
			continue
		}
		distance := daysBetween(state.Slots[i], slot)
		if nearest < 0 || distance < nearest {
			nearest = distance
		}
	}
	return nearest, nearest >= 0
}

func daysBetween(a, b *audit.Slot) int {
	days := signedDays(a, b)
	if days < 0 {
		return -days
	}
	return days
}

// signedDays returns the days from a to b, negative when b is earlier
func signedDays(a, b *audit.Slot) int {
	return int(b.Shift.Date.Sub(a.Shift.Date.Time).Hours() / 24)
}

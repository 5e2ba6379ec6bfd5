package criteria

import (
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
)

// SequenceCriterion forbids a guard from holding a "first" shift followed by a "second" shift
// minGap to maxGap days later, e.g. a Friday followed by the Sunday after it.
//
// Allows:
//   - Returns false if the slot completes such a pair with a shift the holder has
type SequenceCriterion struct {
	first, second  *ShiftQuery
	minGap, maxGap int
}

func NewSequenceCriterion(first, second *ShiftQuery, minGap, maxGap int) *SequenceCriterion {
	return &SequenceCriterion{first: first, second: second, minGap: minGap, maxGap: maxGap}
}

func (c *SequenceCriterion) Name() string {
	return "Sequence"
}

func (c *SequenceCriterion) Allows(state *audit.State, holder *audit.Holder, slot *audit.Slot) bool {
	isFirst := c.first.Matches(slot.Shift)
	isSecond := c.second.Matches(slot.Shift)
	if !isFirst && !isSecond {
		return true
	}

	for _, i := range holder.SlotIndices {
		held := state.Slots[i]
		if i == slot.Index {
			continue
		}
		if isFirst && c.second.Matches(held.Shift) && c.inGap(slot, held) {
			return false
		}
		if isSecond && c.first.Matches(held.Shift) && c.inGap(held, slot) {
			return false
		}
	}
	return true
}

func (c *SequenceCriterion) Validate(state *audit.State) []audit.Violation {
	var violations []audit.Violation
	for _, holder := range state.Holders {
		for _, i := range holder.SlotIndices {
			first := state.Slots[i]
			if !c.first.Matches(first.Shift) {
				continue
			}
			// Each pair is reported on its second shift
			for _, j := range holder.SlotIndices {
				second := state.Slots[j]
				if i == j || !c.second.Matches(second.Shift) || !c.inGap(first, second) {
					continue
				}
				violations = append(violations, audit.Violation{
					SlotIndex:     second.Index,
					ShiftID:       second.Shift.ID,
					GuardID:       holder.Guard.ID,
					CriterionName: c.Name(),
					Description: fmt.Sprintf("%s holds %s and %s",
						holder.Guard.Name, first.Shift.Date, second.Shift.Date),
				})
			}
		}
	}
	return violations
}

// inGap reports whether second falls minGap to maxGap days after first
func (c *SequenceCriterion) inGap(first, second *audit.Slot) bool {
	gap := signedDays(first, second)
	return gap >= c.minGap && gap <= c.maxGap
}

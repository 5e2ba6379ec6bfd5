package audit

import (
	"slices"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// State is the roster being checked
type State struct {
	// Slots in date order, then by round
	Slots []*Slot

	// Holders are the guards of the population type, in the order given
	Holders []*Holder
}

// Holder is a guard and the slots assigned to them
type Holder struct {
	Guard *model.Guard

	// SlotIndices tracks the slots held, in date order
	SlotIndices []int

	// restricted holds the day keys the guard declared unavailable
	restricted map[string]bool
}

// Slot is one persisted shift
type Slot struct {
	Shift model.Shift

	// Index in the Slots array
	Index int

	// Holder is nil when the shift is unassigned or its assignee is not a known holder
	Holder *Holder
}

// IsRestricted reports whether the guard declared date unavailable
func (h *Holder) IsRestricted(date model.Date) bool {
	return h.restricted[date.Key()]
}

// Holds reports whether the holder is assigned to the slot
func (h *Holder) Holds(slotIndex int) bool {
	return slices.Contains(h.SlotIndices, slotIndex)
}

// HeldOnDay returns the other slots the holder has on date
func (h *Holder) HeldOnDay(state *State, slot *Slot) []*Slot {
	var held []*Slot
	for _, i := range h.SlotIndices {
		if i != slot.Index && state.Slots[i].Shift.Date.SameDay(slot.Shift.Date) {
			held = append(held, state.Slots[i])
		}
	}
	return held
}

// Holder returns the holder for a guard id, or nil
func (st *State) Holder(guardID string) *Holder {
	for _, h := range st.Holders {
		if h.Guard.ID == guardID {
			return h
		}
	}
	return nil
}

// Slot returns the slot of a shift id, or nil
func (st *State) Slot(shiftID string) *Slot {
	for _, s := range st.Slots {
		if s.Shift.ID == shiftID {
			return s
		}
	}
	return nil
}

// release removes the slot from its current holder
func (st *State) release(slot *Slot) {
	if slot.Holder == nil {
		return
	}
	slot.Holder.SlotIndices = slices.DeleteFunc(slot.Holder.SlotIndices, func(i int) bool { return i == slot.Index })
	slot.Holder = nil
	slot.Shift.AssignedUserID = ""
}

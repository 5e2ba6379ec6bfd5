package calendar

import (
	"sort"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// PotentialShift is one schedulable round of a shift type, independent of date
type PotentialShift struct {
	ShiftType      string
	PopulationType model.PopulationType
	Order          int
}

// Day is the projected slot list of one calendar day
type Day struct {
	Date  model.Date    `json:"date"`
	Slots []model.Shift `json:"slots"`
}

// PotentialShifts builds the catalogue of rounds that exist on any day for the active filters.
// Shift types are selected by the shift type filter if set, else by the population type filter
// if set, else all of them. A shift type with a zero slot count contributes nothing.
func PotentialShifts(shiftTypes []model.ShiftType, f filter.Filters) []PotentialShift {
	selected := make([]model.ShiftType, 0, len(shiftTypes))
	for _, st := range shiftTypes {
		switch {
		case f.ShiftType != "":
			if st.ID == f.ShiftType {
				selected = append(selected, st)
			}
		case f.PopulationType != "":
			if st.PopulationType == f.PopulationType {
				selected = append(selected, st)
			}
		default:
			selected = append(selected, st)
		}
	}

	catalogue := make([]PotentialShift, 0)
	for _, st := range selected {
		for order := 0; order < st.SlotsCount; order++ {
			catalogue = append(catalogue, PotentialShift{
				ShiftType:      st.ID,
				PopulationType: st.PopulationType,
				Order:          order,
			})
		}
	}
	return catalogue
}

// ShiftsForDate returns the shifts dated on date's calendar day, in input order
func ShiftsForDate(shifts []model.Shift, date model.Date) []model.Shift {
	key := date.Key()
	dayShifts := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.Date.Key() == key {
			dayShifts = append(dayShifts, s)
		}
	}
	return dayShifts
}

type slotKey struct {
	shiftType string
	order     int
}

// ProjectDay merges the persisted shifts of date with a synthetic, identity-less slot for every
// catalogue round that has no persisted shift. The result is ordered by (shift type id, order);
// persisted shifts sharing a round keep their input order.
func ProjectDay(shifts []model.Shift, date model.Date, catalogue []PotentialShift) []model.Shift {
	slots := ShiftsForDate(shifts, date)

	present := make(map[slotKey]bool, len(slots))
	for _, s := range slots {
		present[slotKey{s.ShiftType, s.Order}] = true
	}

	for _, p := range catalogue {
		if present[slotKey{p.ShiftType, p.Order}] {
			continue
		}
		slots = append(slots, model.Shift{
			Date:           date,
			ShiftType:      p.ShiftType,
			PopulationType: p.PopulationType,
			Order:          p.Order,
			IsHoliday:      false,
			NumDays:        1,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].ShiftType != slots[j].ShiftType {
			return slots[i].ShiftType < slots[j].ShiftType
		}
		return slots[i].Order < slots[j].Order
	})

	return slots
}

// Project runs ProjectDay for every date, preserving the order of dates
func Project(shifts []model.Shift, dates []model.Date, catalogue []PotentialShift) []Day {
	days := make([]Day, 0, len(dates))
	for _, d := range dates {
		days = append(days, Day{Date: d, Slots: ProjectDay(shifts, d, catalogue)})
	}
	return days
}

// GroupByDate returns the persisted shifts of each date without synthesizing empty rounds,
// as the month view shows them
func GroupByDate(shifts []model.Shift, dates []model.Date) []Day {
	days := make([]Day, 0, len(dates))
	for _, d := range dates {
		days = append(days, Day{Date: d, Slots: ShiftsForDate(shifts, d)})
	}
	return days
}

// CanEditSlot reports whether viewer may open a slot for editing: admins always, otherwise only
// slots that already have a branch the viewer manages for the slot's population type
func CanEditSlot(viewer *model.Guard, slot *model.Shift) bool {
	return roles.CanEditShift(viewer, slot)
}

// SlotTitle is the display title of a slot: the assigned guard's name, else the branch name, else ""
func SlotTitle(slot *model.Shift, guards []model.Guard, branches []model.Branch) string {
	if slot.AssignedUserID != "" {
		for _, g := range guards {
			if g.ID == slot.AssignedUserID {
				return g.Name
			}
		}
	}
	if slot.Branch != "" {
		for _, b := range branches {
			if b.ID == slot.Branch {
				return b.Name
			}
		}
	}
	return ""
}

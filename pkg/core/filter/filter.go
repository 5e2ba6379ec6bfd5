package filter

import (
	"time"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// Filters is the global filter selection of a view. Empty fields are "no constraint".
type Filters struct {
	Branch         string               `json:"branch,omitempty"`
	PopulationType model.PopulationType `json:"population_type,omitempty"`
	ShiftType      string               `json:"shift_type,omitempty"`
}

// FilterGuards returns the guards matching the branch and population type filters, in input order
func FilterGuards(guards []model.Guard, f Filters) []model.Guard {
	filtered := make([]model.Guard, 0, len(guards))
	for _, g := range guards {
		if f.Branch != "" && g.Branch != f.Branch {
			continue
		}
		if f.PopulationType != "" && !g.HasPopulationType(f.PopulationType) {
			continue
		}
		filtered = append(filtered, g)
	}
	return filtered
}

// FilterShifts returns the shifts matching every set filter, in input order.
// The shift type filter matches only shifts whose shift type resolves in shiftTypes.
func FilterShifts(shifts []model.Shift, shiftTypes []model.ShiftType, f Filters) []model.Shift {
	var known map[string]bool
	if f.ShiftType != "" {
		known = make(map[string]bool, len(shiftTypes))
		for _, st := range shiftTypes {
			known[st.ID] = true
		}
	}

	filtered := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if f.Branch != "" && s.Branch != f.Branch {
			continue
		}
		if f.PopulationType != "" && s.PopulationType != f.PopulationType {
			continue
		}
		if f.ShiftType != "" && (s.ShiftType != f.ShiftType || !known[s.ShiftType]) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// FilterShiftsByShiftType returns the shifts of one shift type
func FilterShiftsByShiftType(shifts []model.Shift, shiftType string) []model.Shift {
	filtered := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.ShiftType == shiftType {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// FilterShiftsByLocation returns the shifts whose shift type is located at location
func FilterShiftsByLocation(shifts []model.Shift, location model.Location, shiftTypes []model.ShiftType) []model.Shift {
	locations := make(map[string]model.Location, len(shiftTypes))
	for _, st := range shiftTypes {
		locations[st.ID] = st.Location
	}

	filtered := make([]model.Shift, 0)
	for _, s := range shifts {
		if loc, ok := locations[s.ShiftType]; ok && loc == location {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// GuardShifts returns the upcoming shifts assigned to guard, today's included
func GuardShifts(guard *model.Guard, shifts []model.Shift, now time.Time) []model.Shift {
	if guard == nil {
		return nil
	}
	from := model.NewDate(now)

	assigned := make([]model.Shift, 0)
	for _, s := range shifts {
		if s.AssignedUserID == guard.ID && !s.Date.Before(from.Time) {
			assigned = append(assigned, s)
		}
	}
	return assigned
}

// ManagedBranches returns the branches the user manages. Admins get every branch.
func ManagedBranches(user *model.Guard, branches []model.Branch) []model.Branch {
	managed := make([]model.Branch, 0)
	for _, b := range branches {
		if roles.IsBranchManagerOf(user, b.ID, "") {
			managed = append(managed, b)
		}
	}
	return managed
}

// ManagedPopulationTypes returns the population types the user manages within branch
func ManagedPopulationTypes(user *model.Guard, branch string, populationTypes []model.PopulationType) []model.PopulationType {
	managed := make([]model.PopulationType, 0)
	for _, pt := range populationTypes {
		if roles.IsBranchManagerOf(user, branch, pt) {
			managed = append(managed, pt)
		}
	}
	return managed
}

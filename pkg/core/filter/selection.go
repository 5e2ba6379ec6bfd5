package filter

import (
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// Selection is the branch/population type pair a manager is currently looking at
type Selection struct {
	Branch         string
	PopulationType model.PopulationType
}

// Filters returns the selection as view filters
func (s Selection) Filters() Filters {
	return Filters{Branch: s.Branch, PopulationType: s.PopulationType}
}

// Reconcile applies the default-selection policy for a viewer:
//   - admins keep whatever they selected, including nothing
//   - a selection that is still managed is kept
//   - an empty or no longer managed branch is replaced by the first managed branch
//   - the population type is then checked against the types managed in the resulting branch
//     and replaced by the first of those when empty or invalid
//
// It is called every time the managed set may have changed (role edits, branch refresh).
func Reconcile(current Selection, viewer *model.Guard, branches []model.Branch, populationTypes []model.PopulationType) Selection {
	if viewer == nil {
		return Selection{}
	}
	if roles.IsAdmin(viewer) {
		return current
	}

	next := current

	managedBranches := ManagedBranches(viewer, branches)
	if len(managedBranches) == 0 {
		return Selection{}
	}
	if !containsBranch(managedBranches, next.Branch) {
		next.Branch = managedBranches[0].ID
	}

	managedTypes := ManagedPopulationTypes(viewer, next.Branch, populationTypes)
	if len(managedTypes) == 0 {
		next.PopulationType = ""
		return next
	}
	if !containsPopulationType(managedTypes, next.PopulationType) {
		next.PopulationType = managedTypes[0]
	}

	return next
}

func containsBranch(branches []model.Branch, id string) bool {
	if id == "" {
		return false
	}
	for _, b := range branches {
		if b.ID == id {
			return true
		}
	}
	return false
}

func containsPopulationType(types []model.PopulationType, pt model.PopulationType) bool {
	if pt == "" {
		return false
	}
	for _, t := range types {
		if t == pt {
			return true
		}
	}
	return false
}

package roles

import "github.com/jakechorley/guard-roster/pkg/core/model"

var (
	adminRoles   = []Name{NameAdmin}
	managerRoles = []Name{NameManager, NameAdmin}
)

// HasAnyRole reports whether any decoded role of the guard is one of names
func HasAnyRole(guard *model.Guard, names ...Name) bool {
	for _, role := range DecodeRoles(guard) {
		for _, name := range names {
			if role.Kind != KindNone && role.Name() == name {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the guard holds the admin role
func IsAdmin(guard *model.Guard) bool {
	return HasAnyRole(guard, adminRoles...)
}

// IsBranchManager reports whether the guard manages any branch (admins included)
func IsBranchManager(guard *model.Guard) bool {
	return HasAnyRole(guard, managerRoles...)
}

// IsBranchManagerOf reports whether the guard manages branch. An empty populationType
// matches a manager role for any population type. Admins manage every branch.
func IsBranchManagerOf(guard *model.Guard, branch string, populationType model.PopulationType) bool {
	if guard == nil {
		return false
	}
	if IsAdmin(guard) {
		return true
	}

	for _, role := range DecodeRoles(guard) {
		if role.Kind != KindManager || role.Branch != branch {
			continue
		}
		if populationType == "" || role.PopulationType == populationType {
			return true
		}
	}
	return false
}

// CanEditShift reports whether viewer may edit or assign a persisted shift:
// admins, or managers of the shift's branch for the shift's population type
func CanEditShift(viewer *model.Guard, shift *model.Shift) bool {
	if IsAdmin(viewer) {
		return true
	}
	if shift == nil || shift.Branch == "" {
		return false
	}
	return IsBranchManagerOf(viewer, shift.Branch, shift.PopulationType)
}

// CanCreateShift reports whether viewer may materialise new shifts. Admin only.
func CanCreateShift(viewer *model.Guard) bool {
	return IsAdmin(viewer)
}

// CanDeleteShift reports whether viewer may delete shifts. Admin only.
func CanDeleteShift(viewer *model.Guard) bool {
	return IsAdmin(viewer)
}

// CanChangeRestrictions reports whether viewer may edit guard's restrictions: the guard
// itself, an admin, or a manager of the guard's branch for one of its population types
func CanChangeRestrictions(viewer, guard *model.Guard) bool {
	if viewer == nil || guard == nil {
		return false
	}
	if viewer.ID != "" && viewer.ID == guard.ID {
		return true
	}
	if IsAdmin(viewer) {
		return true
	}
	if guard.Branch == "" {
		return false
	}
	for _, pt := range guard.PopulationTypes {
		if IsBranchManagerOf(viewer, guard.Branch, pt) {
			return true
		}
	}
	return false
}

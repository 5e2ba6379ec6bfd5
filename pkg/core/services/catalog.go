package services

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
	"github.com/jakechorley/guard-roster/pkg/core/scoring"
)

// ErrForbidden is returned when the current user's roles do not allow an operation
var ErrForbidden = errors.New("forbidden")

// ErrNotLoggedIn is returned when the catalog has no current user
var ErrNotLoggedIn = errors.New("no current user")

// Catalog is the read side of the loaded collections. db.Snapshot implements it.
type Catalog interface {
	CurrentUser() *model.Guard
	Guards() []model.Guard
	Guard(id string) (*model.Guard, error)
	Shifts() []model.Shift
	Shift(id string) (*model.Shift, error)
	Branches() []model.Branch
	ShiftTypes() []model.ShiftType
	ShiftType(id string) (*model.ShiftType, error)
	ScoreSchemas() model.ScoreSchemas
	PopulationTypes() []model.PopulationType
}

// LoggerNotifier reports scoring data warnings through the logger
func LoggerNotifier(logger *zap.Logger) scoring.Notifier {
	return scoring.NotifierFunc(func(key, message string) {
		logger.Warn(message, zap.String("key", key))
	})
}

// ResolveFilters fills in the branch and population type a manager has not chosen with the
// first ones they manage, and replaces choices they no longer manage. Other viewers keep
// their request as is.
func ResolveFilters(catalog Catalog, requested filter.Filters) filter.Filters {
	viewer := catalog.CurrentUser()
	if !roles.IsBranchManager(viewer) || roles.IsAdmin(viewer) {
		return requested
	}

	selection := filter.Reconcile(
		filter.Selection{Branch: requested.Branch, PopulationType: requested.PopulationType},
		viewer,
		catalog.Branches(),
		catalog.PopulationTypes(),
	)

	resolved := selection.Filters()
	resolved.ShiftType = requested.ShiftType
	return resolved
}

func currentUser(catalog Catalog) (*model.Guard, error) {
	user := catalog.CurrentUser()
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user, nil
}

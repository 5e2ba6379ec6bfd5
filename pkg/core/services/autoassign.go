package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/clients/apiclient"
	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// AutoAssigner defines the assignment model operations needed
type AutoAssigner interface {
	AutoAssign(ctx context.Context, req *apiclient.AutoAssignRequest) ([]model.Shift, error)
	DefaultConstraints(ctx context.Context) (map[string]json.RawMessage, error)
}

// AutoAssignParams selects the guards and shifts handed to the assignment model
type AutoAssignParams struct {
	Branch         string
	PopulationType model.PopulationType
	From           model.Date // First day, inclusive
	To             model.Date // Last day, inclusive
	Weekend        bool       // Use the weekend default constraints
	Overwrite      bool       // Reassign shifts that were assigned by hand
	Constraints    json.RawMessage
}

// DefaultConstraintsKey names the default constraint set of a population type, e.g. "HogerRegular"
func DefaultConstraintsKey(populationType model.PopulationType, weekend bool) string {
	var prefix string
	switch populationType {
	case model.PopulationHoger:
		prefix = "Hoger"
	case model.PopulationOfficer:
		prefix = "Officer"
	default:
		return ""
	}
	if weekend {
		return prefix + "Weekend"
	}
	return prefix + "Regular"
}

// RequestAutoAssign sends the branch's guards and persisted shifts in the date range to the
// assignment model and returns the shifts it assigned. Without explicit constraints the model's
// defaults for the population type are used.
func RequestAutoAssign(ctx context.Context, assigner AutoAssigner, catalog Catalog, logger *zap.Logger, params AutoAssignParams) ([]model.Shift, error) {
	viewer, err := currentUser(catalog)
	if err != nil {
		return nil, err
	}
	if params.Branch == "" || params.PopulationType == "" {
		return nil, fmt.Errorf("branch and population type are required")
	}
	if !roles.IsBranchManagerOf(viewer, params.Branch, params.PopulationType) {
		return nil, fmt.Errorf("%s does not manage branch %s: %w", viewer.Username, params.Branch, ErrForbidden)
	}
	if params.To.Before(params.From.Time) {
		return nil, fmt.Errorf("date range ends before it starts")
	}

	f := filter.Filters{Branch: params.Branch, PopulationType: params.PopulationType}
	guards := filter.FilterGuards(catalog.Guards(), f)
	shifts := shiftsInRange(filter.FilterShifts(catalog.Shifts(), catalog.ShiftTypes(), f), params.From, params.To)
	if len(shifts) == 0 {
		return nil, fmt.Errorf("no shifts to assign between %s and %s", params.From, params.To)
	}

	constraints := params.Constraints
	if len(constraints) == 0 {
		key := DefaultConstraintsKey(params.PopulationType, params.Weekend)
		logger.Debug("Fetching default constraints", zap.String("key", key))
		defaults, err := assigner.DefaultConstraints(ctx)
		if err != nil {
			return nil, err
		}
		var ok bool
		constraints, ok = defaults[key]
		if !ok {
			return nil, fmt.Errorf("no default constraints for population type %q", params.PopulationType)
		}
	}

	req := &apiclient.AutoAssignRequest{
		Branch:                     params.Branch,
		PopulationType:             params.PopulationType,
		OverwriteManualAssignments: params.Overwrite,
		GuardIDs:                   make([]string, 0, len(guards)),
		ShiftIDs:                   make([]string, 0, len(shifts)),
		Constraints:                constraints,
	}
	for _, g := range guards {
		req.GuardIDs = append(req.GuardIDs, g.ID)
	}
	for _, s := range shifts {
		req.ShiftIDs = append(req.ShiftIDs, s.ID)
	}

	logger.Info("Requesting auto assignment",
		zap.String("branch", params.Branch),
		zap.String("population_type", string(params.PopulationType)),
		zap.Int("guards", len(req.GuardIDs)),
		zap.Int("shifts", len(req.ShiftIDs)))

	assigned, err := assigner.AutoAssign(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("Auto assignment finished", zap.Int("assigned", len(assigned)))
	return assigned, nil
}

// shiftsInRange keeps the persisted shifts dated from..to inclusive
func shiftsInRange(shifts []model.Shift, from, to model.Date) []model.Shift {
	selected := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.IsSynthetic() || s.Date.Before(from.Time) || s.Date.After(to.Time) {
			continue
		}
		selected = append(selected, s)
	}
	return selected
}

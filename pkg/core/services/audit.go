package services

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
	"github.com/jakechorley/guard-roster/pkg/core/audit/criteria"
	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/roles"
)

// AuditParams selects the roster to check
type AuditParams struct {
	Branch         string
	PopulationType model.PopulationType
	From           model.Date // First day, inclusive
	To             model.Date // Last day, inclusive
	Weekend        bool       // Use the weekend default constraints
	Constraints    json.RawMessage
}

// AuditResult is a checked roster
type AuditResult struct {
	*audit.Report

	// Skipped names the constraints that could not be checked locally
	Skipped []string `json:"skipped"`
}

// AuditRoster checks the branch's persisted shifts in the date range against the guards'
// restrictions and a constraint set. Without explicit constraints the built-in defaults for
// the population type are used.
func AuditRoster(catalog Catalog, logger *zap.Logger, params AuditParams) (*AuditResult, error) {
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

	checks, skipped, err := auditCriteria(logger, params.PopulationType, params.Weekend, params.Constraints)
	if err != nil {
		return nil, err
	}

	f := filter.Filters{Branch: params.Branch, PopulationType: params.PopulationType}
	report, err := audit.Run(audit.Config{
		Criteria:       checks,
		Guards:         filter.FilterGuards(catalog.Guards(), f),
		PopulationType: params.PopulationType,
		Shifts:         shiftsInRange(filter.FilterShifts(catalog.Shifts(), catalog.ShiftTypes(), f), params.From, params.To),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to audit roster: %w", err)
	}

	logger.Info("Roster audited",
		zap.String("branch", params.Branch),
		zap.String("population_type", string(params.PopulationType)),
		zap.Int("shifts", len(report.State.Slots)),
		zap.Int("violations", len(report.Violations)),
		zap.Int("unfilled", len(report.Unfilled)))

	return &AuditResult{Report: report, Skipped: skipped}, nil
}

// CheckAssignment returns the rules assigning guardID to the persisted shift would break,
// judged against the other shifts of its branch and population type. The guard must be
// eligible for the shift.
func CheckAssignment(catalog Catalog, logger *zap.Logger, shiftID, guardID string, constraints json.RawMessage) ([]audit.Violation, error) {
	shift, err := catalog.Shift(shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	guard, err := catalog.Guard(guardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guard: %w", err)
	}
	if err := checkEligible(guard, shift.Branch, shift.PopulationType); err != nil {
		return nil, err
	}

	checks, _, err := auditCriteria(logger, shift.PopulationType, model.DayTypeOf(shift.Date) != model.DayRegular, constraints)
	if err != nil {
		return nil, err
	}

	f := filter.Filters{Branch: shift.Branch, PopulationType: shift.PopulationType}
	violations, err := audit.CheckAssignment(audit.Config{
		Criteria:       checks,
		Guards:         filter.FilterGuards(catalog.Guards(), f),
		PopulationType: shift.PopulationType,
		Shifts:         filter.FilterShifts(catalog.Shifts(), catalog.ShiftTypes(), f),
	}, shiftID, guardID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	logger.Debug("Assignment checked",
		zap.String("shift_id", shiftID),
		zap.String("guard_id", guardID),
		zap.Int("violations", len(violations)))
	return violations, nil
}

// auditCriteria builds the criteria of a constraint set, falling back to the defaults of the
// population type
func auditCriteria(logger *zap.Logger, populationType model.PopulationType, weekend bool, constraints json.RawMessage) ([]audit.Criterion, []string, error) {
	if len(constraints) == 0 {
		key := DefaultConstraintsKey(populationType, weekend)
		var ok bool
		constraints, ok = criteria.DefaultConstraints()[key]
		if !ok {
			return nil, nil, fmt.Errorf("no default constraints for population type %q", populationType)
		}
		logger.Debug("Using default constraints", zap.String("key", key))
	}

	checks, skipped, err := criteria.FromConstraints(constraints)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range skipped {
		logger.Warn("Constraint is not checked locally", zap.String("name", name))
	}
	return checks, skipped, nil
}

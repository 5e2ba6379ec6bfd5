package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
	"github.com/jakechorley/guard-roster/pkg/core/audit/criteria"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/db"
)

func marchAudit() AuditParams {
	return AuditParams{
		Branch:         "b1",
		PopulationType: model.PopulationHoger,
		From:           model.DateOf(2024, 3, 1),
		To:             model.DateOf(2024, 3, 31),
	}
}

func criterionNames(violations []audit.Violation) []string {
	var out []string
	for _, v := range violations {
		out = append(out, v.CriterionName)
	}
	return out
}

func TestAuditRoster(t *testing.T) {
	result, err := AuditRoster(newFixtureCatalog(&manager), zap.NewNop(), marchAudit())
	require.NoError(t, err)

	// Dana holds s1 on a day she declared unavailable
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "Restriction", result.Violations[0].CriterionName)
	assert.Equal(t, "s1", result.Violations[0].ShiftID)
	assert.Equal(t, "g1", result.Violations[0].GuardID)

	require.Len(t, result.Unfilled, 1)
	assert.Equal(t, "s4", result.Unfilled[0].ID)
	assert.Empty(t, result.Skipped)
}

func TestAuditRoster_ExplicitConstraints(t *testing.T) {
	params := marchAudit()
	params.From = model.DateOf(2024, 3, 7)
	params.Constraints = json.RawMessage(`[
		{"name": "MinRestDaysConstraint", "min_rest_days": 2},
		{"name": "SpecificShiftsInServiceConstraint"}
	]`)

	result, err := AuditRoster(newFixtureCatalog(&admin), zap.NewNop(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Violations)
	assert.Equal(t, []string{"SpecificShiftsInServiceConstraint"}, result.Skipped)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"skipped":["SpecificShiftsInServiceConstraint"]`)
	assert.Contains(t, string(body), `"violations":[]`)
	assert.NotContains(t, string(body), "Slots")
}

func TestAuditRoster_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.Guard
		params  func() AuditParams
		wantErr error
	}{
		{
			name:    "no current user",
			params:  marchAudit,
			wantErr: ErrNotLoggedIn,
		},
		{
			name: "manager of another branch",
			user: &manager,
			params: func() AuditParams {
				p := marchAudit()
				p.Branch = "b2"
				return p
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "plain guard",
			user:    &dana,
			params:  marchAudit,
			wantErr: ErrForbidden,
		},
		{
			name: "invalid constraint",
			user: &manager,
			params: func() AuditParams {
				p := marchAudit()
				p.Constraints = json.RawMessage(`[{"name": "MinRestDaysConstraint", "min_rest_days": -1}]`)
				return p
			},
			wantErr: criteria.ErrInvalidConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AuditRoster(newFixtureCatalog(tt.user), zap.NewNop(), tt.params())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	params := marchAudit()
	params.To = model.DateOf(2024, 2, 1)
	_, err := AuditRoster(newFixtureCatalog(&manager), zap.NewNop(), params)
	assert.ErrorContains(t, err, "ends before it starts")
}

func TestCheckAssignment(t *testing.T) {
	catalog := newFixtureCatalog(&manager)

	violations, err := CheckAssignment(catalog, zap.NewNop(), "s4", "g1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Restriction"}, criterionNames(violations))

	// s1 on 03-06 is two weeks before s4
	violations, err = CheckAssignment(catalog, zap.NewNop(), "s4", "g1",
		json.RawMessage(`[{"name": "MinRestDaysConstraint", "min_rest_days": 20}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Restriction", "RestDays"}, criterionNames(violations))

	_, err = CheckAssignment(catalog, zap.NewNop(), "s4", "g2", nil)
	assert.ErrorIs(t, err, ErrIneligible)

	_, err = CheckAssignment(catalog, zap.NewNop(), "missing", "g1", nil)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

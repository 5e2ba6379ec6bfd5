package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

func marchParams() AutoAssignParams {
	return AutoAssignParams{
		Branch:         "b1",
		PopulationType: model.PopulationHoger,
		From:           model.DateOf(2024, 3, 1),
		To:             model.DateOf(2024, 3, 31),
	}
}

func TestRequestAutoAssign_UsesDefaultConstraints(t *testing.T) {
	assigner := &mockAssigner{
		defaults: map[string]json.RawMessage{
			"HogerRegular": json.RawMessage(`[{"name":"regular"}]`),
			"HogerWeekend": json.RawMessage(`[{"name":"weekend"}]`),
		},
		assigned: []model.Shift{{ID: "s4", AssignedUserID: "g1"}},
	}

	assigned, err := RequestAutoAssign(context.Background(), assigner, newFixtureCatalog(&manager), zap.NewNop(), marchParams())
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	req := assigner.request
	require.NotNil(t, req)
	assert.Equal(t, "b1", req.Branch)
	assert.Equal(t, model.PopulationHoger, req.PopulationType)
	assert.Equal(t, []string{"g1"}, req.GuardIDs)
	assert.Equal(t, []string{"s1", "s4"}, req.ShiftIDs)
	assert.JSONEq(t, `[{"name":"regular"}]`, string(req.Constraints))
	assert.False(t, req.OverwriteManualAssignments)
}

func TestRequestAutoAssign_WeekendAndExplicitConstraints(t *testing.T) {
	assigner := &mockAssigner{defaults: map[string]json.RawMessage{
		"HogerWeekend": json.RawMessage(`[{"name":"weekend"}]`),
	}}

	params := marchParams()
	params.Weekend = true
	_, err := RequestAutoAssign(context.Background(), assigner, newFixtureCatalog(&manager), zap.NewNop(), params)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"weekend"}]`, string(assigner.request.Constraints))

	params = marchParams()
	params.Overwrite = true
	params.Constraints = json.RawMessage(`[{"name":"custom"}]`)
	_, err = RequestAutoAssign(context.Background(), assigner, newFixtureCatalog(&manager), zap.NewNop(), params)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"custom"}]`, string(assigner.request.Constraints))
	assert.True(t, assigner.request.OverwriteManualAssignments)
}

func TestRequestAutoAssign_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.Guard
		params  func() AutoAssignParams
		wantErr error
	}{
		{
			name: "manager of another branch",
			user: &manager,
			params: func() AutoAssignParams {
				p := marchParams()
				p.Branch = "b2"
				return p
			},
			wantErr: ErrForbidden,
		},
		{
			name: "missing population type",
			user: &admin,
			params: func() AutoAssignParams {
				p := marchParams()
				p.PopulationType = ""
				return p
			},
		},
		{
			name: "no shifts in range",
			user: &manager,
			params: func() AutoAssignParams {
				p := marchParams()
				p.From = model.DateOf(2024, 4, 1)
				p.To = model.DateOf(2024, 4, 30)
				return p
			},
		},
		{
			name: "reversed range",
			user: &manager,
			params: func() AutoAssignParams {
				p := marchParams()
				p.From, p.To = p.To, p.From
				return p
			},
		},
		{
			name:    "not logged in",
			params:  marchParams,
			wantErr: ErrNotLoggedIn,
		},
		{
			name: "no default constraints",
			user: &admin,
			params: func() AutoAssignParams {
				p := marchParams()
				p.Weekend = true
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assigner := &mockAssigner{defaults: map[string]json.RawMessage{"HogerRegular": json.RawMessage(`[]`)}}
			_, err := RequestAutoAssign(context.Background(), assigner, newFixtureCatalog(tt.user), zap.NewNop(), tt.params())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, assigner.request)
		})
	}
}

func TestDefaultConstraintsKey(t *testing.T) {
	assert.Equal(t, "HogerRegular", DefaultConstraintsKey(model.PopulationHoger, false))
	assert.Equal(t, "HogerWeekend", DefaultConstraintsKey(model.PopulationHoger, true))
	assert.Equal(t, "OfficerRegular", DefaultConstraintsKey(model.PopulationOfficer, false))
	assert.Equal(t, "", DefaultConstraintsKey("other", false))
}

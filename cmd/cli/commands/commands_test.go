package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/services"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// fakeDatabase serves fixed collections and records mutations
type fakeDatabase struct {
	user   *model.Guard
	guards []model.Guard
	shifts []model.Shift

	submitted   []model.Restriction
	assignments map[string]string
}

var _ db.Database = (*fakeDatabase)(nil)

func (f *fakeDatabase) GetGuards(ctx context.Context) ([]model.Guard, error) { return f.guards, nil }
func (f *fakeDatabase) GetShifts(ctx context.Context) ([]model.Shift, error) { return f.shifts, nil }
func (f *fakeDatabase) GetCurrentUser(ctx context.Context) (*model.Guard, error) {
	return f.user, nil
}

func (f *fakeDatabase) GetBranches(ctx context.Context) ([]model.Branch, error) {
	return []model.Branch{{ID: "b1", Name: "North"}}, nil
}

func (f *fakeDatabase) GetShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	return []model.ShiftType{{ID: "st-gate", Name: "Gate", SlotsCount: 1, PopulationType: model.PopulationHoger}}, nil
}

func (f *fakeDatabase) GetScoreSchemas(ctx context.Context) (model.ScoreSchemas, error) {
	return model.ScoreSchemas{}, nil
}

func (f *fakeDatabase) GetPopulationTypes(ctx context.Context) ([]model.PopulationType, error) {
	return []model.PopulationType{model.PopulationHoger}, nil
}

func (f *fakeDatabase) UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, list []model.Restriction) error {
	f.submitted = list
	return nil
}

func (f *fakeDatabase) UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, list []model.Restriction) error {
	f.submitted = list
	return nil
}

func (f *fakeDatabase) CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error) {
	created := *shift
	created.ID = "new-1"
	return &created, nil
}

func (f *fakeDatabase) AssignShift(ctx context.Context, shiftID, guardID string) error {
	if f.assignments == nil {
		f.assignments = make(map[string]string)
	}
	f.assignments[shiftID] = guardID
	return nil
}

var (
	dana = model.Guard{
		ID: "g1", Name: "Dana", Username: "dana", Branch: "b1",
		PopulationTypes: []model.PopulationType{model.PopulationHoger},
		PopulationSettings: []model.PopulationSettings{{
			PopulationType: model.PopulationHoger,
			Restrictions:   []model.Restriction{{Date: model.DateOf(2024, 3, 6), Reason: "אחר"}},
		}},
	}
	moran = model.Guard{
		ID: "m1", Name: "Moran", Username: "moran", Branch: "b1",
		Roles: []string{"role:manager:branch=b1&population_type=" + string(model.PopulationHoger)},
	}
)

func newTestApp(t *testing.T, user *model.Guard) (*AppContext, *fakeDatabase) {
	t.Helper()

	database := &fakeDatabase{
		user:   user,
		guards: []model.Guard{dana, moran},
		shifts: []model.Shift{{
			ID: "s1", Date: model.DateOf(2024, 3, 6), Branch: "b1", ShiftType: "st-gate",
			AssignedUserID: "g1", PopulationType: model.PopulationHoger, NumDays: 1,
		}},
	}
	snapshot := db.NewSnapshot(database, zap.NewNop())
	require.NoError(t, snapshot.Refresh(context.Background()))

	return &AppContext{
		Env:      "test",
		Database: database,
		Snapshot: snapshot,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
	}, database
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWeekCmd(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	out, err := run(t, WeekCmd(app), "2024-03-06")
	require.NoError(t, err)

	assert.Contains(t, out, "Branch: North")
	assert.Contains(t, out, "Wed 2024-03-06")
	assert.Contains(t, out, "Dana  ⚠️  unavailable")
	assert.Contains(t, out, "7 slots")
}

func TestWeekCmd_InvalidDate(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	_, err := run(t, WeekCmd(app), "06/03/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestMonthCmd(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	out, err := run(t, MonthCmd(app), "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Wed 2024-03-06")
	assert.NotContains(t, out, "Thu 2024-03-07")
	assert.Contains(t, out, "1 slots")
}

func TestConflictsCmd(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	out, err := run(t, ConflictsCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "1 conflicts")
	assert.Contains(t, out, "2024-03-06  Gate #1  Dana (אחר)")
}

func TestSubmitRestrictions(t *testing.T) {
	app, database := newTestApp(t, &dana)

	out, err := run(t, RestrictionsCmd(app), "submit", "2024-03-07", "--reason", "לימודים")
	require.NoError(t, err)
	assert.Contains(t, out, "Restrictions submitted")

	assert.Equal(t, []model.Restriction{
		{Date: model.DateOf(2024, 3, 6), Reason: "אחר"},
		{Date: model.DateOf(2024, 3, 7), Reason: "לימודים"},
	}, database.submitted)
}

func TestSubmitRestrictions_ReasonRequired(t *testing.T) {
	app, database := newTestApp(t, &dana)

	_, err := run(t, RestrictionsCmd(app), "submit", "2024-03-07")
	assert.ErrorIs(t, err, restrictions.ErrReasonRequired)
	assert.Nil(t, database.submitted)
}

func TestDeleteRestrictions(t *testing.T) {
	app, database := newTestApp(t, &moran)

	out, err := run(t, RestrictionsCmd(app), "delete", "g1", "2024-03-06")
	require.NoError(t, err)
	assert.Contains(t, out, "No restrictions.")
	assert.Empty(t, database.submitted)
	assert.NotNil(t, database.submitted)
}

func TestShowRestrictions_DefaultsToCurrentUser(t *testing.T) {
	app, _ := newTestApp(t, &dana)

	out, err := run(t, RestrictionsCmd(app), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1 restrictions")
	assert.Contains(t, out, "2024-03-06 (Wednesday)")

	anonymous, _ := newTestApp(t, nil)
	_, err = run(t, RestrictionsCmd(anonymous), "show")
	assert.ErrorIs(t, err, services.ErrNotLoggedIn)
}

func TestAssignCmd(t *testing.T) {
	app, database := newTestApp(t, &moran)

	out, err := run(t, AssignCmd(app), "s1", "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", database.assignments["s1"])
	assert.Contains(t, out, "⚠️  Restriction: Dana declared 2024-03-06 unavailable")
	assert.Contains(t, out, "✓ Shift s1 assigned")
}

func TestAutoAssignCmd_RequiresAssigner(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	_, err := run(t, AutoAssignCmd(app))
	assert.ErrorContains(t, err, "auto assignment")
}

func TestAuditCmd(t *testing.T) {
	app, _ := newTestApp(t, &moran)

	out, err := run(t, AuditCmd(app), "--from", "2024-03-01", "--to", "2024-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Roster 2024-03-01 to 2024-03-31: 1 shifts, 0 unfilled")
	assert.Contains(t, out, "⚠️  1 violations:")
	assert.Contains(t, out, "2024-03-06  s1  Restriction")
	assert.Contains(t, out, "Dana declared 2024-03-06 unavailable")

	out, err = run(t, AuditCmd(app), "--from", "2024-04-01", "--to", "2024-04-30")
	require.NoError(t, err)
	assert.Contains(t, out, "No violations.")

	_, err = run(t, AuditCmd(app), "--constraints", "missing.json")
	assert.ErrorContains(t, err, "failed to read constraints")
}

func TestAuditCmd_RequiresManager(t *testing.T) {
	app, _ := newTestApp(t, &dana)

	_, err := run(t, AuditCmd(app), "--from", "2024-03-01", "--to", "2024-03-31")
	assert.ErrorContains(t, err, "branch and population type are required")
}

func TestRoleCmd(t *testing.T) {
	app := &AppContext{Logger: zap.NewNop()}

	out, err := run(t, RoleCmd(app), "parse", "role:manager:branch=b1&population_type=x")
	require.NoError(t, err)
	assert.Contains(t, out, `manager of branch "b1", population type "x"`)

	out, err = run(t, RoleCmd(app), "parse", "role:owner")
	require.NoError(t, err)
	assert.Contains(t, out, "not a role")

	_, err = run(t, RoleCmd(app), "parse", "role:manager:branch=b1", "--strict")
	assert.Error(t, err)
}

func TestOffline(t *testing.T) {
	app := &AppContext{}

	assert.False(t, NeedsData(LoginCmd(app)))
	assert.False(t, NeedsData(LogoutCmd(app)))
	assert.True(t, NeedsData(WeekCmd(app)))

	role := RoleCmd(app)
	parse, _, err := role.Find([]string{"parse"})
	require.NoError(t, err)
	assert.False(t, NeedsData(parse))
}

func TestInteractiveCmd(t *testing.T) {
	app, _ := newTestApp(t, &dana)

	root := &cobra.Command{Use: "roster"}
	root.AddCommand(RoleCmd(app), RestrictionsCmd(app), InteractiveCmd(app))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("help\nrole parse role:admin\nrestrictions show g1\nbogus\nrefresh\nexit\n"))
	root.SetArgs([]string{"interactive"})
	require.NoError(t, root.Execute())

	s := out.String()
	assert.Contains(t, s, "Available commands:")
	assert.Contains(t, s, "token: role:admin")
	assert.Contains(t, s, "1 restrictions")
	assert.Contains(t, s, "Unknown command: bogus")
	assert.Contains(t, s, "✓ Reloaded")
	assert.Contains(t, s, "Goodbye!")
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain", line: "week 2024-03-06", want: []string{"week", "2024-03-06"}},
		{name: "double quotes", line: `restrictions submit 2024-03-07 --reason "אירוע משפחתי"`, want: []string{"restrictions", "submit", "2024-03-07", "--reason", "אירוע משפחתי"}},
		{name: "single quotes", line: "role parse 'role:admin'", want: []string{"role", "parse", "role:admin"}},
		{name: "extra spaces", line: "  guards   ", want: []string{"guards"}},
		{name: "empty", line: "", want: nil},
		{name: "unclosed", line: `export "sheet`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

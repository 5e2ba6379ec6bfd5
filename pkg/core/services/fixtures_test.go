package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/clients/apiclient"
	"github.com/jakechorley/guard-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/db"
)

// fakeCatalog implements Catalog over fixed collections
type fakeCatalog struct {
	user            *model.Guard
	guards          []model.Guard
	shifts          []model.Shift
	branches        []model.Branch
	shiftTypes      []model.ShiftType
	schemas         model.ScoreSchemas
	populationTypes []model.PopulationType
}

func (f *fakeCatalog) CurrentUser() *model.Guard { return f.user }
func (f *fakeCatalog) Guards() []model.Guard     { return f.guards }
func (f *fakeCatalog) Shifts() []model.Shift     { return f.shifts }
func (f *fakeCatalog) Branches() []model.Branch  { return f.branches }

func (f *fakeCatalog) ShiftTypes() []model.ShiftType           { return f.shiftTypes }
func (f *fakeCatalog) ScoreSchemas() model.ScoreSchemas        { return f.schemas }
func (f *fakeCatalog) PopulationTypes() []model.PopulationType { return f.populationTypes }

func (f *fakeCatalog) Guard(id string) (*model.Guard, error) {
	for i := range f.guards {
		if f.guards[i].ID == id {
			g := f.guards[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("guard %s: %w", id, db.ErrNotFound)
}

func (f *fakeCatalog) Shift(id string) (*model.Shift, error) {
	for i := range f.shifts {
		if f.shifts[i].ID == id {
			s := f.shifts[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("shift %s: %w", id, db.ErrNotFound)
}

func (f *fakeCatalog) ShiftType(id string) (*model.ShiftType, error) {
	for i := range f.shiftTypes {
		if f.shiftTypes[i].ID == id {
			st := f.shiftTypes[i]
			return &st, nil
		}
	}
	return nil, fmt.Errorf("shift type %s: %w", id, db.ErrNotFound)
}

var _ Catalog = (*db.Snapshot)(nil)

var (
	admin = model.Guard{
		ID: "a1", Name: "Avi", Username: "avi", Roles: []string{"role:admin"},
	}
	manager = model.Guard{
		ID: "m1", Name: "Moran", Username: "moran", Branch: "b1",
		Roles: []string{"role:manager:branch=b1&population_type=" + string(model.PopulationHoger)},
	}
	dana = model.Guard{
		ID: "g1", Name: "Dana", Username: "dana", Branch: "b1",
		PopulationTypes: []model.PopulationType{model.PopulationHoger},
		PopulationSettings: []model.PopulationSettings{{
			PopulationType:  model.PopulationHoger,
			ScoreMultiplier: 2,
			JoinDate:        model.DateOf(2024, 1, 1),
			Score:           model.Score{RegularScore: 6, WeekendScore: 3},
			ExtraParams:     model.HogerExtraParams{NumHolidays: 1},
			Restrictions: []model.Restriction{
				{Date: model.DateOf(2024, 3, 6), Reason: "לימודים"},
				{Date: model.DateOf(2024, 3, 20), Reason: "אחר"},
			},
		}},
	}
	eli = model.Guard{
		ID: "g2", Name: "Eli", Username: "eli", Branch: "b2",
		PopulationTypes: []model.PopulationType{model.PopulationHoger},
		PopulationSettings: []model.PopulationSettings{{
			PopulationType: model.PopulationHoger, ScoreMultiplier: 1, JoinDate: model.DateOf(2024, 1, 1),
		}},
	}
	omer = model.Guard{
		ID: "o1", Name: "Omer", Username: "omer", Branch: "b1",
		PopulationTypes: []model.PopulationType{model.PopulationOfficer},
		PopulationSettings: []model.PopulationSettings{{
			PopulationType: model.PopulationOfficer, ScoreMultiplier: 1, JoinDate: model.DateOf(2024, 1, 1),
		}},
	}

	gate = model.ShiftType{
		ID: "st-gate", Name: "Gate", SlotsCount: 2, PopulationType: model.PopulationHoger,
		ScoreConfig: map[model.DayType]float64{model.DayRegular: 1, model.DayThursday: 1.5, model.DayWeekend: 2},
	}
	patrol = model.ShiftType{
		ID: "st-patrol", Name: "Patrol", SlotsCount: 1, PopulationType: model.PopulationOfficer,
		ScoreConfig: map[model.DayType]float64{model.DayRegular: 1},
	}
)

func newFixtureCatalog(user *model.Guard) *fakeCatalog {
	return &fakeCatalog{
		user:   user,
		guards: []model.Guard{admin, manager, dana, eli, omer},
		shifts: []model.Shift{
			{ID: "s1", Date: model.DateOf(2024, 3, 6), Branch: "b1", ShiftType: "st-gate", Order: 0,
				AssignedUserID: "g1", PopulationType: model.PopulationHoger, NumDays: 1},
			{ID: "s2", Date: model.DateOf(2024, 3, 7), Branch: "b2", ShiftType: "st-gate", Order: 1,
				AssignedUserID: "g2", PopulationType: model.PopulationHoger, NumDays: 1},
			{ID: "s3", Date: model.DateOf(2024, 3, 8), Branch: "b1", ShiftType: "st-patrol", Order: 0,
				PopulationType: model.PopulationOfficer, NumDays: 1},
			{ID: "s4", Date: model.DateOf(2024, 3, 20), Branch: "b1", ShiftType: "st-gate", Order: 0,
				PopulationType: model.PopulationHoger, NumDays: 1},
		},
		branches: []model.Branch{
			{ID: "b1", Name: "North", PopulationScoreProperties: []model.PopulationScoreProperties{
				{PopulationType: model.PopulationHoger, ScoreType: model.ScoreParamsHoger},
			}},
			{ID: "b2", Name: "South"},
		},
		shiftTypes: []model.ShiftType{gate, patrol},
		schemas: model.ScoreSchemas{
			model.ScoreParamsHoger: {
				{ColumnID: "regular_score", DisplayName: "Regular", Type: model.ColumnNumber},
				{ColumnID: "num_holidays", DisplayName: "Holidays", Type: model.ColumnNumber, Editable: true},
			},
		},
		populationTypes: []model.PopulationType{model.PopulationHoger, model.PopulationOfficer},
	}
}

// mockStore records mutations made through the store interfaces
type mockStore struct {
	myRestrictions    []model.Restriction
	myPopulationType  model.PopulationType
	guardRestrictions map[string][]model.Restriction
	created           []model.Shift
	assignments       map[string]string
	err               error
}

func newMockStore() *mockStore {
	return &mockStore{
		guardRestrictions: make(map[string][]model.Restriction),
		assignments:       make(map[string]string),
	}
}

func (m *mockStore) UpdateMyRestrictions(ctx context.Context, populationType model.PopulationType, restrictions []model.Restriction) error {
	if m.err != nil {
		return m.err
	}
	m.myPopulationType = populationType
	m.myRestrictions = restrictions
	return nil
}

func (m *mockStore) UpdateRestrictions(ctx context.Context, guardID string, populationType model.PopulationType, restrictions []model.Restriction) error {
	if m.err != nil {
		return m.err
	}
	m.guardRestrictions[guardID] = restrictions
	return nil
}

func (m *mockStore) CreateShift(ctx context.Context, shift *model.Shift) (*model.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *shift
	created.ID = fmt.Sprintf("new-%d", len(m.created)+1)
	m.created = append(m.created, created)
	return &created, nil
}

func (m *mockStore) AssignShift(ctx context.Context, shiftID, guardID string) error {
	if m.err != nil {
		return m.err
	}
	m.assignments[shiftID] = guardID
	return nil
}

// mockAssigner implements AutoAssigner
type mockAssigner struct {
	defaults map[string]json.RawMessage
	request  *apiclient.AutoAssignRequest
	assigned []model.Shift
	err      error
}

func (m *mockAssigner) AutoAssign(ctx context.Context, req *apiclient.AutoAssignRequest) ([]model.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.request = req
	return m.assigned, nil
}

func (m *mockAssigner) DefaultConstraints(ctx context.Context) (map[string]json.RawMessage, error) {
	return m.defaults, nil
}

// mockExporter implements RosterExporter
type mockExporter struct {
	spreadsheetID string
	roster        *sheetsclient.Roster
	err           error
}

func (m *mockExporter) ExportRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.Roster) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.roster = roster
	return nil
}

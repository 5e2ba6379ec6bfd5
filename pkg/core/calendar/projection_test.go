package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
)

var testShiftTypes = []model.ShiftType{
	{ID: "st-a", Name: "Morning", SlotsCount: 3, PopulationType: "P1"},
	{ID: "st-b", Name: "Evening", SlotsCount: 2, PopulationType: "X"},
	{ID: "st-c", Name: "Retired", SlotsCount: 0, PopulationType: "P1"},
}

func TestPotentialShifts_SelectsShiftTypes(t *testing.T) {
	tests := []struct {
		name    string
		filters filter.Filters
		want    int
	}{
		{"all shift types", filter.Filters{}, 5},
		{"by shift type", filter.Filters{ShiftType: "st-b"}, 2},
		{"shift type wins over population", filter.Filters{ShiftType: "st-b", PopulationType: "P1"}, 2},
		{"by population type", filter.Filters{PopulationType: "P1"}, 3},
		{"population with no shift types", filter.Filters{PopulationType: "Y"}, 0},
		{"unknown shift type", filter.Filters{ShiftType: "missing"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, PotentialShifts(testShiftTypes, tt.filters), tt.want)
		})
	}
}

func TestPotentialShifts_FilteredOutByPopulation(t *testing.T) {
	shiftTypes := []model.ShiftType{{ID: "st", SlotsCount: 2, PopulationType: "X"}}
	assert.Empty(t, PotentialShifts(shiftTypes, filter.Filters{PopulationType: "Y"}))
	assert.Empty(t, PotentialShifts(nil, filter.Filters{}))
}

func TestPotentialShifts_EnumeratesOrders(t *testing.T) {
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{ShiftType: "st-a"})
	assert.Equal(t, []PotentialShift{
		{ShiftType: "st-a", PopulationType: "P1", Order: 0},
		{ShiftType: "st-a", PopulationType: "P1", Order: 1},
		{ShiftType: "st-a", PopulationType: "P1", Order: 2},
	}, catalogue)
}

func TestShiftsForDate_IgnoresTimeComponent(t *testing.T) {
	shifts := []model.Shift{
		{ID: "s1", Date: model.MustParseDate("2024-03-05T18:00:00+02:00")},
		{ID: "s2", Date: model.MustParseDate("2024-03-06")},
	}

	got := ShiftsForDate(shifts, model.MustParseDate("2024-03-05"))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestProjectDay_AllSynthetic(t *testing.T) {
	date := model.DateOf(2024, 3, 5)
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{ShiftType: "st-a"})

	slots := ProjectDay(nil, date, catalogue)

	require.Len(t, slots, 3)
	for i, slot := range slots {
		assert.Equal(t, i, slot.Order)
		assert.True(t, slot.IsSynthetic())
		assert.False(t, slot.IsFilled())
		assert.False(t, slot.IsHoliday)
		assert.Equal(t, 1, slot.NumDays)
		assert.Equal(t, date, slot.Date)
		assert.Equal(t, model.PopulationType("P1"), slot.PopulationType)
	}
}

func TestProjectDay_PartialFill(t *testing.T) {
	date := model.DateOf(2024, 3, 5)
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{ShiftType: "st-a"})
	shifts := []model.Shift{
		{ID: "real", Date: model.MustParseDate("2024-03-05T09:00:00"), ShiftType: "st-a", Order: 1, AssignedUserID: "g1", Branch: "B1", NumDays: 2},
		{ID: "other-day", Date: model.DateOf(2024, 3, 6), ShiftType: "st-a", Order: 0},
	}

	slots := ProjectDay(shifts, date, catalogue)

	require.Len(t, slots, 3)
	assert.True(t, slots[0].IsSynthetic())
	assert.Equal(t, 0, slots[0].Order)
	assert.Equal(t, "real", slots[1].ID)
	assert.Equal(t, 2, slots[1].NumDays, "persisted shifts are kept as-is")
	assert.True(t, slots[2].IsSynthetic())
	assert.Equal(t, 2, slots[2].Order)
}

func TestProjectDay_SortsByShiftTypeThenOrder(t *testing.T) {
	date := model.DateOf(2024, 3, 5)
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{})
	shifts := []model.Shift{
		{ID: "b1", Date: date, ShiftType: "st-b", Order: 1},
		{ID: "a2", Date: date, ShiftType: "st-a", Order: 2},
	}

	slots := ProjectDay(shifts, date, catalogue)

	type key struct {
		st    string
		order int
	}
	var got []key
	for _, s := range slots {
		got = append(got, key{s.ShiftType, s.Order})
	}
	assert.Equal(t, []key{
		{"st-a", 0}, {"st-a", 1}, {"st-a", 2},
		{"st-b", 0}, {"st-b", 1},
	}, got)
	assert.Equal(t, "a2", slots[2].ID)
	assert.Equal(t, "b1", slots[4].ID)
}

func TestProjectDay_DuplicatesKeepSourceOrder(t *testing.T) {
	date := model.DateOf(2024, 3, 5)
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{ShiftType: "st-b"})
	shifts := []model.Shift{
		{ID: "dup-1", Date: date, ShiftType: "st-b", Order: 0},
		{ID: "dup-2", Date: date, ShiftType: "st-b", Order: 0},
	}

	slots := ProjectDay(shifts, date, catalogue)

	require.Len(t, slots, 3)
	assert.Equal(t, "dup-1", slots[0].ID)
	assert.Equal(t, "dup-2", slots[1].ID)
	assert.True(t, slots[2].IsSynthetic())
}

func TestProjectDay_PersistedOutsideCatalogueKept(t *testing.T) {
	date := model.DateOf(2024, 3, 5)
	shifts := []model.Shift{{ID: "extra", Date: date, ShiftType: "st-z", Order: 7}}

	slots := ProjectDay(shifts, date, nil)
	require.Len(t, slots, 1)
	assert.Equal(t, "extra", slots[0].ID)
}

func TestProject_IsDeterministic(t *testing.T) {
	dates := []model.Date{model.DateOf(2024, 3, 5), model.DateOf(2024, 3, 6)}
	catalogue := PotentialShifts(testShiftTypes, filter.Filters{})
	shifts := []model.Shift{{ID: "s1", Date: dates[1], ShiftType: "st-b", Order: 0}}

	first := Project(shifts, dates, catalogue)
	second := Project(shifts, dates, catalogue)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, dates[0], first[0].Date)
	assert.Len(t, first[1].Slots, 5)
}

func TestGroupByDate(t *testing.T) {
	dates := []model.Date{model.DateOf(2024, 3, 5), model.DateOf(2024, 3, 6)}
	shifts := []model.Shift{{ID: "s1", Date: dates[1]}}

	days := GroupByDate(shifts, dates)
	require.Len(t, days, 2)
	assert.Empty(t, days[0].Slots)
	assert.Len(t, days[1].Slots, 1)
}

func TestCanEditSlot(t *testing.T) {
	admin := &model.Guard{ID: "a", Roles: []string{"role:admin"}}
	manager := &model.Guard{ID: "m", Roles: []string{"role:manager:branch=B1&population_type=P1"}}

	synthetic := &model.Shift{ShiftType: "st-a", PopulationType: "P1"}
	branched := &model.Shift{ID: "s1", ShiftType: "st-a", PopulationType: "P1", Branch: "B1"}
	foreign := &model.Shift{ID: "s2", ShiftType: "st-a", PopulationType: "P1", Branch: "B2"}

	assert.True(t, CanEditSlot(admin, synthetic))
	assert.False(t, CanEditSlot(manager, synthetic))
	assert.True(t, CanEditSlot(manager, branched))
	assert.False(t, CanEditSlot(manager, foreign))
}

func TestSlotTitle(t *testing.T) {
	guards := []model.Guard{{ID: "g1", Name: "Dana"}}
	branches := []model.Branch{{ID: "B1", Name: "North"}}

	assert.Equal(t, "Dana", SlotTitle(&model.Shift{AssignedUserID: "g1", Branch: "B1"}, guards, branches))
	assert.Equal(t, "North", SlotTitle(&model.Shift{AssignedUserID: "deleted", Branch: "B1"}, guards, branches))
	assert.Equal(t, "", SlotTitle(&model.Shift{}, guards, branches))
}

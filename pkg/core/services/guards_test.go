package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/scoring"
	"github.com/jakechorley/guard-roster/pkg/db"
)

var tableNow = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

func TestBuildGuardTable(t *testing.T) {
	catalog := newFixtureCatalog(&admin)

	table := BuildGuardTable(catalog, zap.NewNop(), filter.Filters{Branch: "b1", PopulationType: model.PopulationHoger}, tableNow)

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "Dana", row.Name)
	assert.Equal(t, "North", row.Branch)
	assert.Equal(t, 2, row.ScoreMultiplier)
	require.NotNil(t, row.Weighted)
	assert.InDelta(t, 3.0, row.Weighted.Months, 0.001)
	assert.InDelta(t, 2.0, row.Weighted.Regular, 0.001)
	assert.InDelta(t, 1.0, row.Weighted.Weekend, 0.001)

	holidays, ok := row.Cell("num_holidays")
	assert.True(t, ok)
	assert.Equal(t, 1, holidays)

	require.Len(t, table.Schema, 2)
	assert.Equal(t, "regular_score", table.Schema[0].ColumnID)
}

func TestBuildGuardTable_NoSchemaWithoutSelection(t *testing.T) {
	table := BuildGuardTable(newFixtureCatalog(&admin), zap.NewNop(), filter.Filters{}, tableNow)

	assert.Len(t, table.Rows, 5)
	assert.Nil(t, table.Schema)
}

func TestBuildGuardTable_WarnsOnMultiplePopulations(t *testing.T) {
	catalog := newFixtureCatalog(&admin)
	both := dana
	both.ID = "g9"
	both.PopulationTypes = []model.PopulationType{model.PopulationHoger, model.PopulationOfficer}
	catalog.guards = append(catalog.guards, both)

	core, logs := observer.New(zapcore.WarnLevel)
	table := BuildGuardTable(catalog, zap.New(core), filter.Filters{Branch: "b1"}, tableNow)

	assert.Len(t, table.Rows, 4)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, scoring.WarnMultiPopulation, entry.ContextMap()["key"])
}

func TestGuardRestrictions(t *testing.T) {
	catalog := newFixtureCatalog(&manager)

	list, err := GuardRestrictions(catalog, "g1", "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-06", list[0].Date.Key())
	assert.Equal(t, "2024-03-20", list[1].Date.Key())

	list, err = GuardRestrictions(catalog, "m1", "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = GuardRestrictions(catalog, "nobody", "")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestConflicts(t *testing.T) {
	catalog := newFixtureCatalog(&manager)

	conflicts := Conflicts(catalog, zap.NewNop(), filter.Filters{})
	require.Len(t, conflicts, 1)
	assert.Equal(t, "s1", conflicts[0].Shift.ID)
	assert.Equal(t, "g1", conflicts[0].Guard.ID)

	assert.Empty(t, Conflicts(catalog, zap.NewNop(), filter.Filters{Branch: "b2"}))
}

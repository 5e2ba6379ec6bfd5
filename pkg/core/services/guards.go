package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
	"github.com/jakechorley/guard-roster/pkg/core/scoring"
)

// GuardTable is the manage-guards grid: one row per filtered guard and, when a branch and
// population type are selected, the score schema that names its columns
type GuardTable struct {
	Filters filter.Filters     `json:"filters"`
	Schema  model.ScoreSchema  `json:"schema,omitempty"`
	Rows    []scoring.GuardRow `json:"rows"`
}

// BuildGuardTable filters the guards and flattens their scores as of now
func BuildGuardTable(catalog Catalog, logger *zap.Logger, f filter.Filters, now time.Time) *GuardTable {
	guards := filter.FilterGuards(catalog.Guards(), f)
	branches := catalog.Branches()

	table := &GuardTable{
		Filters: f,
		Rows:    scoring.GuardRows(guards, branches, now, LoggerNotifier(logger)),
	}

	if f.Branch != "" && f.PopulationType != "" {
		schema, ok := scoring.ScoreSchemaFor(f.Branch, f.PopulationType, branches, catalog.ScoreSchemas())
		if ok {
			table.Schema = schema
		} else {
			logger.Debug("No score schema configured",
				zap.String("branch", f.Branch),
				zap.String("population_type", string(f.PopulationType)))
		}
	}

	logger.Debug("Built guard table", zap.Int("rows", len(table.Rows)))
	return table
}

// GuardRestrictions returns a guard's restrictions for a population type, ordered by date.
// An empty populationType reads the guard's default population type.
func GuardRestrictions(catalog Catalog, guardID string, populationType model.PopulationType) ([]model.Restriction, error) {
	guard, err := catalog.Guard(guardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guard: %w", err)
	}
	if populationType == "" {
		populationType = guard.DefaultPopulationType()
	}
	settings := guard.SettingsFor(populationType)
	if settings == nil {
		return []model.Restriction{}, nil
	}
	return restrictions.Sorted(restrictions.Merge(settings.Restrictions, nil)), nil
}

// Conflicts lists the filtered shifts assigned to a guard on a day that guard declared unavailable
func Conflicts(catalog Catalog, logger *zap.Logger, f filter.Filters) []restrictions.Conflict {
	shifts := filter.FilterShifts(catalog.Shifts(), catalog.ShiftTypes(), f)
	conflicts := restrictions.Conflicts(catalog.Guards(), shifts)
	if len(conflicts) > 0 {
		logger.Info("Found restriction conflicts", zap.Int("count", len(conflicts)))
	}
	return conflicts
}

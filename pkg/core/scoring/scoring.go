package scoring

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

const (
	daysPerMonth   = 30
	hoursPerDay    = 24
	weightedPlaces = 2
)

// WarnMultiPopulation is the Notifier key for guards carrying more than one population type
const WarnMultiPopulation = "get-only-population-failed"

// Notifier receives non-fatal data-consistency warnings raised while building views
type Notifier interface {
	Warn(key, message string)
}

// NotifierFunc adapts a plain function to Notifier
type NotifierFunc func(key, message string)

func (f NotifierFunc) Warn(key, message string) {
	f(key, message)
}

// WeightedScores holds a guard's raw scores normalised by time in duty
type WeightedScores struct {
	Months  float64 `json:"time_in_duty_months"`
	Regular float64 `json:"weighted_regular"`
	Weekend float64 `json:"weighted_weekend"`
}

// TimeInDutyMonths is the absolute number of calendar days between now's day and joinDate
// divided by 30. A guard who joined today has zero months.
func TimeInDutyMonths(joinDate model.Date, now time.Time) float64 {
	days := math.Round(model.NewDate(now).Sub(joinDate.Time).Hours() / hoursPerDay)
	return math.Abs(days) / daysPerMonth
}

// WeightedScore divides raw by months and rounds to two places. Zero months yields zero.
func WeightedScore(raw, months float64) float64 {
	if months == 0 {
		return 0
	}
	return decimal.NewFromFloat(raw).
		Div(decimal.NewFromFloat(months)).
		Round(weightedPlaces).
		InexactFloat64()
}

// OnlyPopulationSettings returns the guard's default population settings. Guards with more than
// one population type are reported to notify, and the first population type's settings are
// still returned. Returns nil when the guard has no settings for that type.
func OnlyPopulationSettings(guard *model.Guard, notify Notifier) *model.PopulationSettings {
	if guard == nil {
		return nil
	}
	if len(guard.PopulationTypes) > 1 && notify != nil {
		notify.Warn(WarnMultiPopulation, "Warning: One of the guards has more than one population type.")
	}
	return guard.SettingsFor(guard.DefaultPopulationType())
}

// Weighted computes the weighted regular and weekend scores of a guard, or nil if the guard has
// no population settings
func Weighted(guard *model.Guard, now time.Time, notify Notifier) *WeightedScores {
	settings := OnlyPopulationSettings(guard, notify)
	if settings == nil {
		return nil
	}
	return weightedFor(settings, now)
}

func weightedFor(settings *model.PopulationSettings, now time.Time) *WeightedScores {
	months := TimeInDutyMonths(settings.JoinDate, now)
	return &WeightedScores{
		Months:  months,
		Regular: WeightedScore(settings.Score.RegularScore, months),
		Weekend: WeightedScore(settings.Score.WeekendScore, months),
	}
}

// ScoreSchemaFor resolves the score table schema configured for a population type in a branch.
// The second return value is false when any link in branch -> score type -> schema is missing.
func ScoreSchemaFor(branchID string, populationType model.PopulationType, branches []model.Branch, schemas model.ScoreSchemas) (model.ScoreSchema, bool) {
	if branchID == "" || populationType == "" || schemas == nil {
		return nil, false
	}
	for i := range branches {
		if branches[i].ID != branchID {
			continue
		}
		scoreType, ok := branches[i].ScoreTypeFor(populationType)
		if !ok {
			return nil, false
		}
		schema, ok := schemas[scoreType]
		return schema, ok
	}
	return nil, false
}

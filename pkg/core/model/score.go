package model

import "time"

// DayType is the calendar-day category used by shift type score configuration
type DayType string

const (
	DayRegular  DayType = "REGULAR_DAY"
	DayThursday DayType = "THURSDAY"
	DayWeekend  DayType = "WEEKEND"
)

// IsWeekend reports whether scores for this day type count towards the weekend score
func (d DayType) IsWeekend() bool {
	return d == DayWeekend
}

// DayTypeOf classifies a date. Friday and Saturday are the weekend.
func DayTypeOf(date Date) DayType {
	switch date.Weekday() {
	case time.Friday, time.Saturday:
		return DayWeekend
	case time.Thursday:
		return DayThursday
	default:
		return DayRegular
	}
}

// Score is a regular/weekend score pair
type Score struct {
	RegularScore float64 `json:"regular_score"`
	WeekendScore float64 `json:"weekend_score"`
}

// Add returns the component-wise sum
func (s Score) Add(other Score) Score {
	return Score{
		RegularScore: s.RegularScore + other.RegularScore,
		WeekendScore: s.WeekendScore + other.WeekendScore,
	}
}

// Scale multiplies both components by n
func (s Score) Scale(n int) Score {
	return Score{
		RegularScore: s.RegularScore * float64(n),
		WeekendScore: s.WeekendScore * float64(n),
	}
}

// ScoreParamsType identifies a score table schema
type ScoreParamsType string

const (
	ScoreParamsHoger   ScoreParamsType = "HogerGuardParams"
	ScoreParamsOfficer ScoreParamsType = "OfficerGuardParams"
)

// ColumnType is the value type of a score table column
type ColumnType string

const (
	ColumnNumber  ColumnType = "number"
	ColumnBoolean ColumnType = "boolean"
	ColumnString  ColumnType = "string"
)

// ScoreColumn describes one column of a score table
type ScoreColumn struct {
	ColumnID      string     `json:"column_id"`
	DisplayName   string     `json:"display_name"`
	Type          ColumnType `json:"type"`
	Editable      bool       `json:"editable"`
	HideFromTable bool       `json:"hide_from_table,omitempty"`
}

// ScoreSchema is the ordered column list of a score table
type ScoreSchema []ScoreColumn

// ScoreSchemas maps a score params type to its schema, as served by the backend
type ScoreSchemas map[ScoreParamsType]ScoreSchema

package criteria

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jakechorley/guard-roster/pkg/core/audit"
)

// ErrInvalidConstraint is returned for a constraint with out of range parameters
var ErrInvalidConstraint = errors.New("invalid constraint")

// Constraint names shared with the backend assignment model
const (
	ShiftsPerGuardPerMonth      = "ShiftsPerGuardPerMonthConstraint"
	NoSpecificDayAfterDay       = "NoSpecificDayAfterSpecificDayConstraint"
	NoSpecificShiftsAfterShifts = "NoSpecificShiftsAfterSpecificShiftsConstraint"
	MinRestDays                 = "MinRestDaysConstraint"
)

// constraint holds the parameters of every supported constraint, selected by Name
type constraint struct {
	Name string `json:"name"`

	MinShiftsPerMonth int         `json:"min_shifts_per_month"`
	MaxShiftsPerMonth int         `json:"max_shifts_per_month"`
	ShiftsQuery       *ShiftQuery `json:"shifts_query"`

	FirstDay          int         `json:"first_day"`
	SecondDay         int         `json:"second_day"`
	FirstShiftsQuery  *ShiftQuery `json:"first_shifts_query"`
	SecondShiftsQuery *ShiftQuery `json:"second_shifts_query"`
	DayInterval       int         `json:"day_interval"`

	MinRestDays int `json:"min_rest_days"`
}

// Default constraint sets of the backend assignment model, limited to the constraints
// implemented here
var defaultConstraints = map[string]string{
	"HogerRegular": `[
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 1,
		 "shifts_query": {"name": "UnionQuery", "queries": [
			{"name": "ShiftQuery", "day_types": ["THURSDAY", "WEEKEND"]},
			{"name": "ShiftQuery", "is_holiday": true}]}},
		{"name": "NoSpecificDayAfterSpecificDayConstraint", "first_day": 4, "second_day": 6, "day_interval": 2},
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 3}
	]`,
	"HogerWeekend": `[
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 1,
		 "shifts_query": {"name": "UnionQuery", "queries": [
			{"name": "ShiftQuery", "day_types": ["THURSDAY", "WEEKEND"]},
			{"name": "ShiftQuery", "is_holiday": true}]}},
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 3}
	]`,
	"OfficerRegular": `[
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 1,
		 "shifts_query": {"name": "UnionQuery", "queries": [
			{"name": "ShiftQuery", "day_types": ["THURSDAY", "WEEKEND"]},
			{"name": "ShiftQuery", "is_holiday": true}]}},
		{"name": "NoSpecificDayAfterSpecificDayConstraint", "first_day": 4, "second_day": 6, "day_interval": 2},
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 2}
	]`,
	"OfficerWeekend": `[
		{"name": "ShiftsPerGuardPerMonthConstraint", "min_shifts_per_month": 0, "max_shifts_per_month": 1,
		 "shifts_query": {"name": "UnionQuery", "queries": [
			{"name": "ShiftQuery", "day_types": ["THURSDAY", "WEEKEND"]},
			{"name": "ShiftQuery", "is_holiday": true}]}}
	]`,
}

// DefaultConstraints returns the built-in constraint sets keyed like the backend assignment
// model's, e.g. "HogerRegular"
func DefaultConstraints() map[string]json.RawMessage {
	sets := make(map[string]json.RawMessage, len(defaultConstraints))
	for key, set := range defaultConstraints {
		sets[key] = json.RawMessage(set)
	}
	return sets
}

// FromConstraints builds the criteria of a JSON constraint set. Constraints with no criterion
// here are returned by name in skipped. An empty set yields no criteria.
func FromConstraints(raw json.RawMessage) (criteria []audit.Criterion, skipped []string, err error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	var set []constraint
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, nil, fmt.Errorf("failed to parse constraints: %w", err)
	}

	for _, c := range set {
		switch c.Name {
		case ShiftsPerGuardPerMonth:
			if c.MaxShiftsPerMonth < 0 || c.MaxShiftsPerMonth < c.MinShiftsPerMonth {
				return nil, nil, fmt.Errorf("%w: %s max_shifts_per_month is %d", ErrInvalidConstraint, c.Name, c.MaxShiftsPerMonth)
			}
			criteria = append(criteria, NewMonthlyShiftsCriterion(c.MaxShiftsPerMonth, c.ShiftsQuery))
		case NoSpecificDayAfterDay:
			if c.DayInterval < 0 || !validWeekday(c.FirstDay) || !validWeekday(c.SecondDay) {
				return nil, nil, fmt.Errorf("%w: %s", ErrInvalidConstraint, c.Name)
			}
			first := &ShiftQuery{Weekdays: []int{c.FirstDay}}
			second := &ShiftQuery{Weekdays: []int{c.SecondDay}}
			criteria = append(criteria, NewSequenceCriterion(first, second, 0, c.DayInterval))
		case NoSpecificShiftsAfterShifts:
			if c.DayInterval < 0 || c.FirstShiftsQuery == nil || c.SecondShiftsQuery == nil {
				return nil, nil, fmt.Errorf("%w: %s", ErrInvalidConstraint, c.Name)
			}
			criteria = append(criteria, NewSequenceCriterion(c.FirstShiftsQuery, c.SecondShiftsQuery, c.DayInterval, c.DayInterval))
		case MinRestDays:
			if c.MinRestDays < 0 {
				return nil, nil, fmt.Errorf("%w: %s min_rest_days is %d", ErrInvalidConstraint, c.Name, c.MinRestDays)
			}
			criteria = append(criteria, NewRestDaysCriterion(c.MinRestDays))
		default:
			skipped = append(skipped, c.Name)
		}
	}
	return criteria, skipped, nil
}

func validWeekday(d int) bool {
	return d >= 0 && d <= 6
}

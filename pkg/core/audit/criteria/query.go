package criteria

import (
	"slices"
	"time"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

const unionQuery = "UnionQuery"

// ShiftQuery selects shifts the way the backend assignment model's queries do. Unset fields
// match everything. A query named "UnionQuery" matches when any of its Queries matches.
type ShiftQuery struct {
	Name       string          `json:"name,omitempty"`
	Date       *model.Date     `json:"date,omitempty"`
	StartDate  *model.Date     `json:"start_date,omitempty"`
	EndDate    *model.Date     `json:"end_date,omitempty"`
	ShiftTypes []string        `json:"shift_types,omitempty"`
	DayTypes   []model.DayType `json:"day_types,omitempty"`
	Weekdays   []int           `json:"weekdays,omitempty"` // 0 is Monday
	IsHoliday  *bool           `json:"is_holiday,omitempty"`
	Queries    []ShiftQuery    `json:"queries,omitempty"`
}

// Matches reports whether the shift is selected. A nil query selects every shift.
func (q *ShiftQuery) Matches(s model.Shift) bool {
	if q == nil {
		return true
	}
	if q.Name == unionQuery {
		for i := range q.Queries {
			if q.Queries[i].Matches(s) {
				return true
			}
		}
		return false
	}

	if q.Date != nil && !s.Date.SameDay(*q.Date) {
		return false
	}
	if q.StartDate != nil && s.Date.Before(q.StartDate.Time) {
		return false
	}
	if q.EndDate != nil && s.Date.After(q.EndDate.Time) {
		return false
	}
	if len(q.ShiftTypes) > 0 && !slices.Contains(q.ShiftTypes, s.ShiftType) {
		return false
	}
	if len(q.DayTypes) > 0 && !slices.Contains(q.DayTypes, model.DayTypeOf(s.Date)) {
		return false
	}
	if len(q.Weekdays) > 0 && !slices.Contains(q.Weekdays, mondayFirst(s.Date.Weekday())) {
		return false
	}
	if q.IsHoliday != nil && s.IsHoliday != *q.IsHoliday {
		return false
	}
	return true
}

// mondayFirst numbers weekdays from Monday = 0 to Sunday = 6
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

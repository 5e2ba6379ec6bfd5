package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/guard-roster/pkg/core/calendar"
	"github.com/jakechorley/guard-roster/pkg/core/filter"
	"github.com/jakechorley/guard-roster/pkg/core/model"
	"github.com/jakechorley/guard-roster/pkg/core/restrictions"
)

// ViewOptions are the calendar settings shared by all views
type ViewOptions struct {
	WeekStart time.Weekday
	Holidays  *calendar.Holidays
}

// SlotView is a projected slot with its display state for the current user
type SlotView struct {
	model.Shift
	Title    string `json:"title"`
	Editable bool   `json:"editable"`
	Conflict bool   `json:"conflict"` // The assignee declared the day unavailable
}

// DayView is one day of a calendar view
type DayView struct {
	Date    model.Date `json:"date"`
	Holiday bool       `json:"holiday"`
	Slots   []SlotView `json:"slots"`
}

// CalendarView is a projected range of days
type CalendarView struct {
	Filters filter.Filters `json:"filters"`
	Days    []DayView      `json:"days"`
}

// SlotCount returns the number of slots over all days
func (v *CalendarView) SlotCount() int {
	n := 0
	for _, d := range v.Days {
		n += len(d.Slots)
	}
	return n
}

// WeekView projects the week containing anchor: every round of the selected shift types appears
// on every day, filled from persisted shifts where they exist. A round is shown filled whichever
// branch filled it, so the branch filter does not apply to persisted shifts here.
func WeekView(catalog Catalog, opts ViewOptions, logger *zap.Logger, anchor model.Date, f filter.Filters) (*CalendarView, error) {
	dates, err := calendar.WeekRange(anchor, opts.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute week range: %w", err)
	}

	shiftTypes := catalog.ShiftTypes()
	rounds := filter.Filters{PopulationType: f.PopulationType, ShiftType: f.ShiftType}
	shifts := filter.FilterShifts(catalog.Shifts(), shiftTypes, rounds)
	catalogue := calendar.PotentialShifts(shiftTypes, f)
	logger.Debug("Projecting week",
		zap.String("start", dates[0].Key()),
		zap.Int("shifts", len(shifts)),
		zap.Int("rounds_per_day", len(catalogue)))

	view := buildView(catalog, opts, f, calendar.Project(shifts, dates, catalogue))
	logger.Debug("Projected week", zap.Int("slots", view.SlotCount()))
	return view, nil
}

// MonthView groups the persisted shifts of the 42-day grid of a month. Empty rounds are not
// synthesized.
func MonthView(catalog Catalog, opts ViewOptions, logger *zap.Logger, year int, month time.Month, f filter.Filters) (*CalendarView, error) {
	dates, err := calendar.MonthRange(year, month, opts.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute month range: %w", err)
	}

	shifts := filter.FilterShifts(catalog.Shifts(), catalog.ShiftTypes(), f)
	logger.Debug("Grouping month",
		zap.Int("year", year),
		zap.String("month", month.String()),
		zap.Int("shifts", len(shifts)))

	return buildView(catalog, opts, f, calendar.GroupByDate(shifts, dates)), nil
}

func buildView(catalog Catalog, opts ViewOptions, f filter.Filters, days []calendar.Day) *CalendarView {
	viewer := catalog.CurrentUser()
	guards := catalog.Guards()
	branches := catalog.Branches()

	byID := make(map[string]*model.Guard, len(guards))
	for i := range guards {
		byID[guards[i].ID] = &guards[i]
	}

	view := &CalendarView{Filters: f, Days: make([]DayView, 0, len(days))}
	for _, d := range days {
		day := DayView{
			Date:    d.Date,
			Holiday: opts.Holidays.IsHoliday(d.Date),
			Slots:   make([]SlotView, 0, len(d.Slots)),
		}
		for i := range d.Slots {
			slot := &d.Slots[i]
			sv := SlotView{
				Shift:    *slot,
				Title:    calendar.SlotTitle(slot, guards, branches),
				Editable: calendar.CanEditSlot(viewer, slot),
			}
			if g, ok := byID[slot.AssignedUserID]; ok {
				sv.Conflict = restrictions.IsRestricted(g, slot.PopulationType, slot.Date)
			}
			day.Slots = append(day.Slots, sv)
		}
		view.Days = append(view.Days, day)
	}
	return view
}

// UpcomingShifts returns the current user's assigned shifts from today on
func UpcomingShifts(catalog Catalog, now time.Time) ([]model.Shift, error) {
	user, err := currentUser(catalog)
	if err != nil {
		return nil, err
	}
	return filter.GuardShifts(user, catalog.Shifts(), now), nil
}

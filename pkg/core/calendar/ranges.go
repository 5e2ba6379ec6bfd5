package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

const (
	weekDays  = 7
	monthDays = 42 // Six full weeks always cover a month grid
)

// WeekRange returns the 7 days of the week containing anchor, starting on weekStart
func WeekRange(anchor model.Date, weekStart time.Weekday) ([]model.Date, error) {
	return dailyRange(startOfWeek(anchor, weekStart), weekDays)
}

// MonthRange returns the 42-day grid for a month: it starts on the weekStart on or before the
// first of the month
func MonthRange(year int, month time.Month, weekStart time.Weekday) ([]model.Date, error) {
	first := model.DateOf(year, month, 1)
	return dailyRange(startOfWeek(first, weekStart), monthDays)
}

func startOfWeek(d model.Date, weekStart time.Weekday) model.Date {
	offset := (int(d.Weekday()) - int(weekStart) + weekDays) % weekDays
	return d.AddDays(-offset)
}

func dailyRange(start model.Date, count int) ([]model.Date, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   count,
		Dtstart: start.Time,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build date range: %w", err)
	}

	occurrences := r.All()
	dates := make([]model.Date, 0, len(occurrences))
	for _, t := range occurrences {
		dates = append(dates, model.NewDate(t))
	}
	return dates, nil
}

// Holidays is a set of recurring holiday dates described by RRULE strings
type Holidays struct {
	rules []*rrule.RRule
}

// holidayEpoch anchors rules that carry no DTSTART
var holidayEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseHolidays parses RRULE strings such as "FREQ=YEARLY;BYMONTH=4;BYMONTHDAY=23"
func ParseHolidays(ruleStrings []string) (*Holidays, error) {
	h := &Holidays{}
	for i, s := range ruleStrings {
		opt, err := rrule.StrToROption(s)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rule %d: %w", i, err)
		}
		if opt.Dtstart.IsZero() {
			opt.Dtstart = holidayEpoch
		}
		r, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rule %d: %w", i, err)
		}
		h.rules = append(h.rules, r)
	}
	return h, nil
}

// IsHoliday reports whether any rule has an occurrence on date's calendar day
func (h *Holidays) IsHoliday(date model.Date) bool {
	if h == nil {
		return false
	}
	dayStart := date.Time
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	for _, r := range h.rules {
		if len(r.Between(dayStart, dayEnd, true)) > 0 {
			return true
		}
	}
	return false
}

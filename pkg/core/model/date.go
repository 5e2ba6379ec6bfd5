package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the layout of a calendar day key
const DayLayout = "2006-01-02"

// Date is a calendar day. The time-of-day and zone of any decoded timestamp are dropped,
// so two timestamps on the same local calendar day compare equal.
type Date struct {
	time.Time
}

// NewDate returns the calendar day of t, as read in t's own location
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// DateOf builds a Date from its components
func DateOf(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses either a bare day ("2024-03-05") or a timestamp whose date component is kept
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}

	// The date component is everything before the time separator
	day, _, _ := strings.Cut(s, "T")
	day, _, _ = strings.Cut(day, " ")

	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Key returns the YYYY-MM-DD form used as a lookup key
func (d Date) Key() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DayLayout)
}

// SameDay reports whether both dates fall on the same calendar day
func (d Date) SameDay(other Date) bool {
	return d.Key() == other.Key()
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// String implements fmt.Stringer
func (d Date) String() string {
	return d.Key()
}

// MarshalJSON encodes the date as YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Key())
}

// UnmarshalJSON decodes a day or timestamp string, keeping only the day
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Package datecalc holds the date arithmetic behind the anniversary tracker:
// Japanese era (wareki) conversion, countdown and elapsed-year math for
// anniversaries, and 6-week month grids with holiday and anniversary overlays.
//
// Everything here is pure. Functions that need "today" read it from a Clock
// carried by Calc, so callers (and tests) decide what time it is. Malformed
// date strings never produce errors or panics; each function answers with its
// own "no value" sentinel instead ("" or ok=false), because results feed
// straight into page rendering where a blank field beats a failed request.
package datecalc

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only interchange format for calendar days.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day or zone. The zero value is
// 0000-01-01 and is never produced by ParseDate.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate builds a Date the way time.Date does, so out-of-range parts
// overflow into the next unit (2025-02-29 becomes 2025-03-01).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts exactly YYYY-MM-DD naming a real Gregorian day.
func ParseDate(s string) (Date, bool) {
	if len(s) != len(DateLayout) {
		return Date{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// String renders the day as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MonthDay renders the recurring part of the day as MM-DD.
func (d Date) MonthDay() string {
	return fmt.Sprintf("%02d-%02d", int(d.t.Month()), d.t.Day())
}

// SameMonthDay reports whether both days fall on the same month and day,
// ignoring the year.
func (d Date) SameMonthDay(o Date) bool {
	return d.Month() == o.Month() && d.Day() == o.Day()
}

// AddDays moves n days forward (or back when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the signed number of days from d to o. Both sides are
// midnight UTC, so the seconds divide evenly; time.Duration would overflow
// past about 292 years.
func (d Date) DaysUntil(o Date) int {
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseDate(s)
	if !ok {
		return fmt.Errorf("datecalc: invalid date %q: expected YYYY-MM-DD", s)
	}
	*d = parsed
	return nil
}

// IsLeapYear reports whether year has a Feb 29 in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package datecalc

import "time"

// Clock supplies the current instant. Every "today" in this package is read
// through one, never from time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the frozen instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

// WeekdayNames is a Sunday-first table of weekday abbreviations.
type WeekdayNames [7]string

// JapaneseWeekdays are the one-character abbreviations used in headers.
var JapaneseWeekdays = WeekdayNames{"日", "月", "火", "水", "木", "金", "土"}

// Name returns the abbreviation for wd.
func (w WeekdayNames) Name(wd time.Weekday) string {
	return w[int(wd)%7]
}

// Calc carries the clock and weekday table for operations that depend on
// the current date. It holds no mutable state and is safe for concurrent use.
type Calc struct {
	clock    Clock
	weekdays WeekdayNames
}

// NewCalc creates a Calc reading time from clock, with Japanese weekday names.
func NewCalc(clock Clock) *Calc {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calc{clock: clock, weekdays: JapaneseWeekdays}
}

// WithWeekdays returns a copy of c using a different weekday table.
func (c *Calc) WithWeekdays(names WeekdayNames) *Calc {
	cp := *c
	cp.weekdays = names
	return &cp
}

// Now returns the clock's current instant.
func (c *Calc) Now() time.Time {
	return c.clock.Now()
}

// Today returns the current calendar day in the clock's location.
func (c *Calc) Today() Date {
	return DateOf(c.clock.Now())
}

// Snapshot returns a copy of c frozen at the current instant, so a batch of
// calculations agrees on "today" even across midnight.
func (c *Calc) Snapshot() *Calc {
	cp := *c
	cp.clock = FixedClock{At: c.clock.Now()}
	return &cp
}

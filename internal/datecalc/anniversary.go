package datecalc

import (
	"fmt"
	"slices"
	"strconv"
)

// DiffDays returns how many days remain until the anniversary next comes
// round, counting from today. ok is false when s is empty or malformed.
//
// A date that is still ahead of today is counted exactly, year included.
// A past date recurs every year on its month and day: today's recurrence
// answers 0, otherwise the count runs to this year's recurrence or, once
// that has passed, next year's.
func (c *Calc) DiffDays(s string) (days int, ok bool) {
	d, ok := ParseDate(s)
	if !ok {
		return 0, false
	}
	return diffDays(c.Today(), d), true
}

func diffDays(today, d Date) int {
	if !d.Before(today) {
		return today.DaysUntil(d)
	}
	if d.SameMonthDay(today) {
		return 0
	}
	this := NewDate(today.Year(), d.Month(), d.Day())
	if this.After(today) {
		return today.DaysUntil(this)
	}
	// One year after this year's occurrence, so a Feb 29 origin that rolled
	// to Mar 1 stays on Mar 1 even when next year is a leap year.
	next := Date{t: this.t.AddDate(1, 0, 0)}
	return today.DaysUntil(next)
}

// Countdown is a day count split into the number and its unit for display.
type Countdown struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// FormatCountdown renders a DiffDays result.
func FormatCountdown(days int, ok bool) Countdown {
	switch {
	case !ok:
		return Countdown{Value: "-", Unit: ""}
	case days == 0:
		return Countdown{Value: "今日", Unit: "！"}
	default:
		return Countdown{Value: strconv.Itoa(days), Unit: "日"}
	}
}

// ElapsedYears renders the whole years since the anniversary together with
// the ordinal of the year now running, e.g. "5年（6年目）". Malformed input
// and dates after today yield "".
func (c *Calc) ElapsedYears(s string) string {
	d, ok := ParseDate(s)
	if !ok {
		return ""
	}
	n, ok := elapsedYears(c.Today(), d)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d年（%d年目）", n, n+1)
}

// elapsedYears counts completed years by comparing month and day, so a
// Feb 29 origin completes its year on Mar 1 in common years.
func elapsedYears(today, d Date) (int, bool) {
	if d.After(today) {
		return 0, false
	}
	n := today.Year() - d.Year()
	if today.Month() < d.Month() || (today.Month() == d.Month() && today.Day() < d.Day()) {
		n--
	}
	return n, true
}

// SortByClosest returns a new slice ordered by ascending key. Items whose
// key reports ok=false go last. The sort is stable and items is untouched.
func SortByClosest[T any](items []T, key func(T) (int, bool)) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		ka, oka := key(a)
		kb, okb := key(b)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		return ka - kb
	})
	return out
}

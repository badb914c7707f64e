package datecalc

import (
	"strconv"
	"strings"
)

// Era is a Japanese era (gengō) and the first day it was in effect.
type Era struct {
	Name  string
	Start Date
}

// eras is ordered newest first; lookups take the first entry that has
// started on or before the date.
var eras = []Era{
	{Name: "令和", Start: NewDate(2019, 5, 1)},
	{Name: "平成", Start: NewDate(1989, 1, 8)},
	{Name: "昭和", Start: NewDate(1926, 12, 25)},
	{Name: "大正", Start: NewDate(1912, 7, 30)},
	{Name: "明治", Start: NewDate(1868, 1, 25)},
}

// Eras returns a copy of the era table, newest first.
func Eras() []Era {
	out := make([]Era, len(eras))
	copy(out, eras)
	return out
}

// EraOf returns the era containing d and d's year within it (1 for the
// first year). ok is false for days before the Meiji era began.
func EraOf(d Date) (era Era, year int, ok bool) {
	for _, e := range eras {
		if !e.Start.After(d) {
			return e, d.Year() - e.Start.Year() + 1, true
		}
	}
	return Era{}, 0, false
}

// ToJapaneseDate converts a YYYY-MM-DD string to its wareki form, such as
// "令和元年5月1日", or "令和元年" when yearOnly is set. Malformed input and
// days before 1868-01-25 yield "".
func ToJapaneseDate(s string, yearOnly bool) string {
	d, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatJapaneseDate(d, yearOnly)
}

// FormatJapaneseDate renders an already parsed day in wareki form.
func FormatJapaneseDate(d Date, yearOnly bool) string {
	era, year, ok := EraOf(d)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(era.Name)
	if year == 1 {
		b.WriteString("元")
	} else {
		b.WriteString(strconv.Itoa(year))
	}
	b.WriteString("年")
	if yearOnly {
		return b.String()
	}
	b.WriteString(strconv.Itoa(int(d.Month())))
	b.WriteString("月")
	b.WriteString(strconv.Itoa(d.Day()))
	b.WriteString("日")
	return b.String()
}

// TodayHeader renders the dashboard header line, for example
// "2025-11-04 (火) 09:30（令和7年）".
func (c *Calc) TodayHeader() string {
	now := c.clock.Now()
	today := DateOf(now)
	return today.String() +
		" (" + c.weekdays.Name(today.Weekday()) + ") " +
		now.Format("15:04") +
		"（" + FormatJapaneseDate(today, true) + "）"
}

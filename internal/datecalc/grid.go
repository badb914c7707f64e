package datecalc

import (
	"slices"
	"strconv"
	"time"
)

// GridCells is the size of a month grid: six full Sunday-first weeks.
const GridCells = 42

// Holiday is a named public holiday. Several may share a date.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// AnniversaryOccurrence is an anniversary as overlaid on the calendar. The
// year of AnniversaryDate is the origin year; the day recurs every year
// after it on the same month and day.
type AnniversaryOccurrence struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	AnniversaryDate string `json:"anniversaryDate"`
}

// CalendarCell is one day of a month grid.
type CalendarCell struct {
	Date           string                  `json:"date"`
	DayOfMonth     int                     `json:"dayOfMonth"`
	IsCurrentMonth bool                    `json:"isCurrentMonth"`
	IsToday        bool                    `json:"isToday"`
	IsSaturday     bool                    `json:"isSaturday"`
	IsSunday       bool                    `json:"isSunday"`
	Holidays       []Holiday               `json:"holidays"`
	Anniversaries  []AnniversaryOccurrence `json:"anniversaries"`
}

// MonthGrid lays out the given month as 42 cells starting on the Sunday on
// or before the 1st, spilling into the neighbouring months as needed.
//
// holidays and anniversaries are trusted to be well formed and already
// scoped to what the caller wants shown; nothing is validated here. Holidays
// match on the exact date. Anniversaries match on month and day, but never
// before their origin year.
func (c *Calc) MonthGrid(year, month int, holidays []Holiday, anniversaries []AnniversaryOccurrence) []CalendarCell {
	return monthGrid(c.Today(), year, month, indexHolidays(holidays), indexAnniversaries(anniversaries))
}

// YearGrid returns the twelve month grids of year, January first.
func (c *Calc) YearGrid(year int, holidays []Holiday, anniversaries []AnniversaryOccurrence) [][]CalendarCell {
	today := c.Today()
	hol := indexHolidays(holidays)
	ann := indexAnniversaries(anniversaries)

	grids := make([][]CalendarCell, 0, 12)
	for m := 1; m <= 12; m++ {
		grids = append(grids, monthGrid(today, year, m, hol, ann))
	}
	return grids
}

// GridRange returns the first and last day shown on the grid for year/month.
// Callers use it to fetch exactly the holidays a grid can display.
func GridRange(year, month int) (first, last Date) {
	first = gridStart(NewDate(year, time.Month(month), 1))
	return first, first.AddDays(GridCells - 1)
}

func gridStart(firstOfMonth Date) Date {
	return firstOfMonth.AddDays(-int(firstOfMonth.Weekday()))
}

func monthGrid(today Date, year, month int, hol map[string][]Holiday, ann map[string][]anniversaryEntry) []CalendarCell {
	first := NewDate(year, time.Month(month), 1)
	target := first.Month()
	todayKey := today.String()

	cells := make([]CalendarCell, 0, GridCells)
	day := gridStart(first)
	for i := 0; i < GridCells; i++ {
		key := day.String()
		wd := day.Weekday()

		cell := CalendarCell{
			Date:           key,
			DayOfMonth:     day.Day(),
			IsCurrentMonth: day.Month() == target,
			IsToday:        key == todayKey,
			IsSaturday:     wd == time.Saturday,
			IsSunday:       wd == time.Sunday,
			Holidays:       slices.Clone(hol[key]),
			Anniversaries:  matchAnniversaries(ann[day.MonthDay()], day.Year()),
		}
		if cell.Holidays == nil {
			cell.Holidays = []Holiday{}
		}
		cells = append(cells, cell)
		day = day.AddDays(1)
	}
	return cells
}

func indexHolidays(holidays []Holiday) map[string][]Holiday {
	byDate := make(map[string][]Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date] = append(byDate[h.Date], h)
	}
	return byDate
}

type anniversaryEntry struct {
	originYear int
	occurrence AnniversaryOccurrence
}

// indexAnniversaries groups by the MM-DD slice of the date string. Strings
// too short to slice are skipped so a bad row cannot panic the grid.
func indexAnniversaries(anniversaries []AnniversaryOccurrence) map[string][]anniversaryEntry {
	byMonthDay := make(map[string][]anniversaryEntry, len(anniversaries))
	for _, a := range anniversaries {
		if len(a.AnniversaryDate) != len(DateLayout) {
			continue
		}
		year, err := strconv.Atoi(a.AnniversaryDate[:4])
		if err != nil {
			continue
		}
		md := a.AnniversaryDate[5:]
		byMonthDay[md] = append(byMonthDay[md], anniversaryEntry{originYear: year, occurrence: a})
	}
	return byMonthDay
}

func matchAnniversaries(entries []anniversaryEntry, year int) []AnniversaryOccurrence {
	out := []AnniversaryOccurrence{}
	for _, e := range entries {
		if e.originYear <= year {
			out = append(out, e.occurrence)
		}
	}
	return out
}

// Package calendar serves Gregorian month and year grids overlaid with
// public holidays and anniversaries, plus the Japanese era helpers.
package calendar

import (
	"time"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// Year bounds accepted by the grid endpoints.
const (
	minYear = 1
	maxYear = 9999
)

// MonthView is one 42-cell month grid.
type MonthView struct {
	Year  int                     `json:"year"`
	Month int                     `json:"month"`
	Cells []datecalc.CalendarCell `json:"cells"`
}

// YearView holds the twelve month grids of a year, January first.
type YearView struct {
	Year   int                       `json:"year"`
	Months [][]datecalc.CalendarCell `json:"months"`
}

// EraResponse is returned by GET /api/v1/era. Japanese is "" for malformed
// dates and days before the Meiji era.
type EraResponse struct {
	Date     string `json:"date"`
	YearOnly bool   `json:"year_only"`
	Japanese string `json:"japanese"`
}

// TodayResponse is returned by GET /api/v1/today.
type TodayResponse struct {
	Today  string `json:"today"`
	Header string `json:"header"`
}

// MonthPageData feeds the HTML month page.
type MonthPageData struct {
	View       *MonthView
	Header     string
	Weekdays   datecalc.WeekdayNames
	Prev, Next datecalc.Date
}

// monthTitle renders "2025年1月".
func (d MonthPageData) monthTitle() string {
	return datecalc.NewDate(d.View.Year, time.Month(d.View.Month), 1).Time().Format("2006年1月")
}

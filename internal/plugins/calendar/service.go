package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// HolidaySource supplies holidays for a date range.
type HolidaySource interface {
	ListForRange(ctx context.Context, from, to datecalc.Date) ([]datecalc.Holiday, error)
}

// AnniversarySource supplies the anniversaries to overlay.
type AnniversarySource interface {
	Occurrences(ctx context.Context) ([]datecalc.AnniversaryOccurrence, error)
}

// CalendarService builds the calendar views.
type CalendarService interface {
	Month(ctx context.Context, year, month int) (*MonthView, error)
	Year(ctx context.Context, year int) (*YearView, error)
	Era(date string, yearOnly bool) EraResponse
	Today() TodayResponse

	// MonthPage returns everything the HTML month page renders.
	MonthPage(ctx context.Context, year, month int) (*MonthPageData, error)
}

type calendarService struct {
	holidays      HolidaySource
	anniversaries AnniversarySource
	calc          *datecalc.Calc
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(holidays HolidaySource, anniversaries AnniversarySource, calc *datecalc.Calc) CalendarService {
	return &calendarService{holidays: holidays, anniversaries: anniversaries, calc: calc}
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return apperror.NewValidation(fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}
	return nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return apperror.NewValidation("month must be between 1 and 12")
	}
	return nil
}

// overlays loads holidays covering [from, to] and all anniversary
// occurrences.
func (s *calendarService) overlays(ctx context.Context, from, to datecalc.Date) ([]datecalc.Holiday, []datecalc.AnniversaryOccurrence, error) {
	hol, err := s.holidays.ListForRange(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load holidays: %w", err)
	}
	occ, err := s.anniversaries.Occurrences(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load anniversaries: %w", err)
	}
	return hol, occ, nil
}

func (s *calendarService) Month(ctx context.Context, year, month int) (*MonthView, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	first, last := datecalc.GridRange(year, month)
	hol, occ, err := s.overlays(ctx, first, last)
	if err != nil {
		return nil, err
	}
	return &MonthView{
		Year:  year,
		Month: month,
		Cells: s.calc.MonthGrid(year, month, hol, occ),
	}, nil
}

func (s *calendarService) Year(ctx context.Context, year int) (*YearView, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	first, _ := datecalc.GridRange(year, 1)
	_, last := datecalc.GridRange(year, 12)
	hol, occ, err := s.overlays(ctx, first, last)
	if err != nil {
		return nil, err
	}
	return &YearView{Year: year, Months: s.calc.YearGrid(year, hol, occ)}, nil
}

func (s *calendarService) Era(date string, yearOnly bool) EraResponse {
	return EraResponse{
		Date:     date,
		YearOnly: yearOnly,
		Japanese: datecalc.ToJapaneseDate(date, yearOnly),
	}
}

func (s *calendarService) Today() TodayResponse {
	calc := s.calc.Snapshot()
	return TodayResponse{Today: calc.Today().String(), Header: calc.TodayHeader()}
}

func (s *calendarService) MonthPage(ctx context.Context, year, month int) (*MonthPageData, error) {
	view, err := s.Month(ctx, year, month)
	if err != nil {
		return nil, err
	}
	first := datecalc.NewDate(year, time.Month(month), 1)
	return &MonthPageData{
		View:     view,
		Header:   s.calc.TodayHeader(),
		Weekdays: datecalc.JapaneseWeekdays,
		Prev:     datecalc.NewDate(year, time.Month(month)-1, 1),
		Next:     first.AddDays(datecalc.DaysInMonth(year, time.Month(month))),
	}, nil
}
